package services

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gulfsteel/steelstore-api/config"
	"github.com/gulfsteel/steelstore-api/models"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory database for one test
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

// seedRebar stores an active rebar product with ton-priced variants
func seedRebar(t *testing.T, db *gorm.DB, name string, price float64, diameters ...int) models.Product {
	t.Helper()

	product := models.Product{
		Name:     name,
		Slug:     Slugify(name),
		Category: models.CategoryRebar,
		Active:   true,
	}
	for _, d := range diameters {
		product.Variants = append(product.Variants, models.ProductVariant{
			DiameterMm: lo.ToPtr(d),
			UnitType:   "ton",
			PriceQR:    decimal.NewFromFloat(price),
			Grade:      models.DefaultGrade,
			Active:     true,
		})
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func seedSetting(t *testing.T, db *gorm.DB, key, value string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Setting{Key: key, ValueJSON: value}).Error)
}

// newFileHeader builds a parsed multipart file the way gin hands it to handlers
func newFileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	require.Len(t, form.File["file"], 1)
	return form.File["file"][0]
}

func fakeContact() (string, string) {
	return gofakeit.Name(), gofakeit.Phone()
}
