package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/gulfsteel/steelstore-api/config"
	"github.com/gulfsteel/steelstore-api/middleware"
	"github.com/gulfsteel/steelstore-api/models"
	"github.com/gulfsteel/steelstore-api/services"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupControllerTest installs a fresh database, mock storage and config for one test
func setupControllerTest(t *testing.T) (*gorm.DB, *services.MockStorage) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))

	storage := services.NewMockStorage()
	previousDB, previousStorage, previousCfg := config.GetDB(), services.GetStorageService(), config.GetConfig()
	config.SetDB(db)
	storage.SetAsMockForTesting()
	config.SetConfig(&config.Config{GoEnv: "test", SignedURLTTL: 15 * time.Minute, SessionCookie: "ws_session"})

	t.Cleanup(func() {
		config.SetDB(previousDB)
		services.SetStorageService(previousStorage)
		config.SetConfig(previousCfg)
		_ = sqlDB.Close()
	})
	return db, storage
}

// mockAuthMiddleware simulates a validated Auth0 token
func mockAuthMiddleware(auth0ID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", auth0ID)
		c.Set("validated_claims", &validator.ValidatedClaims{
			RegisteredClaims: validator.RegisteredClaims{Subject: auth0ID},
			CustomClaims:     &middleware.CustomClaims{Role: role},
		})
		c.Request.Header.Set("Authorization", "Bearer mock-token")
		c.Next()
	}
}

func seedAdmin(t *testing.T, db *gorm.DB, auth0ID string) models.Profile {
	t.Helper()
	profile := models.Profile{Auth0ID: auth0ID, FullName: "Store Admin", Email: auth0ID + "@example.com", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&profile).Error)
	return profile
}

func seedRebar(t *testing.T, db *gorm.DB, price int64, diameters ...int) models.Product {
	t.Helper()
	product := models.Product{Name: "Rebar B500B", Slug: "rebar-b500b", Category: models.CategoryRebar, Active: true}
	for _, d := range diameters {
		product.Variants = append(product.Variants, models.ProductVariant{
			DiameterMm: lo.ToPtr(d),
			UnitType:   "ton",
			PriceQR:    decimal.NewFromInt(price),
			Grade:      models.DefaultGrade,
			Active:     true,
		})
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func performJSON(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type formFile struct {
	field    string
	filename string
	content  []byte
}

func performMultipart(router http.Handler, path string, fields map[string]string, files ...formFile) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		_ = writer.WriteField(k, v)
	}
	for _, f := range files {
		part, _ := writer.CreateFormFile(f.field, f.filename)
		_, _ = part.Write(f.content)
	}
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	response := decodeResponse(t, w)
	errBody, ok := response["error"].(map[string]interface{})
	require.True(t, ok, w.Body.String())
	return errBody["code"].(string)
}
