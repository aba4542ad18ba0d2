package integration

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/gulfsteel/steelstore-api/models"
	"github.com/gulfsteel/steelstore-api/router"
	"github.com/gulfsteel/steelstore-api/services"
	"github.com/gulfsteel/steelstore-api/tests/testutil"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

const (
	adminID    = "auth0|admin"
	adminToken = "Bearer admin-token"
)

// apiSuite wires the full router over a fresh database for every test
type apiSuite struct {
	suite.Suite
	router  *gin.Engine
	db      *gorm.DB
	storage *services.MockStorage
}

func (s *apiSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (s *apiSuite) SetupTest() {
	s.db, s.storage = testutil.NewTestDB(s.T())
	s.router = router.Setup(testutil.TestConfig(), testutil.MockAuth(adminID, models.RoleAdmin))
	s.Require().NoError(s.db.Create(&models.Profile{
		Auth0ID:  adminID,
		FullName: "Store Admin",
		Email:    "admin@gulfsteel.qa",
		Role:     models.RoleAdmin,
	}).Error)
}

type request struct {
	method  string
	path    string
	body    any
	admin   bool
	session string
}

func (s *apiSuite) do(r request) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(r.method, r.path, reader)
	req.Header.Set("Content-Type", "application/json")
	if r.admin {
		req.Header.Set("Authorization", adminToken)
	}
	if r.session != "" {
		req.Header.Set("X-Session-ID", r.session)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

type upload struct {
	field    string
	filename string
	content  []byte
}

func (s *apiSuite) doMultipart(path string, admin bool, fields map[string]string, files ...upload) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		s.Require().NoError(writer.WriteField(k, v))
	}
	for _, f := range files {
		part, err := writer.CreateFormFile(f.field, f.filename)
		s.Require().NoError(err)
		_, err = part.Write(f.content)
		s.Require().NoError(err)
	}
	s.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if admin {
		req.Header.Set("Authorization", adminToken)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *apiSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

func (s *apiSuite) data(w *httptest.ResponseRecorder) map[string]interface{} {
	data, ok := s.decode(w)["data"].(map[string]interface{})
	s.Require().True(ok, w.Body.String())
	return data
}

func (s *apiSuite) errorCode(w *httptest.ResponseRecorder) string {
	errBody, ok := s.decode(w)["error"].(map[string]interface{})
	s.Require().True(ok, w.Body.String())
	return errBody["code"].(string)
}

func (s *apiSuite) mustJSON(v any) string {
	raw, err := json.Marshal(v)
	s.Require().NoError(err)
	return string(raw)
}
