package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/gulfsteel/steelstore-api/config"
	"github.com/gulfsteel/steelstore-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestCustomClaims_HasScope(t *testing.T) {
	tests := []struct {
		name          string
		scope         string
		expectedScope string
		want          bool
	}{
		{
			name:          "has exact scope",
			scope:         "read:orders",
			expectedScope: "read:orders",
			want:          true,
		},
		{
			name:          "has scope in multiple scopes",
			scope:         "read:orders write:orders delete:orders",
			expectedScope: "write:orders",
			want:          true,
		},
		{
			name:          "does not have scope",
			scope:         "read:orders",
			expectedScope: "write:orders",
			want:          false,
		},
		{
			name:          "empty scope",
			scope:         "",
			expectedScope: "read:orders",
			want:          false,
		},
		{
			name:          "partial match should not work",
			scope:         "read:orders",
			expectedScope: "read",
			want:          false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := CustomClaims{Scope: tt.scope}
			got := claims.HasScope(tt.expectedScope)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		setupFunc func(*gin.Context)
		wantID    string
		wantErr   bool
	}{
		{
			name: "successfully extracts user ID",
			setupFunc: func(c *gin.Context) {
				c.Set("user_id", "auth0|123456")
			},
			wantID:  "auth0|123456",
			wantErr: false,
		},
		{
			name: "user ID not found in context",
			setupFunc: func(c *gin.Context) {
				// Don't set user_id
			},
			wantID:  "",
			wantErr: true,
		},
		{
			name: "user ID is not a string",
			setupFunc: func(c *gin.Context) {
				c.Set("user_id", 12345) // Set as int instead of string
			},
			wantID:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tt.setupFunc(c)

			gotID, err := GetUserID(c)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, gotID)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, gotID)
			}
		})
	}
}

func TestGetClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		setupFunc func(*gin.Context)
		wantErr   bool
	}{
		{
			name: "successfully extracts claims",
			setupFunc: func(c *gin.Context) {
				claims := &validator.ValidatedClaims{
					RegisteredClaims: validator.RegisteredClaims{
						Issuer:  "https://test.auth0.com/",
						Subject: "auth0|123456",
					},
					CustomClaims: &CustomClaims{
						Scope: "read:orders",
					},
				}
				c.Set("validated_claims", claims)
			},
			wantErr: false,
		},
		{
			name: "claims not found in context",
			setupFunc: func(c *gin.Context) {
				// Don't set validated_claims
			},
			wantErr: true,
		},
		{
			name: "claims are not the expected type",
			setupFunc: func(c *gin.Context) {
				c.Set("validated_claims", "invalid")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tt.setupFunc(c)

			claims, err := GetClaims(c)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, claims)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, claims)
			}
		})
	}
}

func TestRequireScope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		requiredScope  string
		setupFunc      func(*gin.Context)
		wantStatusCode int
		wantAborted    bool
	}{
		{
			name:          "has required scope",
			requiredScope: "read:orders",
			setupFunc: func(c *gin.Context) {
				claims := &validator.ValidatedClaims{
					CustomClaims: &CustomClaims{
						Scope: "read:orders write:orders",
					},
				}
				c.Set("validated_claims", claims)
			},
			wantStatusCode: 0, // Should not write status, continues to next handler
			wantAborted:    false,
		},
		{
			name:          "missing required scope",
			requiredScope: "delete:orders",
			setupFunc: func(c *gin.Context) {
				claims := &validator.ValidatedClaims{
					CustomClaims: &CustomClaims{
						Scope: "read:orders write:orders",
					},
				}
				c.Set("validated_claims", claims)
			},
			wantStatusCode: http.StatusForbidden,
			wantAborted:    true,
		},
		{
			name:          "claims not in context",
			requiredScope: "read:orders",
			setupFunc: func(c *gin.Context) {
				// Don't set validated_claims
			},
			wantStatusCode: http.StatusUnauthorized,
			wantAborted:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

			tt.setupFunc(c)

			handler := RequireScope(tt.requiredScope)
			handler(c)

			if tt.wantAborted {
				assert.True(t, c.IsAborted())
				assert.Equal(t, tt.wantStatusCode, w.Code)
			} else {
				assert.False(t, c.IsAborted())
			}
		})
	}
}

func TestAuthError(t *testing.T) {
	err := &AuthError{
		Code:    "TEST_ERROR",
		Message: "This is a test error",
	}

	assert.Equal(t, "This is a test error", err.Error())
}

func TestGetAccessToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "bearer token", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "missing header", header: "", wantErr: true},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", wantErr: true},
		{name: "empty bearer", header: "Bearer  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				c.Request.Header.Set("Authorization", tt.header)
			}

			got, err := GetAccessToken(c)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	assert.Empty(t, GetRole(c))

	c.Set("validated_claims", &validator.ValidatedClaims{
		CustomClaims: &CustomClaims{Role: models.RoleAdmin},
	})
	assert.Equal(t, models.RoleAdmin, GetRole(c))
}

func setupAdminTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:middleware_admin?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))

	previous := config.GetDB()
	config.SetDB(db)
	t.Cleanup(func() {
		config.SetDB(previous)
		_ = sqlDB.Close()
	})
	return db
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupAdminTestDB(t)

	require.NoError(t, db.Create(&models.Profile{Auth0ID: "auth0|admin", FullName: "Admin", Email: "admin@example.com", Role: models.RoleAdmin}).Error)
	require.NoError(t, db.Create(&models.Profile{Auth0ID: "auth0|staff", FullName: "Staff", Email: "staff@example.com", Role: models.RoleStaff}).Error)

	tests := []struct {
		name       string
		userID     string
		wantStatus int
		wantNext   bool
	}{
		{name: "admin passes", userID: "auth0|admin", wantStatus: http.StatusOK, wantNext: true},
		{name: "staff is forbidden", userID: "auth0|staff", wantStatus: http.StatusForbidden},
		{name: "unknown profile is forbidden", userID: "auth0|nobody", wantStatus: http.StatusForbidden},
		{name: "no user id", userID: "", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(func(c *gin.Context) {
				if tt.userID != "" {
					c.Set("user_id", tt.userID)
				}
				c.Next()
			})
			router.Use(RequireAdmin())

			reached := false
			router.GET("/admin", func(c *gin.Context) {
				reached = true
				profile, err := GetProfile(c)
				require.NoError(t, err)
				assert.True(t, profile.IsAdmin())
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantNext, reached)
		})
	}
}
