package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gulfsteel/steelstore-api/config"
	"github.com/gulfsteel/steelstore-api/logger"
	"github.com/gulfsteel/steelstore-api/models"
	"gorm.io/gorm"
)

// Auth0UserInfo represents the user information returned from Auth0's /userinfo endpoint
type Auth0UserInfo struct {
	Sub   string `json:"sub"` // Auth0 user ID
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UserInfoFetcher resolves an access token to the Auth0 user behind it
type UserInfoFetcher interface {
	GetUserInfo(ctx context.Context, accessToken string) (*Auth0UserInfo, error)
}

// Auth0Service handles interactions with Auth0 API
type Auth0Service struct {
	domain     string
	httpClient *http.Client
}

// NewAuth0Service creates a new Auth0 service instance
func NewAuth0Service(cfg *config.Config) *Auth0Service {
	return &Auth0Service{
		domain: cfg.Auth0Domain,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetUserInfo fetches user information from Auth0's /userinfo endpoint
func (s *Auth0Service) GetUserInfo(ctx context.Context, accessToken string) (*Auth0UserInfo, error) {
	// A domain with a scheme is used as-is (tests point it at httptest)
	url := "https://" + s.domain + "/userinfo"
	if strings.HasPrefix(s.domain, "http://") || strings.HasPrefix(s.domain, "https://") {
		url = s.domain + "/userinfo"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Add("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call userinfo endpoint: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warn(ctx, "failed to close userinfo response", logger.ErrorF(closeErr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("userinfo endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var userInfo Auth0UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo response: %w", err)
	}

	return &userInfo, nil
}

// FindProfile looks up the back-office profile of an Auth0 user
func FindProfile(ctx context.Context, db *gorm.DB, auth0ID string) (*models.Profile, error) {
	var profile models.Profile
	if err := db.WithContext(ctx).Where("auth0_id = ?", auth0ID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: profile %s", ErrNotFound, auth0ID)
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

// CreateProfileFromAuth0 creates a profile from the caller's Auth0 user info.
// Role falls back to staff; admins are granted in the database or by token claim.
func CreateProfileFromAuth0(ctx context.Context, db *gorm.DB, fetcher UserInfoFetcher, auth0ID, accessToken, role string) (*models.Profile, error) {
	userInfo, err := fetcher.GetUserInfo(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuth0, err)
	}
	if userInfo.Email == "" {
		return nil, fmt.Errorf("%w: email not provided by Auth0", ErrValidation)
	}
	if userInfo.Name == "" {
		return nil, fmt.Errorf("%w: name not provided by Auth0", ErrValidation)
	}
	if role != models.RoleAdmin {
		role = models.RoleStaff
	}

	profile := &models.Profile{
		Auth0ID:  auth0ID,
		FullName: userInfo.Name,
		Email:    userInfo.Email,
		Role:     role,
	}
	if err := db.WithContext(ctx).Create(profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: a profile with this Auth0 ID or email already exists", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return profile, nil
}
