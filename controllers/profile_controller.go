package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gulfsteel/steelstore-api/config"
	"github.com/gulfsteel/steelstore-api/middleware"
	"github.com/gulfsteel/steelstore-api/services"
)

// newUserInfoFetcher is swapped in tests so no request reaches Auth0
var newUserInfoFetcher = func(cfg *config.Config) services.UserInfoFetcher {
	return services.NewAuth0Service(cfg)
}

// CreateProfile handles POST /api/v1/admin/profile - creates the caller's
// back-office profile from Auth0 userinfo
func CreateProfile(c *gin.Context) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user ID from token")
		return
	}

	accessToken, err := middleware.GetAccessToken(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "MISSING_TOKEN", "Access token not found")
		return
	}

	cfg := config.GetConfig()
	if cfg == nil {
		cfg = &config.Config{}
	}

	profile, err := services.CreateProfileFromAuth0(
		c.Request.Context(),
		config.GetDB(),
		newUserInfoFetcher(cfg),
		auth0ID,
		accessToken,
		middleware.GetRole(c),
	)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrConflict):
			respondError(c, http.StatusConflict, "PROFILE_EXISTS", "A profile with this Auth0 ID or email already exists")
		case errors.Is(err, services.ErrValidation):
			respondError(c, http.StatusBadRequest, "INCOMPLETE_PROFILE", "Auth0 did not provide a name and email", err.Error())
		case errors.Is(err, services.ErrAuth0):
			respondError(c, http.StatusBadGateway, "AUTH0_ERROR", "Failed to fetch user information from Auth0")
		default:
			respondServiceError(c, err, "Failed to create profile")
		}
		return
	}

	respondOK(c, http.StatusCreated, profile)
}

// GetMyProfile handles GET /api/v1/admin/profile
func GetMyProfile(c *gin.Context) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	profile, err := services.FindProfile(c.Request.Context(), config.GetDB(), auth0ID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(c, http.StatusNotFound, "PROFILE_NOT_FOUND", "Profile not found. Please create a profile first.")
			return
		}
		respondServiceError(c, err, "Failed to load profile")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"profile":  profile,
		"is_admin": profile.IsAdmin(),
	})
}
