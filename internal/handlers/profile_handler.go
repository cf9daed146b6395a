package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mroshb/roommatch/internal/middleware"
	"github.com/mroshb/roommatch/internal/services"
)

type profileResponse struct {
	User    services.UserView     `json:"user"`
	Profile *services.ProfileView `json:"profile,omitempty"`
}

func (m *HandlerManager) GetProfile(c *gin.Context) {
	user, profile, err := m.Profiles.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	resp := profileResponse{User: services.NewUserView(user)}
	if profile != nil {
		view := services.NewProfileView(profile)
		resp.Profile = &view
	}

	c.JSON(http.StatusOK, resp)
}

func (m *HandlerManager) SaveProfile(c *gin.Context) {
	var input services.ProfileInput
	if !bindJSON(c, &input) {
		return
	}

	profile, err := m.Profiles.SaveProfile(c.Request.Context(), middleware.UserID(c), input)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Profile updated successfully",
		"is_complete": profile.IsComplete,
	})
}
