package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mroshb/roommatch/internal/middleware"
	"github.com/mroshb/roommatch/internal/services"
	"github.com/mroshb/roommatch/pkg/errors"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Message     string            `json:"message"`
	AccessToken string            `json:"access_token"`
	User        services.UserView `json:"user"`
}

// bindJSON decodes the request body and writes a validation error on failure
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		middleware.AbortWithError(c, errors.Wrap(err, errors.ErrCodeValidation, "invalid request body"))
		return false
	}
	return true
}

func (m *HandlerManager) Register(c *gin.Context) {
	var req services.RegisterInput
	if !bindJSON(c, &req) {
		return
	}

	res, err := m.Auth.Register(c.Request.Context(), req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, authResponse{
		Message:     "User created successfully",
		AccessToken: res.Token,
		User:        services.NewUserView(res.User),
	})
}

func (m *HandlerManager) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := m.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, authResponse{
		Message:     "Login successful",
		AccessToken: res.Token,
		User:        services.NewUserView(res.User),
	})
}

// TelegramLinkCode issues a code the caller sends to the bot with /link
func (m *HandlerManager) TelegramLinkCode(c *gin.Context) {
	code, expiresAt, err := m.Auth.IssueTelegramLinkCode(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":       code,
		"expires_at": expiresAt,
	})
}
