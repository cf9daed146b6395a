package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mroshb/roommatch/internal/middleware"
)

type waitlistRequest struct {
	Email string `json:"email"`
}

func (m *HandlerManager) JoinWaitlist(c *gin.Context) {
	var req waitlistRequest
	if !bindJSON(c, &req) {
		return
	}

	email, err := m.Waitlist.Join(c.Request.Context(), req.Email)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully joined the waitlist! We'll notify you when Roommatch launches.",
		"email":   email,
	})
}

// Health reports the API status and the result of each dependency check
func (m *HandlerManager) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(m.Checks))
	for name, check := range m.Checks {
		if err := check(ctx); err != nil {
			checks[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "up"
	}

	body := gin.H{
		"status":  "healthy",
		"message": "Roommatch API is running",
		"checks":  checks,
	}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}

	c.JSON(status, body)
}
