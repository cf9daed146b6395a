package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mroshb/roommatch/internal/middleware"
	"github.com/mroshb/roommatch/internal/services"
	"github.com/mroshb/roommatch/pkg/errors"
)

type respondRequest struct {
	Decision string `json:"decision"`
	Response string `json:"response"`
}

func (m *HandlerManager) ListMatches(c *gin.Context) {
	matches, err := m.Matches.ListMatches(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

func (m *HandlerManager) GenerateMatches(c *gin.Context) {
	created, err := m.Matches.GenerateMatches(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	if created == nil {
		created = []services.GeneratedMatch{}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     fmt.Sprintf("Generated %d new matches", len(created)),
		"count":       len(created),
		"new_matches": created,
	})
}

func (m *HandlerManager) RespondToMatch(c *gin.Context) {
	matchID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || matchID == 0 {
		middleware.AbortWithError(c, errors.New(errors.ErrCodeNotFound, "Match not found"))
		return
	}

	var req respondRequest
	if !bindJSON(c, &req) {
		return
	}

	decision := req.Decision
	if decision == "" {
		decision = req.Response
	}

	match, err := m.Matches.Respond(c.Request.Context(), uint(matchID), middleware.UserID(c), decision)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": services.ResponseMessage(match.Status),
		"status":  match.Status,
	})
}
