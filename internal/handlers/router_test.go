package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mroshb/roommatch/internal/middleware"
	"github.com/mroshb/roommatch/internal/models"
	"github.com/mroshb/roommatch/internal/services"
	"github.com/mroshb/roommatch/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testToken = "token-for-user-1"

type stubAuth struct{}

func (stubAuth) Register(_ context.Context, in services.RegisterInput) (*services.AuthResult, error) {
	if in.Email == "taken@example.com" {
		return nil, errors.New(errors.ErrCodeAlreadyExists, "User already exists")
	}
	return &services.AuthResult{Token: testToken, User: &models.User{ID: 1, Email: in.Email, FirstName: in.FirstName}}, nil
}

func (stubAuth) Login(_ context.Context, email, password string) (*services.AuthResult, error) {
	if password != "right-password" {
		return nil, errors.New(errors.ErrCodeUnauthorized, "Invalid credentials")
	}
	return &services.AuthResult{Token: testToken, User: &models.User{ID: 1, Email: email}}, nil
}

func (stubAuth) Authenticate(token string) (uint, error) {
	if token == testToken {
		return 1, nil
	}
	return 0, errors.New(errors.ErrCodeUnauthorized, "invalid or expired token")
}

func (stubAuth) IssueTelegramLinkCode(_ context.Context, userID uint) (string, time.Time, error) {
	return "ABCD2345", time.Date(2024, 1, 1, 0, 10, 0, 0, time.UTC), nil
}

type stubProfiles struct {
	saved *services.ProfileInput
}

func (s *stubProfiles) GetProfile(_ context.Context, userID uint) (*models.User, *models.Profile, error) {
	user := &models.User{ID: userID, Email: "ana@example.com"}
	if s.saved == nil {
		return user, nil, nil
	}
	return user, &models.Profile{UserID: userID, Age: s.saved.Age}, nil
}

func (s *stubProfiles) SaveProfile(_ context.Context, userID uint, in services.ProfileInput) (*models.Profile, error) {
	s.saved = &in
	return &models.Profile{UserID: userID, Age: in.Age, IsComplete: in.Age > 0}, nil
}

type stubMatches struct {
	lastDecision string
}

func (s *stubMatches) GenerateMatches(_ context.Context, userID uint) ([]services.GeneratedMatch, error) {
	return []services.GeneratedMatch{{MatchID: 10, UserID: 2, CompatibilityScore: 0.9, MatchReason: "Same location preference"}}, nil
}

func (s *stubMatches) Respond(_ context.Context, matchID, userID uint, decision string) (*models.Match, error) {
	s.lastDecision = decision
	switch {
	case matchID != 10:
		return nil, errors.New(errors.ErrCodeNotFound, "match not found")
	case decision != models.DecisionAccept && decision != models.DecisionReject:
		return nil, errors.New(errors.ErrCodeValidation, "Invalid response")
	}
	status, _ := models.StatusForDecision(decision)
	return &models.Match{ID: matchID, Status: status}, nil
}

func (s *stubMatches) ListMatches(_ context.Context, userID uint) ([]services.MatchView, error) {
	return nil, stderrors.New("connection refused")
}

type stubWaitlist struct{}

func (stubWaitlist) Join(_ context.Context, email string) (string, error) {
	if email == "" {
		return "", errors.New(errors.ErrCodeValidation, "Email is required")
	}
	return email, nil
}

type denyAll struct{}

func (denyAll) Allow(context.Context, string) (bool, error) { return false, nil }

type allowAll struct{}

func (allowAll) Allow(context.Context, string) (bool, error) { return true, nil }

func newTestAPI(limiter middleware.Limiter, checks map[string]HealthCheck) (*gin.Engine, *stubProfiles, *stubMatches) {
	profiles := &stubProfiles{}
	matches := &stubMatches{}
	m := NewHandlerManager(stubAuth{}, profiles, matches, stubWaitlist{}, checks)
	return NewRouter(m, limiter, []string{"http://localhost:3000"}), profiles, matches
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &out)
	}
	return w, out
}

func TestHealth(t *testing.T) {
	r, _, _ := newTestAPI(allowAll{}, map[string]HealthCheck{
		"database": func(context.Context) error { return nil },
	})

	w, body := doJSON(t, r, http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, map[string]interface{}{"database": "up"}, body["checks"])

	r, _, _ = newTestAPI(allowAll{}, map[string]HealthCheck{
		"redis": func(context.Context) error { return stderrors.New("down") },
	})
	w, body = doJSON(t, r, http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "degraded", body["status"])
}

func TestRegisterAndLogin(t *testing.T) {
	r, _, _ := newTestAPI(allowAll{}, nil)

	w, body := doJSON(t, r, http.MethodPost, "/api/auth/register", map[string]string{
		"email": "ana@example.com", "password": "s3cret-pass", "first_name": "Ana", "last_name": "Diaz",
	}, "")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, testToken, body["access_token"])
	assert.Equal(t, "User created successfully", body["message"])

	w, body = doJSON(t, r, http.MethodPost, "/api/auth/register", map[string]string{"email": "taken@example.com"}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, errors.ErrCodeAlreadyExists, body["code"])

	w, _ = doJSON(t, r, http.MethodPost, "/api/auth/login", map[string]string{"email": "ana@example.com", "password": "right-password"}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, body = doJSON(t, r, http.MethodPost, "/api/auth/login", map[string]string{"email": "ana@example.com", "password": "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", body["error"])
}

func TestMalformedBody(t *testing.T) {
	r, _, _ := newTestAPI(allowAll{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), errors.ErrCodeValidation)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _, _ := newTestAPI(allowAll{}, nil)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/profile"},
		{http.MethodPost, "/api/profile"},
		{http.MethodGet, "/api/matches"},
		{http.MethodPost, "/api/matches/generate"},
		{http.MethodPost, "/api/matches/1/respond"},
		{http.MethodPost, "/api/telegram/link-code"},
	}

	for _, p := range paths {
		w, body := doJSON(t, r, p.method, p.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, p.path)
		assert.Equal(t, errors.ErrCodeUnauthorized, body["code"], p.path)
	}
}

func TestProfileRoutes(t *testing.T) {
	r, profiles, _ := newTestAPI(allowAll{}, nil)

	w, body := doJSON(t, r, http.MethodGet, "/api/profile", nil, testToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, body, "profile")

	w, body = doJSON(t, r, http.MethodPut, "/api/profile", map[string]interface{}{"age": 30, "cleanliness_level": 4}, testToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["is_complete"])
	require.NotNil(t, profiles.saved)
	assert.Equal(t, 4, profiles.saved.CleanlinessLevel)

	w, body = doJSON(t, r, http.MethodGet, "/api/profile", nil, testToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, body, "profile")
}

func TestGenerateMatches(t *testing.T) {
	r, _, _ := newTestAPI(allowAll{}, nil)

	w, body := doJSON(t, r, http.MethodPost, "/api/matches/generate", nil, testToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Generated 1 new matches", body["message"])
	assert.Equal(t, float64(1), body["count"])

	created := body["new_matches"].([]interface{})
	require.Len(t, created, 1)
	first := created[0].(map[string]interface{})
	assert.Equal(t, float64(2), first["user_id"])
	assert.Equal(t, 0.9, first["compatibility_score"])
}

func TestGenerateMatches_RateLimited(t *testing.T) {
	r, _, _ := newTestAPI(denyAll{}, nil)

	w, body := doJSON(t, r, http.MethodPost, "/api/matches/generate", nil, testToken)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, errors.ErrCodeRateLimitExceeded, body["code"])
}

func TestRespondToMatch(t *testing.T) {
	r, _, matches := newTestAPI(allowAll{}, nil)

	tests := []struct {
		name       string
		path       string
		body       map[string]string
		wantStatus int
		wantField  string
	}{
		{"Accept", "/api/matches/10/respond", map[string]string{"decision": "accept"}, http.StatusOK, "accepted"},
		{"Legacy field", "/api/matches/10/respond", map[string]string{"response": "reject"}, http.StatusOK, "rejected"},
		{"Invalid decision", "/api/matches/10/respond", map[string]string{"decision": "later"}, http.StatusBadRequest, ""},
		{"Unknown match", "/api/matches/11/respond", map[string]string{"decision": "accept"}, http.StatusNotFound, ""},
		{"Non numeric id", "/api/matches/abc/respond", map[string]string{"decision": "accept"}, http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := doJSON(t, r, http.MethodPost, tt.path, tt.body, testToken)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantField != "" {
				assert.Equal(t, tt.wantField, body["status"])
				assert.Equal(t, "Match "+tt.wantField+" successfully", body["message"])
			}
		})
	}

	assert.Equal(t, "accept", matches.lastDecision)
}

func TestInternalErrorsAreHidden(t *testing.T) {
	r, _, _ := newTestAPI(allowAll{}, nil)

	w, body := doJSON(t, r, http.MethodGet, "/api/matches", nil, testToken)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, errors.ErrCodeInternalError, body["code"])
	assert.Equal(t, "internal server error", body["error"])
}

func TestTelegramLinkCode(t *testing.T) {
	r, _, _ := newTestAPI(allowAll{}, nil)

	w, body := doJSON(t, r, http.MethodPost, "/api/telegram/link-code", nil, testToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ABCD2345", body["code"])
	assert.Equal(t, "2024-01-01T00:10:00Z", body["expires_at"])
}

func TestWaitlistAndNotFound(t *testing.T) {
	r, _, _ := newTestAPI(allowAll{}, nil)

	w, body := doJSON(t, r, http.MethodPost, "/api/waitlist", map[string]string{"email": "ana@example.com"}, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ana@example.com", body["email"])

	w, _ = doJSON(t, r, http.MethodPost, "/api/waitlist", map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = doJSON(t, r, http.MethodGet, "/api/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Endpoint not found", body["error"])
}
