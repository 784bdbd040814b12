// internal/middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Artistsreach/storegen-sub000/internal/utils"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("middleware-test-secret")

	r := gin.New()
	r.GET("/private", AuthRequired(), func(c *gin.Context) {
		userID, _ := utils.GetUserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	r.GET("/admin", AuthRequired(), AdminRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/public", OptionalAuth(), func(c *gin.Context) {
		userID, authed := utils.GetUserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "authenticated": authed})
	})
	return r
}

func bearerToken(t *testing.T, role string) string {
	t.Helper()
	token, err := utils.GenerateJWT(uuid.New(), "someone", role, 1)
	require.NoError(t, err)
	return "Bearer " + token
}

func doRequest(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, req)
	return recorder
}

func TestAuthRequired(t *testing.T) {
	r := testRouter()

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "/private", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "/private", "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "/private", "Bearer not-a-token").Code)
	assert.Equal(t, http.StatusOK, doRequest(r, "/private", bearerToken(t, "store_owner")).Code)
}

func TestAdminRequired(t *testing.T) {
	r := testRouter()

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "/admin", "").Code)
	assert.Equal(t, http.StatusForbidden, doRequest(r, "/admin", bearerToken(t, "store_owner")).Code)
	assert.Equal(t, http.StatusOK, doRequest(r, "/admin", bearerToken(t, "admin")).Code)
}

func TestOptionalAuth(t *testing.T) {
	r := testRouter()

	anonymous := doRequest(r, "/public", "")
	assert.Equal(t, http.StatusOK, anonymous.Code)
	assert.Contains(t, anonymous.Body.String(), `"authenticated":false`)

	// A bad token degrades to anonymous instead of rejecting the request.
	garbage := doRequest(r, "/public", "Bearer garbage")
	assert.Equal(t, http.StatusOK, garbage.Code)
	assert.Contains(t, garbage.Body.String(), `"authenticated":false`)

	authed := doRequest(r, "/public", bearerToken(t, "store_owner"))
	assert.Equal(t, http.StatusOK, authed.Code)
	assert.Contains(t, authed.Body.String(), `"authenticated":true`)
}
