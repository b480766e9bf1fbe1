package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"invtrack/config"
	"invtrack/models"
	"invtrack/store"
	"invtrack/utils"
)

func setupAuth(t *testing.T) (http.Handler, models.User, string) {
	t.Helper()
	config.JWTKey = []byte("test-secret")
	config.JWTExpiration = time.Hour

	m := store.NewMemory()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Username:  "alice",
		Email:     "alice@example.com",
		Role:      models.RoleRegular,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, m.Users().Insert(context.Background(), user))

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Username, user.Role)
	require.NoError(t, err)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := r.Context().Value("userID").(string)
		role, _ := r.Context().Value("userRole").(string)
		w.Header().Set("X-User-ID", id)
		w.Header().Set("X-User-Role", role)
		w.WriteHeader(http.StatusOK)
	})
	return Auth(m.Users())(next), user, token
}

func TestAuthBearerToken(t *testing.T) {
	h, user, token := setupAuth(t)

	r := httptest.NewRequest("GET", "/api/assets", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user.ID.Hex(), w.Header().Get("X-User-ID"))
	assert.Equal(t, models.RoleRegular, w.Header().Get("X-User-Role"))
}

func TestAuthMissingOrMalformedHeader(t *testing.T) {
	h, _, token := setupAuth(t)

	for _, header := range []string{"", "Token " + token, "garbage"} {
		r := httptest.NewRequest("GET", "/api/assets", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}

func TestAuthRejectsBadToken(t *testing.T) {
	h, _, _ := setupAuth(t)

	r := httptest.NewRequest("GET", "/api/assets", nil)
	r.Header.Set("Authorization", "Bearer not.a.token")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsUnknownUser(t *testing.T) {
	h, _, _ := setupAuth(t)

	// Valid signature, but the account no longer exists.
	token, err := utils.GenerateJWT(primitive.NewObjectID().Hex(), "ghost", models.RoleRegular)
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/api/assets", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// WebSocket upgrade requests cannot carry an Authorization header, so the
// token travels as a query parameter and is validated the same way.
func TestAuthWebSocketUpgrade(t *testing.T) {
	h, user, token := setupAuth(t)

	r := httptest.NewRequest("GET", "/api/ws/events?token="+token, nil)
	r.Header.Set("Upgrade", "websocket")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user.ID.Hex(), w.Header().Get("X-User-ID"))

	// No token, no feed.
	r = httptest.NewRequest("GET", "/api/ws/events", nil)
	r.Header.Set("Upgrade", "websocket")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A garbage token does not pass either.
	r = httptest.NewRequest("GET", "/api/ws/events?token=not.a.token", nil)
	r.Header.Set("Upgrade", "websocket")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
