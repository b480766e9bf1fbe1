package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"invtrack/models"
	"invtrack/store"
	"invtrack/utils"
)

// Auth validates the bearer token and loads the acting user into the request
// context. WebSocket upgrade requests carry the token as a query parameter
// instead; browsers cannot attach an Authorization header to them.
func Auth(users store.Collection[models.User]) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenString string
			if r.Header.Get("Upgrade") == "websocket" {
				tokenString = r.URL.Query().Get("token")
				if tokenString == "" {
					utils.RespondWithError(w, http.StatusUnauthorized, "Missing token")
					return
				}
			} else {
				authHeader := r.Header.Get("Authorization")
				if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
					utils.RespondWithError(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
					return
				}
				tokenString = strings.TrimPrefix(authHeader, "Bearer ")
			}

			claims, err := utils.ValidateJWT(tokenString)
			if err != nil {
				utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			userID, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				utils.RespondWithError(w, http.StatusUnauthorized, "Invalid user ID in token")
				return
			}

			user, err := users.FindOne(r.Context(), store.Filter{"_id": userID})
			if errors.Is(err, store.ErrNotFound) {
				utils.RespondWithError(w, http.StatusUnauthorized, "User not found")
				return
			}
			if err != nil {
				utils.RespondWithError(w, http.StatusInternalServerError, "Authentication service unavailable")
				return
			}

			ctx := context.WithValue(r.Context(), "userID", user.ID.Hex())
			ctx = context.WithValue(ctx, "username", user.Username)
			ctx = context.WithValue(ctx, "userRole", user.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
