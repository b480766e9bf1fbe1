package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"invtrack/models"
	"invtrack/rules"
	"invtrack/store"
	"invtrack/utils"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// dummyHash is compared against when the login email is unknown, so both
// branches cost one bcrypt verification.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// Register creates a regular account. The role cannot be chosen here;
// privileged accounts are created by an admin through user management.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if !validUsername(req.Username) {
		utils.RespondWithError(w, http.StatusBadRequest, "username must be 2-20 characters")
		return
	}
	if !validEmail(req.Email) {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid email address")
		return
	}
	if !validPassword(req.Password) {
		utils.RespondWithError(w, http.StatusBadRequest, "password must be at least 6 characters and contain a digit")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if respondRuleError(w, rules.Unique(ctx, h.Store.Users(), "user", "username", req.Username, primitive.NilObjectID)) {
		return
	}
	if respondRuleError(w, rules.Unique(ctx, h.Store.Users(), "user", "email", req.Email, primitive.NilObjectID)) {
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("password hash failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	user := models.User{
		ID:           primitive.NewObjectID(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleRegular,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.Store.Users().Insert(ctx, user); err != nil {
		respondWriteError(w, err, "user")
		return
	}

	h.audit(ctx, user.ID, "user_register", "user", user.ID, map[string]any{"username": user.Username})

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Username, user.Role)
	if err != nil {
		log.Printf("token generation failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to register")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, err := h.Store.Users().FindOne(ctx, store.Filter{"email": req.Email})
	if err != nil {
		// Burn a hash comparison anyway so the response time does not
		// reveal whether the email exists.
		utils.CheckPasswordHash(req.Password, dummyHash)
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Username, user.Role)
	if err != nil {
		log.Printf("token generation failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	log.Printf("user %s logged in", user.Username)
	utils.RespondWithJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

// Logout is a no-op on the server; tokens simply expire. The endpoint exists
// so clients have a uniform place to end a session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// CurrentUser returns the account behind the presented token.
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	id, _, ok := requireAuth(w, r)
	if !ok {
		return
	}

	user, err := h.Store.Users().FindOne(r.Context(), store.Filter{"_id": id})
	if err != nil {
		respondWriteError(w, err, "user")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}
