package handlers

import (
	"context"
	"log"
	"net/http"
	"net/mail"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"invtrack/models"
	"invtrack/pagination"
	"invtrack/rules"
	"invtrack/store"
	"invtrack/utils"
)

// User management is admin-only. Self-registration lives in the auth handler.

var userList = pagination.Config{
	Columns: map[string]pagination.Column{
		"username": {Field: "username", Text: true},
		"email":    {Field: "email", Text: true},
		"role":     {Field: "role", Text: true},
	},
	DefaultSortBy:    "username",
	DefaultDirection: pagination.Asc,
}

type userRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func validUsername(username string) bool {
	n := utf8.RuneCountInString(username)
	return n >= 2 && n <= 20
}

func validEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

// validPassword requires at least 6 characters with at least one digit.
func validPassword(password string) bool {
	if len(password) < 6 {
		return false
	}
	for _, r := range password {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func validRole(role string) bool {
	return role == models.RoleAdmin || role == models.RoleRegular
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	res, err := pagination.List(r.Context(), h.Store.Users(), nil, userList, pagination.ParseRequest(r.URL.Query()))
	if err != nil {
		log.Printf("list users failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	respondList(w, res)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.Store.Users().FindOne(r.Context(), store.Filter{"_id": id})
	if err != nil {
		respondWriteError(w, err, "user")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	adminID, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	var req userRequest
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
	if req.Role == "" {
		req.Role = models.RoleRegular
	}
	if !validRole(req.Role) {
		utils.RespondWithError(w, http.StatusBadRequest, "role must be admin or regular")
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
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to save user")
		return
	}

	user := models.User{
		ID:           primitive.NewObjectID(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.Store.Users().Insert(ctx, user); err != nil {
		respondWriteError(w, err, "user")
		return
	}

	h.audit(ctx, adminID, "user_create", "user", user.ID, map[string]any{
		"username": user.Username,
		"role":     user.Role,
	})
	utils.RespondWithJSON(w, http.StatusCreated, user)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	adminID, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, err := h.Store.Users().FindOne(ctx, store.Filter{"_id": id})
	if err != nil {
		respondWriteError(w, err, "user")
		return
	}

	var req userRequest
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
	if req.Role == "" {
		req.Role = user.Role
	}
	if !validRole(req.Role) {
		utils.RespondWithError(w, http.StatusBadRequest, "role must be admin or regular")
		return
	}

	if respondRuleError(w, rules.Unique(ctx, h.Store.Users(), "user", "username", req.Username, id)) {
		return
	}
	if respondRuleError(w, rules.Unique(ctx, h.Store.Users(), "user", "email", req.Email, id)) {
		return
	}

	fields := store.Fields{
		"username": req.Username,
		"email":    req.Email,
	}

	// An admin demoting their own account would strip the session's
	// privileges mid-flight. The role change alone is dropped; every other
	// field still goes through.
	warning := ""
	if err := rules.NotSelf(adminID, id, user.Role == models.RoleAdmin && req.Role != models.RoleAdmin, "you cannot change your own role from admin"); err != nil {
		warning = err.Error()
	} else {
		fields["role"] = req.Role
		user.Role = req.Role
	}

	if req.Password != "" {
		if !validPassword(req.Password) {
			utils.RespondWithError(w, http.StatusBadRequest, "password must be at least 6 characters and contain a digit")
			return
		}
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			log.Printf("password hash failed: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "failed to save user")
			return
		}
		fields["passwordHash"] = hash
	}

	if err := h.Store.Users().UpdateByID(ctx, id, fields); err != nil {
		respondWriteError(w, err, "user")
		return
	}
	user.Username = req.Username
	user.Email = req.Email

	h.audit(ctx, adminID, "user_update", "user", id, map[string]any{
		"username": req.Username,
		"role":     user.Role,
	})

	payload := map[string]any{"user": user}
	if warning != "" {
		payload["warning"] = warning
	}
	utils.RespondWithJSON(w, http.StatusOK, payload)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	adminID, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	// Deleting your own account is never allowed.
	if respondRuleError(w, rules.NotSelf(adminID, id, true, "you cannot delete your own account")) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, err := h.Store.Users().FindOne(ctx, store.Filter{"_id": id})
	if err != nil {
		respondWriteError(w, err, "user")
		return
	}

	// A user still holding assignments cannot be removed.
	if respondRuleError(w, rules.NoDependents(ctx, h.Store.Assignments(), "user", user.Username, "assignments", "userId", id)) {
		return
	}

	if err := h.Store.Users().DeleteByID(ctx, id); err != nil {
		respondWriteError(w, err, "user")
		return
	}

	h.audit(ctx, adminID, "user_delete", "user", id, map[string]any{"username": user.Username})
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "user deleted successfully"})
}
