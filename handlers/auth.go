package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kevinaaaquil/library/backend/middleware"
	"github.com/kevinaaaquil/library/backend/models"
	"github.com/kevinaaaquil/library/backend/store"
)

type AuthHandler struct {
	Users     *store.UserStore
	JWTSecret string
	// Seeded as an admin profile on first login when no user has this email.
	AdminEmail    string
	AdminPassword string
}

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	DisplayName string `json:"displayName" validate:"max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	email := normalizeEmail(req.Email)
	existing, err := h.Users.UserByEmail(r.Context(), email)
	if err != nil {
		serverError(w, r, "register", err)
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "email already registered")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		serverError(w, r, "register", err)
		return
	}
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	user, err := h.Users.CreateUser(r.Context(), models.NewUser{
		Email:        email,
		DisplayName:  name,
		Role:         models.RoleUser,
		PasswordHash: string(hash),
	})
	if err != nil {
		serverError(w, r, "register", err)
		return
	}
	h.respondWithToken(w, r, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	email := normalizeEmail(req.Email)
	user, err := h.Users.UserByEmail(r.Context(), email)
	if err != nil {
		serverError(w, r, "login", err)
		return
	}
	if user == nil {
		if !h.isSeedAdmin(email, req.Password) {
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		user, err = h.seedAdmin(r)
		if err != nil {
			serverError(w, r, "login", err)
			return
		}
	} else if user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	h.respondWithToken(w, r, http.StatusOK, user)
}

// Me returns the caller's profile, creating it on first sign-in.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	user, err := h.Users.EnsureUser(r.Context(), id)
	if err != nil {
		serverError(w, r, "load profile", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateMe edits the caller's display name, bio and photo URL. A profile is
// created first for callers who have never loaded /api/me.
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var upd models.ProfileUpdate
	if !decodeJSON(w, r, &upd) {
		return
	}
	if upd.DisplayName != nil {
		name := strings.TrimSpace(*upd.DisplayName)
		if name == "" {
			writeError(w, http.StatusBadRequest, "displayName cannot be empty")
			return
		}
		upd.DisplayName = &name
	}
	if _, err := h.Users.EnsureUser(r.Context(), id); err != nil {
		serverError(w, r, "load profile", err)
		return
	}
	if err := h.Users.UpdateProfile(r.Context(), id.UID, upd); err != nil {
		serverError(w, r, "update profile", err)
		return
	}
	user, err := h.Users.GetUser(r.Context(), id.UID)
	if err != nil {
		serverError(w, r, "load profile", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) isSeedAdmin(email, password string) bool {
	return h.AdminEmail != "" && h.AdminPassword != "" &&
		email == normalizeEmail(h.AdminEmail) && password == h.AdminPassword
}

func (h *AuthHandler) seedAdmin(r *http.Request) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(h.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user, err := h.Users.CreateUser(r.Context(), models.NewUser{
		Email:        normalizeEmail(h.AdminEmail),
		DisplayName:  "Administrator",
		Role:         models.RoleAdmin,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}
	slog.Info("seeded admin user", "uid", user.UID)
	return user, nil
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, status int, user *models.User) {
	token, err := middleware.NewToken(h.JWTSecret, models.Identity{
		UID:         user.UID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}, time.Now())
	if err != nil {
		serverError(w, r, "create token", err)
		return
	}
	writeJSON(w, status, LoginResponse{Token: token, User: user})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
