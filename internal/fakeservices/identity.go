package fakeservices

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/infas01/Bookfair-Reservation-Management-System/internal/errors"
	"github.com/infas01/Bookfair-Reservation-Management-System/internal/utils"
	"github.com/infas01/Bookfair-Reservation-Management-System/token/jwt"
	"github.com/infas01/Bookfair-Reservation-Management-System/token/refresh"
	refreshrepofake "github.com/infas01/Bookfair-Reservation-Management-System/token/refresh/repofake"
	"github.com/infas01/Bookfair-Reservation-Management-System/users"
	fakeuserrepo "github.com/infas01/Bookfair-Reservation-Management-System/users/repofake"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// TokenStyle selects how login and refresh responses carry the access token.
type TokenStyle int

const (
	// TokenInMessage puts the token in "message" next to flat identity
	// fields, as the production identity service does.
	TokenInMessage TokenStyle = iota
	// TokenInAccessToken uses "accessToken" and a nested "user" object.
	TokenInAccessToken
)

const (
	DefaultIssuer             = "bookfair-iam"
	DefaultAccessTokenExpiry  = 15 * time.Minute
	DefaultRefreshTokenExpiry = 7 * 24 * time.Hour
)

// Identity emulates the identity service: authentication, account
// administration and the signed-in user's profile.
type Identity struct {
	users   users.UserRepo
	refresh *refresh.Manager
	creator *jwt.Creator
	logger  zerolog.Logger

	style         TokenStyle
	rotate        bool
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration

	mu     sync.Mutex
	nextID int64

	refreshCalls atomic.Int32
	logoutCalls  atomic.Int32
}

type IdentityOption func(*Identity)

func WithTokenStyle(style TokenStyle) IdentityOption {
	return func(s *Identity) {
		s.style = style
	}
}

// WithRefreshRotation makes refresh issue a new refresh token each time.
func WithRefreshRotation(rotate bool) IdentityOption {
	return func(s *Identity) {
		s.rotate = rotate
	}
}

func WithAccessTokenExpiry(d time.Duration) IdentityOption {
	return func(s *Identity) {
		s.accessExpiry = d
	}
}

func WithRefreshTokenExpiry(d time.Duration) IdentityOption {
	return func(s *Identity) {
		s.refreshExpiry = d
	}
}

func WithSigningSecret(secret []byte) IdentityOption {
	return func(s *Identity) {
		s.secret = secret
	}
}

func WithIdentityLogger(logger zerolog.Logger) IdentityOption {
	return func(s *Identity) {
		s.logger = logger
	}
}

func NewIdentity(opts ...IdentityOption) (*Identity, error) {
	s := &Identity{
		users:         fakeuserrepo.NewFakeUserRepo(),
		logger:        log.Logger,
		secret:        []byte("bookfair-fake-signing-secret"),
		accessExpiry:  DefaultAccessTokenExpiry,
		refreshExpiry: DefaultRefreshTokenExpiry,
	}
	for _, opt := range opts {
		opt(s)
	}
	creator, err := jwt.NewCreator(DefaultIssuer, s.secret, s.accessExpiry)
	if err != nil {
		return nil, fmt.Errorf("[NewIdentity] %w", err)
	}
	s.creator = creator
	s.refresh = refresh.NewManager(refreshrepofake.NewFakeRefreshTokenRepo(), s.refreshExpiry)
	s.logger = s.logger.With().Str("component", "fake-identity").Logger()
	return s, nil
}

// Verifier checks tokens this service issued; the other fakes share it.
func (s *Identity) Verifier() Verifier {
	return s.creator
}

// IssueAccessToken signs a token for an existing account. Tests use it to
// hand out tokens without a login round trip.
func (s *Identity) IssueAccessToken(email string) (string, error) {
	account, err := s.users.GetByEmail(email)
	if err != nil {
		return "", errors.Wrapf(err, "[Identity IssueAccessToken] %s", email)
	}
	return s.creator.CreateAccessToken(account.User)
}

func (s *Identity) RefreshCalls() int { return int(s.refreshCalls.Load()) }
func (s *Identity) LogoutCalls() int  { return int(s.logoutCalls.Load()) }

// AddAccount creates an account directly, bypassing registration rules.
func (s *Identity) AddAccount(reg users.Registration, role users.Role) (users.User, error) {
	if _, err := s.users.GetByEmail(reg.Email); err == nil {
		return users.User{}, fmt.Errorf("[Identity AddAccount] email %s already exists", reg.Email)
	}
	hash, err := users.HashPassword(reg.Password)
	if err != nil {
		return users.User{}, errors.Wrapf(err, "[Identity AddAccount] hashing password")
	}
	account := &users.Account{
		User: users.User{
			ID:           s.newID(),
			Name:         reg.Name,
			Email:        strings.TrimSpace(reg.Email),
			Role:         role,
			Phone:        reg.Phone,
			BusinessName: reg.BusinessName,
		},
		PasswordHash: hash,
	}
	if err := s.users.Upsert(account); err != nil {
		return users.User{}, errors.Wrapf(err, "[Identity AddAccount] storing account")
	}
	return account.User, nil
}

func (s *Identity) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return strconv.FormatInt(s.nextID, 10)
}

// Routes returns the service's HTTP surface.
func (s *Identity) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/register", s.handleRegister)
		r.Post("/refresh", s.handleRefresh)
		r.Post("/logout", s.handleLogout)
		r.With(requireBearer(s.creator), s.requireAdmin).Post("/admin/register-employee", s.handleRegisterEmployee)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(requireBearer(s.creator), s.requireAdmin)
		r.Get("/users", s.handleListUsers)
		r.Get("/users/{id}", s.handleGetUser)
		r.Put("/users/{id}/role", s.handleUpdateRole)
		r.Delete("/users/{id}", s.handleDeleteUser)
		r.Get("/stats", s.handleStats)
	})

	r.Route("/api/profile", func(r chi.Router) {
		r.Use(requireBearer(s.creator))
		r.Get("/", s.handleGetProfile)
		r.Put("/", s.handleUpdateProfile)
		r.Put("/change-password", s.handleChangePassword)
	})
	return r
}

// requireAdmin checks the stored account, not the token, so role changes
// apply immediately.
func (s *Identity) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, err := s.users.GetByEmail(claimsFrom(r.Context()).Email)
		if err != nil || account.Role != users.RoleAdmin {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "Forbidden", "message": "Access denied"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Identity) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeText(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	account, err := s.users.GetByEmail(req.Email)
	if err != nil || !account.CheckPassword(req.Password) {
		s.logger.Debug().Str("email", req.Email).Msg("Rejected login")
		writeText(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	refreshToken, err := s.refresh.Create(account.ID)
	if err != nil {
		s.logger.Err(err).Msg("Failed to create refresh token")
		writeText(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.writeSession(w, account.User, refreshToken)
}

func (s *Identity) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string  `json:"name"`
		Email        string  `json:"email"`
		Password     string  `json:"password"`
		PhoneNumber  *string `json:"phoneNumber"`
		BusinessName *string `json:"businessName"`
	}
	if err := decodeBody(r, &req); err != nil || req.Email == "" || req.Password == "" {
		writeText(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if req.BusinessName == nil {
		req.BusinessName = utils.Ptr(req.Name + "'s Business")
	}
	user, err := s.AddAccount(users.Registration{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.PhoneNumber,
		BusinessName: req.BusinessName,
		Password:     req.Password,
	}, users.RoleUser)
	if err != nil {
		writeText(w, http.StatusBadRequest, "Email already exists")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Registration successful",
		"userId":  numericID(user.ID),
		"email":   user.Email,
	})
}

func (s *Identity) handleRegisterEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string  `json:"name"`
		Email    string  `json:"email"`
		Phone    *string `json:"phone"`
		Password string  `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil || req.Email == "" || req.Password == "" {
		writeText(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	user, err := s.AddAccount(users.Registration{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	}, users.RoleEmployee)
	if err != nil {
		writeText(w, http.StatusBadRequest, "Email already exists")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Employee registered successfully",
		"userId":  numericID(user.ID),
		"email":   user.Email,
	})
}

func (s *Identity) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.refreshCalls.Add(1)

	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := decodeBody(r, &req); err != nil || req.RefreshToken == "" {
		writeText(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	stored, err := s.refresh.Validate(req.RefreshToken)
	if err != nil {
		if errors.Is(err, refresh.ErrExpired) {
			writeText(w, http.StatusUnauthorized, "Refresh token expired. Please login again")
			return
		}
		writeText(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	account, err := s.users.GetByID(stored.UserID)
	if err != nil {
		writeText(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	refreshToken := req.RefreshToken
	if s.rotate {
		if refreshToken, err = s.refresh.Rotate(req.RefreshToken); err != nil {
			writeText(w, http.StatusUnauthorized, "Invalid refresh token")
			return
		}
	}
	s.writeSession(w, account.User, refreshToken)
}

func (s *Identity) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.logoutCalls.Add(1)

	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid refresh token")
		return
	}
	if _, err := s.refresh.Validate(req.RefreshToken); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid refresh token")
		return
	}
	if err := s.refresh.Delete(req.RefreshToken); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid refresh token")
		return
	}
	writeText(w, http.StatusOK, "Logged out successfully")
}

func (s *Identity) writeSession(w http.ResponseWriter, user users.User, refreshToken string) {
	accessToken, err := s.creator.CreateAccessToken(user)
	if err != nil {
		s.logger.Err(err).Msg("Failed to sign access token")
		writeText(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if s.style == TokenInAccessToken {
		writeJSON(w, http.StatusOK, map[string]any{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
			"user":         userJSON(user),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":      accessToken,
		"userId":       numericID(user.ID),
		"email":        user.Email,
		"refreshToken": refreshToken,
		"role":         string(user.Role),
	})
}

func userJSON(u users.User) map[string]any {
	return map[string]any{
		"id":           numericID(u.ID),
		"name":         u.Name,
		"email":        u.Email,
		"role":         string(u.Role),
		"phone":        utils.Value(u.Phone),
		"businessName": utils.Value(u.BusinessName),
		"createdAt":    formatTime(u.CreatedAt),
		"updatedAt":    formatTime(u.UpdatedAt),
	}
}
