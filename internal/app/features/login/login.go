// internal/app/features/login/login.go
package login

import (
	"context"
	"errors"
	"net/http"
	"time"

	userstore "github.com/dalemusser/careerhub/internal/app/store/users"
	"github.com/dalemusser/careerhub/internal/app/system/auth"
	"github.com/dalemusser/careerhub/internal/app/system/httpjson"
	"github.com/dalemusser/careerhub/internal/app/system/normalize"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

const badCredentials = "Invalid email or password."

// authenticate checks credentials and writes the failure response itself.
// It returns nil when the caller should stop.
func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request, method string) *models.User {
	var in credentials
	if err := httpjson.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode credentials failed", err, "Invalid JSON body.")
		return nil
	}
	email := normalize.Email(in.Email)
	if email == "" || in.Password == "" {
		h.ErrLog.Invalid(w, "Email and password are required.")
		return nil
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if ok, msg := h.Limiter.Check(r, email); !ok {
		h.AuditLog.LoginFailedRateLimit(ctx, r, email, method)
		httpjson.Error(w, http.StatusTooManyRequests, "rate_limited", msg)
		return nil
	}

	u, err := userstore.New(h.DB).GetByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.AuditLog.LoginFailedUserNotFound(ctx, r, email)
		httpjson.Error(w, http.StatusUnauthorized, "invalid_credentials", badCredentials)
		return nil
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user for login failed", err, "A database error occurred.")
		return nil
	}

	if !auth.CheckPassword(u.PasswordHash, in.Password) {
		h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID, email)
		httpjson.Error(w, http.StatusUnauthorized, "invalid_credentials", badCredentials)
		return nil
	}
	if u.Status == models.StatusSuspended {
		h.AuditLog.LoginFailedUserDisabled(ctx, r, u.ID, email)
		httpjson.Error(w, http.StatusForbidden, "suspended", "This account has been suspended.")
		return nil
	}

	h.AuditLog.LoginSuccess(ctx, r, u.ID, method, email)
	return u
}

// HandleLogin starts a cookie session.
// POST /auth/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	u := h.authenticate(w, r, "session")
	if u == nil {
		return
	}
	su := sessionUser(u)
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.ErrLog.LogServerError(w, r, "session save failed", err, "Unable to sign in.")
		return
	}
	httpjson.OK(w, principalFrom(su))
}

type tokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	User      principal `json:"user"`
}

// HandleToken issues a bearer token for API clients.
// POST /auth/token
func (h *Handler) HandleToken(w http.ResponseWriter, r *http.Request) {
	tokens := h.SessionMgr.Tokens()
	if tokens == nil {
		httpjson.Error(w, http.StatusNotFound, "not_found", "Token sign-in is not enabled.")
		return
	}
	u := h.authenticate(w, r, "token")
	if u == nil {
		return
	}
	su := sessionUser(u)
	tok, exp, err := tokens.Issue(su)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "issue token failed", err, "Unable to sign in.")
		return
	}
	httpjson.OK(w, tokenResponse{Token: tok, TokenType: "Bearer", ExpiresAt: exp, User: principalFrom(su)})
}

// HandleLogout clears the session cookie. Bearer tokens simply expire.
// POST /auth/logout
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("session clear failed", zap.Error(err))
	}
	if u != nil {
		h.AuditLog.Logout(r.Context(), r, u.ID)
	}
	httpjson.NoContent(w)
}

// ServeMe returns the current principal.
// GET /auth/me
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized", "Please sign in to continue.")
		return
	}
	httpjson.OK(w, principalFrom(u))
}
