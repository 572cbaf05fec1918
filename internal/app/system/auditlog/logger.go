// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/careerhub/internal/app/store/audit"
	"github.com/dalemusser/careerhub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for authentication events (signup, login, logout).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for staff actions (reviews, publishing, catalog, users).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Admin string
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

func oidPtr(hex string) *primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil
	}
	return &oid
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op so handlers under test can omit it.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = "all"
	}
	if setting == "" {
		setting = "all"
	}
	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}
	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func requestEvent(r *http.Request, category, eventType string) audit.Event {
	return audit.Event{
		Category:  category,
		EventType: eventType,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	}
}

// --- Authentication Events ---

// Signup logs a new account.
func (l *Logger) Signup(ctx context.Context, r *http.Request, userID primitive.ObjectID, role, email string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventSignup)
	e.UserID = &userID
	e.Details = map[string]string{"role": role, "email": email}
	l.Log(ctx, e)
}

// LoginSuccess logs a successful sign-in. method is "session" or "token".
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, method, email string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventLoginSuccess)
	e.UserID = &userID
	e.Details = map[string]string{"method": method, "email": email}
	l.Log(ctx, e)
}

// LoginFailedUserNotFound logs a sign-in for an unknown email.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, email string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventLoginFailedUserNotFound)
	e.Success = false
	e.FailureReason = "user not found"
	e.Details = map[string]string{"attempted_email": email}
	l.Log(ctx, e)
}

// LoginFailedWrongPassword logs a sign-in with a bad password.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventLoginFailedWrongPassword)
	e.UserID = &userID
	e.Success = false
	e.FailureReason = "wrong password"
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// LoginFailedUserDisabled logs a sign-in by a suspended user.
func (l *Logger) LoginFailedUserDisabled(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventLoginFailedUserDisabled)
	e.UserID = &userID
	e.Success = false
	e.FailureReason = "user suspended"
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// LoginFailedRateLimit logs a sign-in refused by the login limiter.
func (l *Logger) LoginFailedRateLimit(ctx context.Context, r *http.Request, email, limitType string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventLoginFailedRateLimit)
	e.Success = false
	e.FailureReason = "rate limit exceeded"
	e.Details = map[string]string{"email": email, "limit_type": limitType}
	l.Log(ctx, e)
}

// Logout logs a sign-out. userID is the session user's hex ID.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userID string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventLogout)
	e.UserID = oidPtr(userID)
	l.Log(ctx, e)
}

// --- Staff Events ---

// Admin logs a staff action. actorID is the acting user's hex ID; target
// is the affected user, when there is one.
func (l *Logger) Admin(ctx context.Context, r *http.Request, eventType, actorID string, target *primitive.ObjectID, details map[string]string) {
	e := requestEvent(r, audit.CategoryAdmin, eventType)
	e.ActorID = oidPtr(actorID)
	e.UserID = target
	e.Details = details
	l.Log(ctx, e)
}

// UserStatusChanged logs an admin approving, suspending, or reactivating a user.
func (l *Logger) UserStatusChanged(ctx context.Context, r *http.Request, actorID string, target primitive.ObjectID, from, to string) {
	l.Admin(ctx, r, audit.EventUserStatusChanged, actorID, &target, map[string]string{"from": from, "to": to})
}

// UserDeleted logs an admin deleting a user.
func (l *Logger) UserDeleted(ctx context.Context, r *http.Request, actorID string, target primitive.ObjectID, role, email string) {
	l.Admin(ctx, r, audit.EventUserDeleted, actorID, &target, map[string]string{"role": role, "email": email})
}

// ApplicationStatusChanged logs a review decision on a course application.
func (l *Logger) ApplicationStatusChanged(ctx context.Context, r *http.Request, actorID string, student, applicationID primitive.ObjectID, institution, to string) {
	l.Admin(ctx, r, audit.EventApplicationStatusChanged, actorID, &student, map[string]string{
		"application_id": applicationID.Hex(),
		"institution":    institution,
		"to":             to,
	})
}

// --- Student Events ---

// Student logs an action a student took on their own behalf.
func (l *Logger) Student(ctx context.Context, r *http.Request, eventType, studentID string, details map[string]string) {
	e := requestEvent(r, audit.CategoryApplication, eventType)
	e.UserID = oidPtr(studentID)
	e.Details = details
	l.Log(ctx, e)
}
