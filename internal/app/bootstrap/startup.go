// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	userstore "github.com/dalemusser/careerhub/internal/app/store/users"
	"github.com/dalemusser/careerhub/internal/app/system/auth"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time initialization after the schema is in place and
// before the HTTP handler is built: it applies the configured timeouts
// and makes sure the admin account exists.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})
	t := timeouts.Current()
	logger.Info("timeouts configured",
		zap.Duration("ping", t.Ping),
		zap.Duration("short", t.Short),
		zap.Duration("medium", t.Medium),
		zap.Duration("long", t.Long))

	if appCfg.AdminEmail == "" {
		logger.Info("admin_email not set; skipping admin bootstrap")
		return nil
	}
	return ensureAdmin(ctx, deps.MongoDatabase, appCfg.AdminEmail, appCfg.AdminPassword, logger)
}

// ensureAdmin promotes the user with email to an active admin, creating
// the account when it does not exist. Creating requires a password.
func ensureAdmin(ctx context.Context, db *mongo.Database, email, password string, logger *zap.Logger) error {
	users := userstore.New(db)

	u, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if u.Role == models.RoleAdmin && u.Status == models.StatusActive {
			logger.Debug("admin account present", zap.String("email", u.Email))
			return nil
		}
		if err := users.PromoteToAdmin(ctx, u.ID); err != nil {
			return fmt.Errorf("promote admin: %w", err)
		}
		logger.Info("promoted existing user to admin", zap.String("email", u.Email), zap.String("previous_role", u.Role))
		return nil
	case !errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("load admin: %w", err)
	}

	if password == "" {
		logger.Warn("admin account missing and admin_password not set; not creating it", zap.String("email", email))
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	created, err := users.Create(ctx, models.User{
		Email:        email,
		Name:         "Administrator",
		Role:         models.RoleAdmin,
		PasswordHash: hash,
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	logger.Info("created admin account", zap.String("email", created.Email))
	return nil
}
