// internal/app/features/institutions/handler.go
package institutions

import (
	uierrors "github.com/dalemusser/careerhub/internal/app/features/errors"
	"github.com/dalemusser/careerhub/internal/app/system/auditlog"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the institution directory and its admin management.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
	}
}

// institutionView is the public shape of an institution account.
type institutionView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	About    string `json:"about,omitempty"`
	Location string `json:"location,omitempty"`
	Status   string `json:"status"`
}

func toView(u models.User) institutionView {
	return institutionView{
		ID:       u.ID.Hex(),
		Name:     u.Name,
		Email:    u.Email,
		About:    u.About,
		Location: u.Location,
		Status:   u.Status,
	}
}
