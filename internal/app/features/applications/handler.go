// internal/app/features/applications/handler.go
package applications

import (
	uierrors "github.com/dalemusser/careerhub/internal/app/features/errors"
	"github.com/dalemusser/careerhub/internal/app/store/repos"
	"github.com/dalemusser/careerhub/internal/app/system/auditlog"
	"github.com/dalemusser/careerhub/internal/app/system/eligibility"
	"github.com/dalemusser/careerhub/internal/app/system/events"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves course applications: submission by students and review by
// institutions and admins.
type Handler struct {
	DB       *mongo.Database
	Engine   *eligibility.Engine
	Events   events.Publisher
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
}

func NewHandler(db *mongo.Database, pub events.Publisher, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Handler{
		DB:       db,
		Engine:   repos.Engine(db, logger),
		Events:   pub,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
	}
}
