// internal/app/features/profile/handler.go
package profile

import (
	uierrors "github.com/dalemusser/careerhub/internal/app/features/errors"
	"github.com/dalemusser/careerhub/internal/app/system/auditlog"
	"github.com/dalemusser/careerhub/internal/app/system/blobstore"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MaxUploadBytes caps a single document upload.
const MaxUploadBytes = 10 << 20

// Handler owns the signed-in user's profile endpoints.
type Handler struct {
	DB       *mongo.Database
	Blobs    blobstore.Store
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
}

// NewHandler constructs a Handler bound to the given Mongo database, blob
// store and logger.
func NewHandler(db *mongo.Database, blobs blobstore.Store, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Blobs:    blobs,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
	}
}
