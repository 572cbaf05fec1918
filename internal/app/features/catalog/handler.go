// internal/app/features/catalog/handler.go
package catalog

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/careerhub/internal/app/features/errors"
	userstore "github.com/dalemusser/careerhub/internal/app/store/users"
	"github.com/dalemusser/careerhub/internal/app/system/auditlog"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the faculty and course catalog of every institution.
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

// institutionFilter parses the optional institution_id query parameter.
// ok=false means the value was present but malformed.
func institutionFilter(r *http.Request) (*primitive.ObjectID, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("institution_id"))
	if raw == "" {
		return nil, true
	}
	oid, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, false
	}
	return &oid, true
}

// parseOptionalID turns a possibly empty hex string into an ObjectID.
func parseOptionalID(raw string) (primitive.ObjectID, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return primitive.NilObjectID, true
	}
	oid, err := primitive.ObjectIDFromHex(raw)
	return oid, err == nil
}

func (h *Handler) loadInstitution(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return userstore.New(h.DB).GetByIDAndRole(ctx, id, models.RoleInstitution)
}
