// internal/app/features/profile/uploads.go
package profile

import (
	"context"
	"net/http"

	"github.com/dalemusser/careerhub/internal/app/store/audit"
	userstore "github.com/dalemusser/careerhub/internal/app/store/users"
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/dalemusser/careerhub/internal/app/system/blobstore"
	"github.com/dalemusser/careerhub/internal/app/system/httpjson"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Upload fields.
const (
	FieldTranscript   = "transcript"
	FieldCertificates = "certificates"
)

type uploadResult struct {
	Field string `json:"field"`
	URL   string `json:"url"`
}

// HandleUpload stores a student document (multipart field "file") and
// stamps its URL on the profile. Certificates accumulate; a transcript
// replaces the previous one.
// POST /profile/uploads/{field}
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.ActorFrom(r)
	if !ok || !actor.IsStudent() {
		h.ErrLog.LogForbidden(w, r, "non-student upload", "Only students can upload documents.")
		return
	}
	field := chi.URLParam(r, "field")
	if field != FieldTranscript && field != FieldCertificates {
		h.ErrLog.NotFound(w, "Unknown upload field.")
		return
	}
	if h.Blobs == nil {
		httpjson.Error(w, http.StatusServiceUnavailable, "storage_unavailable", "File storage is not configured.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse upload failed", err, "Upload must be multipart form data under 10 MB.")
		return
	}
	file, hdr, err := r.FormFile("file")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "upload missing file", err, "A file is required.")
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	key := blobstore.UploadKey(actor.ID, field, hdr.Filename)
	url, err := h.Blobs.Put(ctx, key, file, hdr.Header.Get("Content-Type"))
	if err != nil {
		h.Log.Error("blob put failed", zap.String("key", key), zap.Error(err))
		httpjson.Error(w, http.StatusBadGateway, "remote_operation_failed", "Upload failed: "+err.Error())
		return
	}

	users := userstore.New(h.DB)
	if field == FieldTranscript {
		err = users.SetTranscriptURL(ctx, actor.ID, url)
	} else {
		err = users.AddCertificate(ctx, actor.ID, url)
	}
	if err != nil {
		h.ErrLog.Handle(w, r, "stamp upload on profile failed", err)
		return
	}

	h.AuditLog.Student(ctx, r, audit.EventDocumentUploaded, actor.ID.Hex(), map[string]string{"field": field, "key": key})
	httpjson.Created(w, uploadResult{Field: field, URL: url})
}
