// internal/app/features/errors/errors.go
package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/careerhub/internal/app/system/eligibility"
	"github.com/dalemusser/careerhub/internal/app/system/httpjson"
	"github.com/go-chi/chi/v5/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ErrorLogger writes JSON error responses and logs them with request context.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{Log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	fs := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if id := middleware.GetReqID(r.Context()); id != "" {
		fs = append(fs, zap.String("request_id", id))
	}
	if err != nil {
		fs = append(fs, zap.Error(err))
	}
	return fs
}

// LogServerError logs err at error level and responds 500 with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.Log.Error(logMsg, e.fields(r, err)...)
	httpjson.Error(w, http.StatusInternalServerError, "internal", userMsg)
}

// LogBadRequest logs at debug level and responds 400 with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.Log.Debug(logMsg, e.fields(r, err)...)
	httpjson.Error(w, http.StatusBadRequest, "bad_request", userMsg)
}

// LogForbidden logs at info level and responds 403 with userMsg.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, logMsg string, userMsg string) {
	e.Log.Info(logMsg, e.fields(r, nil)...)
	httpjson.Error(w, http.StatusForbidden, "forbidden", userMsg)
}

// NotFound responds 404 with userMsg.
func (e *ErrorLogger) NotFound(w http.ResponseWriter, userMsg string) {
	httpjson.Error(w, http.StatusNotFound, "not_found", userMsg)
}

// Invalid responds 422 with a validation message.
func (e *ErrorLogger) Invalid(w http.ResponseWriter, userMsg string) {
	httpjson.Error(w, http.StatusUnprocessableEntity, "invalid_input", userMsg)
}

// Handle maps an engine or store error to a response:
//   - engine rejections -> 422 with their stable code
//   - not found -> 404
//   - remote failures -> 502 with the underlying message
//   - anything else -> 500
func (e *ErrorLogger) Handle(w http.ResponseWriter, r *http.Request, logMsg string, err error) {
	var re *eligibility.RemoteOperationError
	switch {
	case stderrors.Is(err, mongo.ErrNoDocuments) || stderrors.Is(err, eligibility.ErrNotFound):
		e.NotFound(w, "Not found.")
	case stderrors.Is(err, eligibility.ErrAdmissionNotFound):
		httpjson.Error(w, http.StatusNotFound, eligibility.Code(err), err.Error())
	case stderrors.As(err, &re):
		e.Log.Error(logMsg, e.fields(r, err)...)
		httpjson.Error(w, http.StatusBadGateway, eligibility.Code(err), err.Error())
	case eligibility.Code(err) != "":
		e.Log.Debug(logMsg, e.fields(r, err)...)
		httpjson.Error(w, http.StatusUnprocessableEntity, eligibility.Code(err), err.Error())
	default:
		e.LogServerError(w, r, logMsg, err, "A database error occurred.")
	}
}
