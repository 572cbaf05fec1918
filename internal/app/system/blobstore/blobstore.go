// Package blobstore stores student documents (transcripts, certificates)
// on local disk or in S3 and returns the URL to stamp on the profile.
package blobstore

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store persists a blob under key and returns its public URL.
type Store interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// UploadKey builds the object key for a student document:
// students/{studentID}/{field}-{8 hex}-{filename}.
func UploadKey(studentID primitive.ObjectID, field, filename string) string {
	return path.Join(
		"students",
		studentID.Hex(),
		fmt.Sprintf("%s-%s-%s", field, uuid.New().String()[:8], SanitizeFilename(filename)),
	)
}

// SanitizeFilename drops directory components and replaces anything other
// than letters, digits, dot, dash and underscore with '_'. Results are at
// most 100 bytes, keeping a short extension when truncating.
func SanitizeFilename(filename string) string {
	filename = filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if filename == "." || filename == "/" {
		return "file"
	}

	b := make([]byte, 0, len(filename))
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '.', c == '-', c == '_':
			b = append(b, c)
		default:
			b = append(b, '_')
		}
	}
	if len(b) == 0 {
		return "file"
	}
	if len(b) > 100 {
		ext := filepath.Ext(string(b))
		if n := len(ext); n > 0 && n < 10 {
			b = append(b[:100-n], ext...)
		} else {
			b = b[:100]
		}
	}
	return string(b)
}
