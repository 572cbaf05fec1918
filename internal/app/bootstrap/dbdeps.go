// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/careerhub/internal/app/system/blobstore"
	"github.com/dalemusser/careerhub/internal/app/system/events"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database and back-end dependencies for the app.
// Redis and Events are optional; a nil Redis keeps rate limits in memory
// and Events falls back to events.Nop.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	Redis         *redis.Client
	Blobs         blobstore.Store
	Events        events.Publisher
}
