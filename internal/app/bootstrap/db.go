// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/careerhub/internal/app/system/blobstore"
	"github.com/dalemusser/careerhub/internal/app/system/events"
	"github.com/dalemusser/careerhub/internal/app/system/indexes"
	"github.com/dalemusser/careerhub/internal/app/system/ratelimit"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB connects MongoDB and the optional back ends. MongoDB and the
// upload store are required; Redis and RabbitMQ degrade to in-process
// fallbacks when unconfigured or unreachable.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	var deps DBDeps

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize))
	if err != nil {
		return deps, fmt.Errorf("connect mongo: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return deps, fmt.Errorf("ping mongo: %w", err)
	}
	deps.MongoClient = client
	deps.MongoDatabase = client.Database(appCfg.MongoDatabase)
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	if deps.Blobs, err = openBlobStore(ctx, appCfg); err != nil {
		_ = client.Disconnect(context.Background())
		return deps, err
	}

	if appCfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     appCfg.RedisAddr,
			Password: appCfg.RedisPassword,
			DB:       appCfg.RedisDB,
		})
		if err := ratelimit.Ping(pingCtx, rdb); err != nil {
			logger.Warn("redis unreachable; rate limits stay in memory", zap.String("addr", appCfg.RedisAddr), zap.Error(err))
			_ = rdb.Close()
		} else {
			deps.Redis = rdb
		}
	}

	deps.Events = events.Nop{}
	if appCfg.AMQPURL != "" {
		pub, err := events.NewAMQPPublisher(appCfg.AMQPURL, appCfg.AMQPQueue, logger)
		if err != nil {
			logger.Warn("rabbitmq unavailable; notifications disabled", zap.Error(err))
		} else {
			deps.Events = pub
		}
	}

	return deps, nil
}

func openBlobStore(ctx context.Context, appCfg AppConfig) (blobstore.Store, error) {
	if appCfg.StorageType == "s3" {
		s, err := blobstore.NewS3(ctx, blobstore.S3Config{
			Region:    appCfg.StorageS3Region,
			Bucket:    appCfg.StorageS3Bucket,
			Prefix:    appCfg.StorageS3Prefix,
			PublicURL: appCfg.StorageS3PublicURL,
		})
		if err != nil {
			return nil, fmt.Errorf("open s3 store: %w", err)
		}
		return s, nil
	}
	l, err := blobstore.NewLocal(appCfg.StorageLocalPath, appCfg.StorageLocalURL)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	return l, nil
}

// EnsureSchema creates or reconciles every collection's indexes.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return err
	}
	return nil
}
