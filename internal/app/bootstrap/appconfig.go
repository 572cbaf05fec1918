// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig covers the framework-level settings (ports, TLS,
// log level, body limits). Everything specific to careerhub lives here and
// is passed to every lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session cookies and bearer tokens
	SessionKey    string // signs session cookies (must be strong in production)
	SessionName   string // cookie name (default: careerhub-session)
	SessionDomain string // blank means current host
	SessionTTL    time.Duration
	JWTSecret     string // blank disables /auth/token
	JWTTTL        time.Duration

	// Document uploads
	StorageType        string // "local" or "s3"
	StorageLocalPath   string // e.g. ./uploads
	StorageLocalURL    string // URL prefix the local files are served under
	StorageS3Region    string
	StorageS3Bucket    string
	StorageS3Prefix    string
	StorageS3PublicURL string // optional CDN base replacing the bucket URL

	// Rate limiting. An empty RedisAddr keeps the limiters in memory.
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	SubmitRateLimit  int
	SubmitRateWindow time.Duration

	// Event bus. An empty AMQPURL disables notifications.
	AMQPURL   string
	AMQPQueue string

	CORSAllowedOrigins []string

	// Audit logging: "all", "db", "log" or "off"
	AuditLogAuth  string
	AuditLogAdmin string

	// Bootstrap admin account, created or promoted at startup
	AdminEmail    string
	AdminPassword string

	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
}
