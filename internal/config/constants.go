package config

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	// DefaultEnvFile is loaded before the YAML file when it exists.
	DefaultEnvFile = ".env"

	defaultPort       = 8000
	defaultEnv        = "development"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "chephamsinhhoc"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"
	defaultRedisHost  = "localhost"
	defaultRedisPort  = 6379
	defaultRedisDB    = 0

	defaultAccessTTLMinutes = 60
	defaultRefreshTTLHours  = 7 * 24
	defaultUploadMaxMB      = 5
	defaultContactPerMinute = 5
	defaultAdminUsername    = "admin"
)

// Environment variable overrides applied after the YAML file.
const (
	EnvPort        = "EBG_PORT"
	EnvEnv         = "EBG_ENV"
	EnvDSN         = "EBG_DB_DSN"
	EnvRedisURL    = "EBG_REDIS_URL"
	EnvJWTSecret   = "EBG_JWT_SECRET"
	EnvStaticDir   = "EBG_STATIC_DIR"
	EnvLogDir      = "EBG_LOG_DIR"
	EnvPublicURL   = "EBG_PUBLIC_URL"
	EnvHome        = "EBG_HOME"
	EnvS3AccessKey = "EBG_S3_ACCESS_KEY_ID"
	EnvS3SecretKey = "EBG_S3_SECRET_ACCESS_KEY"

	EnvAdminUsername = "EBG_ADMIN_USERNAME"
	EnvAdminPassword = "EBG_ADMIN_PASSWORD"
)
