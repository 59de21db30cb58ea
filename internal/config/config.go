package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppConfig holds runtime startup configuration loaded from YAML and the environment.
type AppConfig struct {
	Port           int                   `yaml:"port"`
	Env            string                `yaml:"env"` // "development" | "production"
	PublicURL      string                `yaml:"public_url"`
	SiteURL        string                `yaml:"site_url"`
	DSN            string                `yaml:"-"`
	RedisURL       string                `yaml:"-"`
	Database       DatabaseRuntimeConfig `yaml:"database"`
	Redis          RedisRuntimeConfig    `yaml:"redis"`
	Paths          RuntimePathsConfig    `yaml:"paths"`
	AllowedOrigins []string              `yaml:"allowed_origins"`
	JWT            JWTConfig             `yaml:"jwt"`
	Upload         UploadConfig          `yaml:"upload"`
	S3             S3Config              `yaml:"s3"`
	Contact        ContactConfig         `yaml:"contact"`
	Admin          AdminConfig           `yaml:"admin"`
	Timezone       string                `yaml:"timezone"`
}

type DatabaseRuntimeConfig struct {
	DSN       string            `yaml:"dsn"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	Charset   string            `yaml:"charset"`
	ParseTime bool              `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Params    map[string]string `yaml:"params"`
}

type RedisRuntimeConfig struct {
	Enable   bool              `yaml:"enable"`
	URL      string            `yaml:"url"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	Username string            `yaml:"username"`
	Password string            `yaml:"password"`
	DB       int               `yaml:"db"`
	TLS      bool              `yaml:"tls"`
	Params   map[string]string `yaml:"params"`
}

type RuntimePathsConfig struct {
	Logs   string `yaml:"logs"`
	Static string `yaml:"static"`
}

type JWTConfig struct {
	Secret           string `yaml:"secret"`
	AccessTTLMinutes int    `yaml:"access_ttl_minutes"`
	RefreshTTLHours  int    `yaml:"refresh_ttl_hours"`
}

type UploadConfig struct {
	MaxSizeMB int `yaml:"max_size_mb"`
}

// S3Config enables S3-compatible object storage for uploaded media.
type S3Config struct {
	Enable          bool   `yaml:"enable"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PathStyle       bool   `yaml:"path_style"`
	PublicBaseURL   string `yaml:"public_base_url"`
}

type ContactConfig struct {
	PerMinute int `yaml:"per_minute"`
}

// AdminConfig seeds the first administrator when the users table is empty.
type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Email    string `yaml:"email"`
}

// Load reads .env (when present), the YAML file at configPath (when present)
// and environment overrides, in that order.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DefaultEnvFile, err)
	}

	cfg := defaultAppConfig()
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decodeYAML(content, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && configPath == "":
		// running purely from the environment
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.normalize()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return &cfg, nil
}

func decodeYAML(content []byte, cfg *AppConfig) error {
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Database: DatabaseRuntimeConfig{
			Host:      defaultDBHost,
			Port:      defaultDBPort,
			User:      defaultDBUser,
			Password:  defaultDBPassword,
			Name:      defaultDBName,
			Charset:   defaultDBCharset,
			ParseTime: true,
			Loc:       defaultDBLoc,
		},
		Redis: RedisRuntimeConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
		JWT: JWTConfig{
			AccessTTLMinutes: defaultAccessTTLMinutes,
			RefreshTTLHours:  defaultRefreshTTLHours,
		},
		Upload:  UploadConfig{MaxSizeMB: defaultUploadMaxMB},
		Contact: ContactConfig{PerMinute: defaultContactPerMinute},
	}
}

func applyEnv(cfg *AppConfig) error {
	if v := strings.TrimSpace(os.Getenv(EnvPort)); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPort, err)
		}
		cfg.Port = port
	}
	if v := strings.TrimSpace(os.Getenv(EnvEnv)); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDSN)); v != "" {
		cfg.Database.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRedisURL)); v != "" {
		cfg.Redis.URL = v
		cfg.Redis.Enable = true
	}
	if v := strings.TrimSpace(os.Getenv(EnvJWTSecret)); v != "" {
		cfg.JWT.Secret = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvStaticDir)); v != "" {
		cfg.Paths.Static = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogDir)); v != "" {
		cfg.Paths.Logs = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPublicURL)); v != "" {
		cfg.PublicURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvS3AccessKey)); v != "" {
		cfg.S3.AccessKeyID = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvS3SecretKey)); v != "" {
		cfg.S3.SecretAccessKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAdminUsername)); v != "" {
		cfg.Admin.Username = v
	}
	if v := os.Getenv(EnvAdminPassword); v != "" {
		cfg.Admin.Password = v
	}
	return nil
}

func (c *AppConfig) normalize() {
	c.Env = normalizeEnv(c.Env)
	c.PublicURL = strings.TrimRight(strings.TrimSpace(c.PublicURL), "/")
	c.SiteURL = strings.TrimRight(strings.TrimSpace(c.SiteURL), "/")
	if c.SiteURL == "" {
		c.SiteURL = c.PublicURL
	}
	c.AllowedOrigins = normalizeOrigins(c.AllowedOrigins)
	if c.JWT.AccessTTLMinutes <= 0 {
		c.JWT.AccessTTLMinutes = defaultAccessTTLMinutes
	}
	if c.JWT.RefreshTTLHours <= 0 {
		c.JWT.RefreshTTLHours = defaultRefreshTTLHours
	}
	if c.Upload.MaxSizeMB <= 0 {
		c.Upload.MaxSizeMB = defaultUploadMaxMB
	}
	if c.Contact.PerMinute <= 0 {
		c.Contact.PerMinute = defaultContactPerMinute
	}
	c.Admin.Username = strings.TrimSpace(c.Admin.Username)
	if c.Admin.Password != "" && c.Admin.Username == "" {
		c.Admin.Username = defaultAdminUsername
	}
	c.DSN = c.Database.DSNValue()
	if c.Redis.Enable {
		c.RedisURL = c.Redis.URLValue()
	}
}

func (c *AppConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range 1-65535", c.Port)
	}
	if c.Database.DSN == "" && (c.Database.Port < 1 || c.Database.Port > 65535) {
		return fmt.Errorf("database.port %d out of range 1-65535", c.Database.Port)
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("redis.db %d, expected >= 0", c.Redis.DB)
	}
	if c.S3.Enable && (c.S3.Bucket == "" || c.S3.Region == "") {
		return errors.New("s3.bucket and s3.region are required when s3.enable is set")
	}
	return nil
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		if o := strings.TrimSpace(origin); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func normalizeEnv(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "prod", "production":
		return "production"
	default:
		return defaultEnv
	}
}

func (c *AppConfig) IsDev() bool { return c.Env != "production" }

func (c *AppConfig) Addr() string { return fmt.Sprintf(":%d", c.Port) }

func (c *AppConfig) LogDir() string { return ResolveRuntimePath(c.Paths.Logs, "logs") }

func (c *AppConfig) StaticDir() string { return ResolveRuntimePath(c.Paths.Static, "static") }

func (c *AppConfig) AccessTTL() time.Duration {
	if c.JWT.AccessTTLMinutes <= 0 {
		return defaultAccessTTLMinutes * time.Minute
	}
	return time.Duration(c.JWT.AccessTTLMinutes) * time.Minute
}

func (c *AppConfig) RefreshTTL() time.Duration {
	if c.JWT.RefreshTTLHours <= 0 {
		return defaultRefreshTTLHours * time.Hour
	}
	return time.Duration(c.JWT.RefreshTTLHours) * time.Hour
}

func (c *AppConfig) UploadMaxBytes() int64 {
	return int64(c.Upload.MaxSizeMB) * 1024 * 1024
}
