package utils

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	MiB = 1 << 20

	DefaultMaxVideoBytes = 100 * MiB
	DefaultMaxImageBytes = 10 * MiB
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Session  SessionConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Upload   UploadConfig
}

type AppConfig struct {
	Name            string
	Port            string
	Debug           bool
	LogPath         string
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int32
}

type SessionConfig struct {
	Driver          string // postgres | redis
	CookieName      string
	TTL             time.Duration
	SecureCookie    bool
	CleanupInterval time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	Driver       string // s3 | local
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	PublicURL    string
	UsePathStyle bool
	PublicACL    bool
	LocalRoot    string
	LocalURL     string
}

type UploadConfig struct {
	MaxVideoBytes     int64
	MaxImageBytes     int64
	MaxSongRequestLen int
}

// LoadConfig reads an optional .env file, then lets the environment override it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, err
		}
	}

	v.AutomaticEnv()

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "order-upload")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 15)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)

	v.SetDefault("SESSION_DRIVER", "postgres")
	v.SetDefault("SESSION_COOKIE_NAME", "order_upload_sid")
	v.SetDefault("SESSION_TTL_HOURS", 24)
	v.SetDefault("SESSION_SECURE_COOKIE", false)
	v.SetDefault("SESSION_CLEANUP_MINUTES", 60)

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_USE_PATH_STYLE", false)
	v.SetDefault("S3_PUBLIC_ACL", false)
	v.SetDefault("STORAGE_LOCAL_ROOT", "storage")
	v.SetDefault("STORAGE_LOCAL_URL", "http://localhost:8080/files")

	v.SetDefault("UPLOAD_MAX_VIDEO_BYTES", DefaultMaxVideoBytes)
	v.SetDefault("UPLOAD_MAX_IMAGE_BYTES", DefaultMaxImageBytes)
	v.SetDefault("UPLOAD_MAX_SONG_REQUEST_LEN", 500)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Name:            v.GetString("APP_NAME"),
			Port:            v.GetString("PORT"),
			Debug:           v.GetBool("DEBUG"),
			LogPath:         v.GetString("LOG_PATH"),
			ShutdownTimeout: time.Duration(v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")) * time.Second,
			AllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Session: SessionConfig{
			Driver:          v.GetString("SESSION_DRIVER"),
			CookieName:      v.GetString("SESSION_COOKIE_NAME"),
			TTL:             time.Duration(v.GetInt("SESSION_TTL_HOURS")) * time.Hour,
			SecureCookie:    v.GetBool("SESSION_SECURE_COOKIE"),
			CleanupInterval: time.Duration(v.GetInt("SESSION_CLEANUP_MINUTES")) * time.Minute,
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Storage: StorageConfig{
			Driver:       v.GetString("STORAGE_DRIVER"),
			Bucket:       v.GetString("S3_BUCKET"),
			Region:       v.GetString("S3_REGION"),
			Endpoint:     v.GetString("S3_ENDPOINT"),
			AccessKey:    v.GetString("S3_ACCESS_KEY"),
			SecretKey:    v.GetString("S3_SECRET_KEY"),
			PublicURL:    v.GetString("S3_PUBLIC_URL"),
			UsePathStyle: v.GetBool("S3_USE_PATH_STYLE"),
			PublicACL:    v.GetBool("S3_PUBLIC_ACL"),
			LocalRoot:    v.GetString("STORAGE_LOCAL_ROOT"),
			LocalURL:     v.GetString("STORAGE_LOCAL_URL"),
		},
		Upload: UploadConfig{
			MaxVideoBytes:     v.GetInt64("UPLOAD_MAX_VIDEO_BYTES"),
			MaxImageBytes:     v.GetInt64("UPLOAD_MAX_IMAGE_BYTES"),
			MaxSongRequestLen: v.GetInt("UPLOAD_MAX_SONG_REQUEST_LEN"),
		},
	}
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
