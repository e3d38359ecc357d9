package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const DefaultConfigPath = "Blog.toml"

// placeholderSecrets are signing secrets that appear in sample configs and must never be used.
var placeholderSecrets = map[string]struct{}{
	"change-me":            {},
	"dev-secret-change-me": {},
	"secret":               {},
}

// CheckSecret rejects an empty or placeholder JWT signing secret.
func CheckSecret(secret string) error {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return errors.New("jwt secret is not configured, set [secret] secret or JWT_SECRET")
	}
	if _, ok := placeholderSecrets[strings.ToLower(trimmed)]; ok {
		return fmt.Errorf("jwt secret %q is a placeholder, set a real value", trimmed)
	}
	return nil
}

type Config struct {
	HTTPHost string `mapstructure:"host" env:"HTTP_HOST"`
	HTTPPort string `mapstructure:"port" env:"HTTP_PORT"`

	DBType      string `mapstructure:"db_type" env:"DB_TYPE"`
	DatabaseURL string `mapstructure:"database_url" env:"DATABASE_URL"`
	DBPath      string `mapstructure:"db_path" env:"DB_PATH"`

	BlogName string `mapstructure:"blog_name" env:"BLOG_NAME"`
	BlogURL  string `mapstructure:"blog_url" env:"BLOG_URL"`

	JWTSecret            string `mapstructure:"secret" env:"JWT_SECRET"`
	JWTIssuer            string `mapstructure:"jwt_issuer" env:"JWT_ISSUER"`
	JWTExpirationMinutes int    `mapstructure:"jwt_expiration_minutes" env:"JWT_EXPIRATION_MINUTES"`

	RedisURL         string `mapstructure:"redis_url" env:"REDIS_URL"`
	RateLimitCount   int    `mapstructure:"ratelimit_count" env:"RATELIMIT_COUNT"`
	RateLimitSeconds int    `mapstructure:"ratelimit_seconds" env:"RATELIMIT_SECONDS"`

	StorageType          string `mapstructure:"storage_type" env:"STORAGE_TYPE"`
	StorageLocalDir      string `mapstructure:"storage_local_dir" env:"STORAGE_LOCAL_DIR"`
	StoragePublicBaseURL string `mapstructure:"storage_public_base_url" env:"STORAGE_PUBLIC_BASE_URL"`

	// S3 兼容存储配置
	StorageS3Region          string `mapstructure:"storage_s3_region" env:"STORAGE_S3_REGION"`
	StorageS3Bucket          string `mapstructure:"storage_s3_bucket" env:"STORAGE_S3_BUCKET"`
	StorageS3Prefix          string `mapstructure:"storage_s3_prefix" env:"STORAGE_S3_PREFIX"`
	StorageS3Endpoint        string `mapstructure:"storage_s3_endpoint" env:"STORAGE_S3_ENDPOINT"`
	StorageS3AccessKeyID     string `mapstructure:"storage_s3_access_key_id" env:"STORAGE_S3_ACCESS_KEY_ID"`
	StorageS3SecretAccessKey string `mapstructure:"storage_s3_secret_access_key" env:"STORAGE_S3_SECRET_ACCESS_KEY"`
	StorageS3SessionToken    string `mapstructure:"storage_s3_session_token" env:"STORAGE_S3_SESSION_TOKEN"`
	StorageS3ForcePathStyle  bool   `mapstructure:"storage_s3_force_path_style" env:"STORAGE_S3_FORCE_PATH_STYLE"`

	// 阿里云 OSS 存储配置
	StorageOSSEndpoint        string `mapstructure:"storage_oss_endpoint" env:"STORAGE_OSS_ENDPOINT"`
	StorageOSSBucket          string `mapstructure:"storage_oss_bucket" env:"STORAGE_OSS_BUCKET"`
	StorageOSSPrefix          string `mapstructure:"storage_oss_prefix" env:"STORAGE_OSS_PREFIX"`
	StorageOSSAccessKeyID     string `mapstructure:"storage_oss_access_key_id" env:"STORAGE_OSS_ACCESS_KEY_ID"`
	StorageOSSAccessKeySecret string `mapstructure:"storage_oss_access_key_secret" env:"STORAGE_OSS_ACCESS_KEY_SECRET"`

	// 腾讯云 COS 存储配置
	StorageCOSBucketURL string `mapstructure:"storage_cos_bucket_url" env:"STORAGE_COS_BUCKET_URL"`
	StorageCOSPrefix    string `mapstructure:"storage_cos_prefix" env:"STORAGE_COS_PREFIX"`
	StorageCOSSecretID  string `mapstructure:"storage_cos_secret_id" env:"STORAGE_COS_SECRET_ID"`
	StorageCOSSecretKey string `mapstructure:"storage_cos_secret_key" env:"STORAGE_COS_SECRET_KEY"`

	// Cloudflare R2 存储配置
	StorageR2AccountID       string `mapstructure:"storage_r2_account_id" env:"STORAGE_R2_ACCOUNT_ID"`
	StorageR2Endpoint        string `mapstructure:"storage_r2_endpoint" env:"STORAGE_R2_ENDPOINT"`
	StorageR2Region          string `mapstructure:"storage_r2_region" env:"STORAGE_R2_REGION"`
	StorageR2Bucket          string `mapstructure:"storage_r2_bucket" env:"STORAGE_R2_BUCKET"`
	StorageR2Prefix          string `mapstructure:"storage_r2_prefix" env:"STORAGE_R2_PREFIX"`
	StorageR2AccessKeyID     string `mapstructure:"storage_r2_access_key_id" env:"STORAGE_R2_ACCESS_KEY_ID"`
	StorageR2SecretAccessKey string `mapstructure:"storage_r2_secret_access_key" env:"STORAGE_R2_SECRET_ACCESS_KEY"`
}

// fileKeys maps the sections of Blog.toml onto Config fields.
var fileKeys = map[string]string{
	"server.host":               "host",
	"server.port":               "port",
	"server.database_url":       "database_url",
	"blog.name":                 "blog_name",
	"blog.url":                  "blog_url",
	"secret.secret":             "secret",
	"secret.issuer":             "jwt_issuer",
	"secret.expiration_minutes": "jwt_expiration_minutes",
	"database.type":             "db_type",
	"database.path":             "db_path",
	"redis.url":                 "redis_url",
	"ratelimit.count":           "ratelimit_count",
	"ratelimit.seconds":         "ratelimit_seconds",
}

// storageKeys are read from the [storage] section.
var storageKeys = []string{
	"type", "local_dir", "public_base_url",
	"s3_region", "s3_bucket", "s3_prefix", "s3_endpoint", "s3_access_key_id", "s3_secret_access_key", "s3_session_token", "s3_force_path_style",
	"oss_endpoint", "oss_bucket", "oss_prefix", "oss_access_key_id", "oss_access_key_secret",
	"cos_bucket_url", "cos_prefix", "cos_secret_id", "cos_secret_key",
	"r2_account_id", "r2_endpoint", "r2_region", "r2_bucket", "r2_prefix", "r2_access_key_id", "r2_secret_access_key",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.path", "datas/blog.db")
	v.SetDefault("blog.name", "Blog")
	v.SetDefault("secret.issuer", "blog")
	v.SetDefault("secret.expiration_minutes", 1440)
	v.SetDefault("ratelimit.count", 20)
	v.SetDefault("ratelimit.seconds", 60)
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_dir", "datas/media")
	v.SetDefault("storage.public_base_url", "/files")
	v.SetDefault("storage.r2_region", "auto")
}

// ParseConfig loads the TOML config file (missing file means defaults), then overlays
// environment variables, including any found in a local .env file.
func ParseConfig(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("failed to load .env file")
	}

	if strings.TrimSpace(path) == "" {
		path = os.Getenv("BLOG_CONFIG")
	}
	if strings.TrimSpace(path) == "" {
		path = DefaultConfigPath
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			logrus.WithError(err).WithField("path", path).Error("failed to read config file")
			return Config{}, err
		}
		logrus.WithField("path", path).Info("config file not found, using defaults")
	}

	flat := make(map[string]interface{}, len(fileKeys))
	for fileKey, field := range fileKeys {
		flat[field] = v.Get(fileKey)
	}
	for _, key := range storageKeys {
		flat["storage_"+key] = v.Get("storage." + key)
	}

	var conf Config
	flatViper := viper.New()
	if err := flatViper.MergeConfigMap(flat); err != nil {
		return Config{}, err
	}
	if err := flatViper.Unmarshal(&conf); err != nil {
		logrus.WithError(err).Error("viper.Unmarshal error")
		return Config{}, err
	}

	if err := env.Parse(&conf); err != nil {
		logrus.WithError(err).Error("env.Parse error")
		return Config{}, err
	}
	logrus.Debugf("%#v\n", conf)
	return conf, nil
}
