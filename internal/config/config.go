package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Storage   StorageConfig
	Redis     RedisConfig
	Cache     CacheConfig
	JWT       JWTConfig
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Scoring   ScoringConfig
	Series    []SeriesConfig `mapstructure:"series" validate:"dive"`

	// 配置文件所在目录（非配置项，用于热加载）
	Dir string `mapstructure:"-"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type StorageConfig struct {
	Type          string        `mapstructure:"type"`
	LocalPath     string        `mapstructure:"local_path"`
	MinioEndpoint string        `mapstructure:"minio_endpoint"`
	MinioAccessID string        `mapstructure:"minio_access_key"`
	MinioSecret   string        `mapstructure:"minio_secret_key"`
	MinioBucket   string        `mapstructure:"minio_bucket"`
	MinioUseSSL   bool          `mapstructure:"minio_use_ssl"`
	OSSEndpoint   string        `mapstructure:"oss_endpoint"`
	OSSAccessKey  string        `mapstructure:"oss_access_key"`
	OSSSecretKey  string        `mapstructure:"oss_secret_key"`
	OSSBucket     string        `mapstructure:"oss_bucket"`
	HTTPTimeout   time.Duration `mapstructure:"http_timeout"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	Backend    string        `mapstructure:"backend"`
	Prefix     string        `mapstructure:"prefix"`
	SourceTTL  time.Duration `mapstructure:"source_ttl"`
	AnswersTTL time.Duration `mapstructure:"answers_ttl"`
	SeriesTTL  time.Duration `mapstructure:"series_ttl"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type ScoringConfig struct {
	QuestionOrder string `mapstructure:"question_order"`
}

// SeriesConfig 一个赛事系列（杯赛/联赛赛季），每轮对应一个 CSV 文件
type SeriesConfig struct {
	Slug        string        `mapstructure:"slug" validate:"required,lowercase,excludesall=/ "`
	Title       string        `mapstructure:"title" validate:"required"`
	Description string        `mapstructure:"description"`
	SheetURL    string        `mapstructure:"sheet_url" validate:"omitempty,url"`
	Source      string        `mapstructure:"source" validate:"required,oneof=storage http"`
	Prefix      string        `mapstructure:"prefix" validate:"required_if=Source storage"`
	Rounds      []RoundSource `mapstructure:"rounds" validate:"required_if=Source http,dive"`
	RefreshCron string        `mapstructure:"refresh_cron" validate:"omitempty,cron"`
}

// RoundSource 远程导出地址（Google 表格发布的 CSV）
type RoundSource struct {
	Round string `mapstructure:"round" validate:"required,numeric"`
	URL   string `mapstructure:"url" validate:"required,url"`
}

const (
	SourceStorage = "storage"
	SourceHTTP    = "http"
)

var validate = validator.New()

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "data")
	v.SetDefault("storage.http_timeout", 15*time.Second)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.prefix", "league_stats:")
	v.SetDefault("cache.source_ttl", 10*time.Second)
	v.SetDefault("cache.answers_ttl", time.Hour)
	v.SetDefault("cache.series_ttl", 5*time.Minute)
	v.SetDefault("rate_limit.max_requests", 600)
	v.SetDefault("rate_limit.window_minutes", 1)
	v.SetDefault("scoring.question_order", "lexicographic")
}

func LoadConfig(path string) (*Config, error) {
	// 本地开发时从 .env 读取密钥，生产环境直接用系统环境变量
	if err := godotenv.Load(); err == nil {
		log.Println(".env file loaded")
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("LEAGUE_STATS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	// JWT
	v.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	v.BindEnv("server.mode", "SERVER_MODE")
	v.BindEnv("server.port", "PORT")

	// Storage
	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	v.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	v.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	v.BindEnv("storage.minio_bucket", "MINIO_BUCKET")
	v.BindEnv("storage.oss_endpoint", "OSS_ENDPOINT")
	v.BindEnv("storage.oss_access_key", "OSS_ACCESS_KEY")
	v.BindEnv("storage.oss_secret_key", "OSS_SECRET_KEY")
	v.BindEnv("storage.oss_bucket", "OSS_BUCKET")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.Dir = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}

// Validate 校验赛事系列配置
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	seen := make(map[string]bool, len(c.Series))
	for _, s := range c.Series {
		if seen[s.Slug] {
			return fmt.Errorf("invalid config: duplicate series slug %q", s.Slug)
		}
		seen[s.Slug] = true
	}

	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("invalid config: unknown cache backend %q", c.Cache.Backend)
	}

	// 生产环境校验 JWT Secret 强度
	if c.Server.Mode == "release" && c.JWT.Secret != "" && len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(c.JWT.Secret))
	}
	return nil
}

// FindSeries 按 slug 查找赛事系列
func (c *Config) FindSeries(slug string) (SeriesConfig, bool) {
	for _, s := range c.Series {
		if s.Slug == slug {
			return s, true
		}
	}
	return SeriesConfig{}, false
}
