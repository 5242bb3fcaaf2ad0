package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Cache    CacheConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Feed     FeedConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host    string
	Port    int
	SiteURL string `mapstructure:"site_url"`
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"` // postgres, sqlite
	URL             string `mapstructure:"url"`
	FilePath        string `mapstructure:"file_path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // minutes
	LogLevel        string `mapstructure:"log_level"`
}

type SessionConfig struct {
	Name   string `mapstructure:"name"`
	Secret string `mapstructure:"secret"`
}

type CacheConfig struct {
	Driver  string        `mapstructure:"driver"` // memory, redis
	PageTTL time.Duration `mapstructure:"page_ttl"`
	Size    int           `mapstructure:"size"`
	Prefix  string        `mapstructure:"prefix"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type StorageConfig struct {
	Driver       string   `mapstructure:"driver"` // local, s3
	MaxImageSize int64    `mapstructure:"max_image_size"`
	Local        LocalFS  `mapstructure:"local"`
	S3           S3Bucket `mapstructure:"s3"`
}

type LocalFS struct {
	BasePath string `mapstructure:"base_path"`
}

type S3Bucket struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
}

type FeedConfig struct {
	PostsPerPage int `mapstructure:"posts_per_page"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Load reads ./config/config.yaml when present and overlays environment
// variables on top of the defaults below.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	setDefaults(v)
	bindEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.site_url", "http://localhost:8080")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.url", "host=localhost user=postgres password=postgres dbname=quillpost port=5432 sslmode=disable")
	v.SetDefault("database.file_path", "./data/quillpost.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("session.name", "quillpost_session")
	v.SetDefault("session.secret", "secret_key_change_me")
	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.page_ttl", "20s")
	v.SetDefault("cache.size", 500)
	v.SetDefault("cache.prefix", "quillpost:page")
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.max_image_size", 10<<20)
	v.SetDefault("storage.local.base_path", "./data/media")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("feed.posts_per_page", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}

func bindEnv(v *viper.Viper) {
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.site_url", "SITE_URL")
	v.BindEnv("database.driver", "DB_DRIVER")
	v.BindEnv("database.url", "DATABASE_URL")
	v.BindEnv("database.file_path", "DB_FILE_PATH")
	v.BindEnv("database.max_idle_conns", "DB_MAX_IDLE_CONNS")
	v.BindEnv("database.max_open_conns", "DB_MAX_OPEN_CONNS")
	v.BindEnv("database.log_level", "DB_LOG_LEVEL")
	v.BindEnv("session.secret", "SESSION_SECRET")
	v.BindEnv("cache.driver", "CACHE_DRIVER")
	v.BindEnv("cache.page_ttl", "CACHE_PAGE_TTL")
	v.BindEnv("cache.size", "CACHE_SIZE")
	v.BindEnv("redis.address", "REDIS_ADDRESS")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")
	v.BindEnv("storage.driver", "STORAGE_DRIVER")
	v.BindEnv("storage.local.base_path", "MEDIA_ROOT")
	v.BindEnv("storage.s3.endpoint", "S3_ENDPOINT")
	v.BindEnv("storage.s3.region", "S3_REGION")
	v.BindEnv("storage.s3.bucket", "S3_BUCKET")
	v.BindEnv("storage.s3.access_key_id", "S3_ACCESS_KEY_ID")
	v.BindEnv("storage.s3.secret_access_key", "S3_SECRET_ACCESS_KEY")
	v.BindEnv("storage.s3.use_path_style", "S3_USE_PATH_STYLE")
	v.BindEnv("feed.posts_per_page", "POSTS_PER_PAGE")
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("log.pretty", "LOG_PRETTY")
}
