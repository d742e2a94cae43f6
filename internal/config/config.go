package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/valentinpelus/feedbox/pkg/feedback"
	"github.com/valentinpelus/feedbox/pkg/kv"
)

// Config holds all application configuration
type Config struct {
	Port        string
	Environment string
	LogLevel    string
	SlotKey     string
	// Storage Configuration
	StorageBackend     string // "memory", "file", "postgres", "redis", "configmap", "s3"
	StorageFileDir     string
	DatabaseURL        string
	RedisAddress       string
	RedisPassword      string
	RedisDB            int
	RedisKeyPrefix     string
	ConfigMapNamespace string
	ConfigMapName      string
	Kubeconfig         string
	S3Bucket           string
	S3Prefix           string
	S3Region           string
	S3Endpoint         string
	S3AccessKeyID      string
	S3SecretAccessKey  string
	// Notifications
	SlackWebhookURL string
	SlackBotToken   string
	SlackChannelID  string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("FEEDBACK_SLOT_KEY", feedback.DefaultSlotKey)
	v.SetDefault("STORAGE_BACKEND", kv.BackendFile)
	v.SetDefault("STORAGE_FILE_DIR", "./data")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_ADDRESS", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_KEY_PREFIX", "feedbox:")
	v.SetDefault("CONFIGMAP_NAMESPACE", "default")
	v.SetDefault("CONFIGMAP_NAME", "feedbox-data")
	v.SetDefault("KUBECONFIG", "")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_PREFIX", "feedbox/")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_ACCESS_KEY_ID", "")
	v.SetDefault("S3_SECRET_ACCESS_KEY", "")
	v.SetDefault("SLACK_WEBHOOK_URL", "")
	v.SetDefault("SLACK_BOT_TOKEN", "")
	v.SetDefault("SLACK_CHANNEL_ID", "")

	v.AutomaticEnv()

	cfg := &Config{
		Port:               v.GetString("PORT"),
		Environment:        v.GetString("ENVIRONMENT"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		SlotKey:            v.GetString("FEEDBACK_SLOT_KEY"),
		StorageBackend:     strings.ToLower(v.GetString("STORAGE_BACKEND")),
		StorageFileDir:     v.GetString("STORAGE_FILE_DIR"),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		RedisAddress:       v.GetString("REDIS_ADDRESS"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		RedisDB:            v.GetInt("REDIS_DB"),
		RedisKeyPrefix:     v.GetString("REDIS_KEY_PREFIX"),
		ConfigMapNamespace: v.GetString("CONFIGMAP_NAMESPACE"),
		ConfigMapName:      v.GetString("CONFIGMAP_NAME"),
		Kubeconfig:         v.GetString("KUBECONFIG"),
		S3Bucket:           v.GetString("S3_BUCKET"),
		S3Prefix:           v.GetString("S3_PREFIX"),
		S3Region:           v.GetString("S3_REGION"),
		S3Endpoint:         v.GetString("S3_ENDPOINT"),
		S3AccessKeyID:      v.GetString("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey:  v.GetString("S3_SECRET_ACCESS_KEY"),
		SlackWebhookURL:    v.GetString("SLACK_WEBHOOK_URL"),
		SlackBotToken:      v.GetString("SLACK_BOT_TOKEN"),
		SlackChannelID:     v.GetString("SLACK_CHANNEL_ID"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected backend has what it needs
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case kv.BackendMemory:
	case kv.BackendFile:
		if c.StorageFileDir == "" {
			return fmt.Errorf("STORAGE_FILE_DIR is required for the file backend")
		}
	case kv.BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	case kv.BackendRedis:
		if c.RedisAddress == "" {
			return fmt.Errorf("REDIS_ADDRESS is required for the redis backend")
		}
	case kv.BackendConfigMap:
		if c.ConfigMapNamespace == "" || c.ConfigMapName == "" {
			return fmt.Errorf("CONFIGMAP_NAMESPACE and CONFIGMAP_NAME are required for the configmap backend")
		}
	case kv.BackendS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	return nil
}

// Storage converts the storage settings into a kv.Config
func (c *Config) Storage() kv.Config {
	return kv.Config{
		Backend:     c.StorageBackend,
		FileDir:     c.StorageFileDir,
		DatabaseURL: c.DatabaseURL,
		Redis: kv.RedisOptions{
			Address:  c.RedisAddress,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
			Prefix:   c.RedisKeyPrefix,
		},
		ConfigMapNamespace: c.ConfigMapNamespace,
		ConfigMapName:      c.ConfigMapName,
		Kubeconfig:         c.Kubeconfig,
		S3: kv.S3Options{
			Bucket:          c.S3Bucket,
			Prefix:          c.S3Prefix,
			Region:          c.S3Region,
			Endpoint:        c.S3Endpoint,
			AccessKeyID:     c.S3AccessKeyID,
			SecretAccessKey: c.S3SecretAccessKey,
		},
	}
}
