package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	// Viper ignores empty variables, so this masks anything set in the environment
	for _, key := range []string{"PORT", "FEEDBACK_SLOT_KEY", "STORAGE_BACKEND", "STORAGE_FILE_DIR",
		"REDIS_KEY_PREFIX", "CONFIGMAP_NAMESPACE", "S3_REGION"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "feedbackData", cfg.SlotKey)
	assert.Equal(t, "file", cfg.StorageBackend)
	assert.Equal(t, "./data", cfg.StorageFileDir)
	assert.Equal(t, "feedbox:", cfg.RedisKeyPrefix)
	assert.Equal(t, "default", cfg.ConfigMapNamespace)
	assert.Equal(t, "us-east-1", cfg.S3Region)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "Redis")
	t.Setenv("REDIS_ADDRESS", "cache:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("FEEDBACK_SLOT_KEY", "widgetFeedback")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.com/services/T/B/X")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "redis", cfg.StorageBackend)
	assert.Equal(t, "cache:6379", cfg.RedisAddress)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "widgetFeedback", cfg.SlotKey)
	assert.Equal(t, "https://hooks.slack.com/services/T/B/X", cfg.SlackWebhookURL)

	storage := cfg.Storage()
	assert.Equal(t, "redis", storage.Backend)
	assert.Equal(t, "cache:6379", storage.Redis.Address)
	assert.Equal(t, 3, storage.Redis.DB)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "memory", cfg: Config{StorageBackend: "memory"}},
		{name: "file", cfg: Config{StorageBackend: "file", StorageFileDir: "/data"}},
		{name: "file without dir", cfg: Config{StorageBackend: "file"}, wantErr: "STORAGE_FILE_DIR"},
		{name: "postgres without url", cfg: Config{StorageBackend: "postgres"}, wantErr: "DATABASE_URL"},
		{name: "redis without address", cfg: Config{StorageBackend: "redis"}, wantErr: "REDIS_ADDRESS"},
		{name: "configmap without name", cfg: Config{StorageBackend: "configmap", ConfigMapNamespace: "default"}, wantErr: "CONFIGMAP_NAME"},
		{name: "s3 without bucket", cfg: Config{StorageBackend: "s3"}, wantErr: "S3_BUCKET"},
		{name: "unknown", cfg: Config{StorageBackend: "tape"}, wantErr: "unknown STORAGE_BACKEND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
