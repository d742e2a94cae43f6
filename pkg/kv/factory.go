package kv

import (
	"context"
	"fmt"

	"github.com/valentinpelus/feedbox/pkg/kubernetes"
)

// Backend names accepted by Open
const (
	BackendMemory    = "memory"
	BackendFile      = "file"
	BackendPostgres  = "postgres"
	BackendRedis     = "redis"
	BackendConfigMap = "configmap"
	BackendS3        = "s3"
)

// Config selects and configures a storage backend
type Config struct {
	Backend string

	// file
	FileDir string

	// postgres
	DatabaseURL string

	// redis
	Redis RedisOptions

	// configmap
	ConfigMapNamespace string
	ConfigMapName      string
	Kubeconfig         string

	// s3
	S3 S3Options
}

// Open creates the configured backend
func Open(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Backend {
	case BackendMemory:
		return NewMemory(), nil

	case BackendFile, "":
		if cfg.FileDir == "" {
			cfg.FileDir = "./data" // Default directory
		}
		return NewFile(cfg.FileDir)

	case BackendPostgres:
		return NewPostgres(ctx, cfg.DatabaseURL)

	case BackendRedis:
		return NewRedis(ctx, cfg.Redis)

	case BackendConfigMap:
		clientset, err := kubernetes.GetClientset(cfg.Kubeconfig)
		if err != nil {
			return nil, err
		}
		return NewConfigMap(clientset, cfg.ConfigMapNamespace, cfg.ConfigMapName)

	case BackendS3:
		return NewS3(ctx, cfg.S3)

	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: memory, file, postgres, redis, configmap, s3)", cfg.Backend)
	}
}
