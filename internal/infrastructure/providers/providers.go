package providers

import (
	"fmt"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/porvoy/archive/internal/config"
	"github.com/porvoy/archive/internal/infrastructure/database"
	"github.com/porvoy/archive/internal/infrastructure/repository"
	"github.com/porvoy/archive/internal/infrastructure/storage"
	"github.com/porvoy/archive/internal/usecase"
)

// NewDatabase opens a Postgres connection using the configured DSN.
func NewDatabase(conf config.Server) (*gorm.DB, error) {
	return database.NewPostgres(conf.PostgresDsn)
}

// MigrateDatabase applies migrations for the application models.
func MigrateDatabase(db *gorm.DB) error {
	return database.MigratePostgres(db)
}

// NewRedis creates the pub/sub client for submission events.
func NewRedis(conf config.Server) *redis.Client {
	return database.NewRedis(conf.RedisAddr, "", conf.RedisDB)
}

// NewMemcache creates a memcache client for the listing cache.
func NewMemcache(addr string) *memcache.Client {
	return database.NewMemcached(addr)
}

// NewContentRepository builds the record repository, wrapped in the listing
// cache when memcached is configured.
func NewContentRepository(db *gorm.DB, conf config.Server) usecase.ContentRepository {
	repo := repository.NewContentRepository(db)
	if conf.MemcachedAddr == "" {
		return repo
	}
	return repository.NewCachedContentRepository(repo, NewMemcache(conf.MemcachedAddr))
}

// NewBucketStore selects the storage backend from config.
func NewBucketStore(conf config.Storage) (usecase.BucketStore, error) {
	switch conf.Backend {
	case "s3":
		return storage.NewMinioStore(conf.Endpoint, conf.AccessKey, conf.SecretKey, conf.UseSSL, conf.PublicBaseURL)
	case "filesystem":
		return storage.NewFilesystemStore(conf.MediaDir, conf.PublicBaseURL)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", conf.Backend)
	}
}
