package store

import (
	"path"
	"strings"

	"github.com/rgimusa/storefront/config"
	"go.uber.org/zap"
)

// Open builds the store on the backend named by the database config
func Open(cfg *config.AppConfig) (*Store, error) {
	bucket := cfg.Database.Bucket
	if bucket == "" {
		bucket = "rgim"
	}
	switch strings.ToLower(cfg.Database.Type) {
	case "", "bolt", "bbolt":
		file := path.Join(cfg.GetDataDir(), "storefront.db")
		b, err := OpenBolt(file, bucket)
		if err != nil {
			return nil, err
		}
		zap.L().Info("store: bolt backend ready", zap.String("file", file))
		return New(b), nil
	case "memory":
		return New(NewMemoryBackend(0)), nil
	default:
		db, err := OpenDatabase(cfg.Database, cfg.System.Workdir)
		if err != nil {
			return nil, err
		}
		g, err := NewGormBackend(db, bucket)
		if err != nil {
			return nil, err
		}
		zap.L().Info("store: sql backend ready", zap.String("type", cfg.Database.Type))
		return New(g), nil
	}
}
