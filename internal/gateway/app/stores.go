package app

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"pixelforge/internal/gateway/config"
	bundlerepo "pixelforge/internal/gateway/repository/bundle"
	generationrepo "pixelforge/internal/gateway/repository/generation"
	prefsrepo "pixelforge/internal/gateway/repository/prefs"
)

type gatewayStores struct {
	generations generationrepo.Store
	prefs       prefsrepo.Store
	bundles     bundlerepo.Store
}

func initStores(cfg *config.Config) (*gatewayStores, error) {
	s3Factory := newBundleS3StoreFactory(cfg)

	if dsn := strings.TrimSpace(cfg.DatabaseURL); dsn != "" {
		return initPostgresStores(dsn, cfg, s3Factory)
	}
	return initInMemoryStores(cfg, s3Factory)
}

func newBundleS3StoreFactory(cfg *config.Config) func() (bundlerepo.Store, error) {
	return func() (bundlerepo.Store, error) {
		s3Cfg := bundlerepo.S3Config{
			Endpoint:  cfg.Archive.Endpoint,
			Region:    cfg.Archive.Region,
			AccessKey: cfg.Archive.AccessKey,
			SecretKey: cfg.Archive.SecretKey,
			Bucket:    cfg.Archive.Bucket,
			UseSSL:    cfg.Archive.UseSSL,
		}
		s3Store, err := bundlerepo.NewS3Store(s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize bundle s3 store: %w", err)
		}
		log.Printf("bundle store: s3 bucket=%s endpoint=%s", s3Cfg.Bucket, s3Cfg.Endpoint)
		return s3Store, nil
	}
}

func initPostgresStores(dsn string, cfg *config.Config, s3Factory func() (bundlerepo.Store, error)) (*gatewayStores, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	bundleStore, err := chooseBundleStore(cfg, bundlerepo.NewMemoryStore(), "in-memory", s3Factory)
	if err != nil {
		return nil, err
	}
	return &gatewayStores{
		generations: generationrepo.NewPostgresStore(db),
		prefs:       prefsrepo.NewPostgresStore(db),
		bundles:     bundleStore,
	}, nil
}

func initInMemoryStores(cfg *config.Config, s3Factory func() (bundlerepo.Store, error)) (*gatewayStores, error) {
	bundleStore, err := chooseBundleStore(cfg, bundlerepo.NewMemoryStore(), "in-memory", s3Factory)
	if err != nil {
		return nil, err
	}
	return &gatewayStores{
		generations: generationrepo.NewMemoryStore(),
		prefs:       prefsrepo.NewMemoryStore(),
		bundles:     bundleStore,
	}, nil
}

func chooseBundleStore(
	cfg *config.Config,
	fallback bundlerepo.Store,
	fallbackLabel string,
	s3Factory func() (bundlerepo.Store, error),
) (bundlerepo.Store, error) {
	var origin bundlerepo.Store
	if cfg.Archive.CanUseS3() {
		s3Store, err := s3Factory()
		if err != nil {
			return nil, err
		}
		origin = s3Store
	} else {
		if cfg.Archive.Enabled {
			log.Printf("bundle store: using %s fallback (s3 config incomplete)", fallbackLabel)
		}
		origin = fallback
	}
	if origin == nil {
		return nil, fmt.Errorf("bundle origin store is nil")
	}
	return bundlerepo.NewCachedStore(origin)
}
