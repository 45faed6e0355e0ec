package app

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"
	"smartshopping-go/internal/config"
	"smartshopping-go/internal/db"
	analyticsdomain "smartshopping-go/internal/domain/analytics"
	listsdomain "smartshopping-go/internal/domain/lists"
	"smartshopping-go/internal/domain/remote"
	"smartshopping-go/internal/domain/session"
	"smartshopping-go/internal/domain/shopping"
	templatesdomain "smartshopping-go/internal/domain/templates"
	"smartshopping-go/internal/repository/inmemory"
	"smartshopping-go/internal/repository/localcache"
	remoterepo "smartshopping-go/internal/repository/postgres/remote"
	sqliterepo "smartshopping-go/internal/repository/sqlite"
	"smartshopping-go/internal/repository/supabase"
	"smartshopping-go/internal/transport/httpserver"
	"smartshopping-go/internal/transport/httpserver/handler"
	commonhandler "smartshopping-go/internal/transport/httpserver/handler/common"
	"smartshopping-go/pkg/logger"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	cacheDB    *sql.DB
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	application := &App{cfg: cfg}

	log.Info("app: initializing data backend", "backend", cfg.DataBackend)
	ds, err := application.dataService(log)
	if err != nil {
		_ = application.Close()
		return nil, err
	}

	log.Info("app: initializing local cache", "backend", cfg.Cache.Backend)
	kv, err := application.cacheKV()
	if err != nil {
		_ = application.Close()
		return nil, err
	}

	sessions := session.ContextProvider{}
	registry := listsdomain.NewRegistry(func(userID string) *listsdomain.Store {
		storeLog := log.With("user_id", userID)
		cache := localcache.New(kv, localcache.KeyForUser(userID), storeLog)
		return listsdomain.NewStore(ds, sessions, cache, storeLog)
	})

	var builtin []shopping.Template
	if cfg.Templates.BuiltinEnabled {
		builtin, err = templatesdomain.Builtin()
		if err != nil {
			_ = application.Close()
			return nil, fmt.Errorf("load builtin templates: %w", err)
		}
	}
	templatesService := templatesdomain.NewService(ds, sessions, inmemory.NewInMemoryTemplatesCache(), log, templatesdomain.Options{
		Builtin:  builtin,
		CacheTTL: cfg.Templates.CacheTTL,
	})
	analyticsService := analyticsdomain.NewService(time.Local)

	log.Info("app: initializing router")
	handlers := handler.New(registry, templatesService, analyticsService, application.Backends(), log)
	router := httpserver.NewRouter(cfg, handlers, log)

	log.Info("app: initializing http server")
	application.httpServer = httpserver.New(cfg, router)
	return application, nil
}

func (a *App) dataService(log logger.Logger) (remote.DataService, error) {
	switch a.cfg.DataBackend {
	case config.BackendSupabase:
		return supabase.NewREST(a.cfg.Supabase), nil
	case config.BackendMemory:
		log.Warn("app: using in-memory data backend, data is lost on restart")
		return inmemory.NewInMemoryDataService(), nil
	default:
		dbConn, err := db.NewPostgres(a.cfg.DB, log)
		if err != nil {
			return nil, err
		}
		a.db = dbConn
		if err := db.Migrate(dbConn, log); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return remoterepo.NewPostgres(dbConn), nil
	}
}

func (a *App) cacheKV() (localcache.KV, error) {
	if a.cfg.Cache.Backend == config.CacheMemory {
		return inmemory.NewInMemoryKV(), nil
	}
	cacheDB, err := sqliterepo.Open(a.cfg.Cache.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	a.cacheDB = cacheDB
	return sqliterepo.NewKV(cacheDB), nil
}

// Backends reports the configured data and cache backends.
func (a *App) Backends() commonhandler.Backends {
	return commonhandler.Backends{Data: a.cfg.DataBackend, Cache: a.cfg.Cache.Backend}
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	var errs []error
	if a.cacheDB != nil {
		errs = append(errs, a.cacheDB.Close())
	}
	if a.db != nil {
		sqlDB, err := a.db.DB()
		if err != nil {
			errs = append(errs, err)
		} else {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
