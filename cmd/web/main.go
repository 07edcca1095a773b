package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/donseba/go-htmx"
	"github.com/joho/godotenv"
	"github.com/memora-app/memora/internal/envstruct"
	"github.com/memora-app/memora/internal/errors"
	"github.com/memora-app/memora/internal/feed"
	"github.com/memora-app/memora/internal/logging"
	"github.com/memora-app/memora/internal/objectstore"
	"github.com/memora-app/memora/internal/pprofserver"
	"github.com/memora-app/memora/internal/repositories"
	"github.com/memora-app/memora/internal/sqlite"
	"github.com/memora-app/memora/internal/workflow"
)

type config struct {
	Addr           string        `env:"MEMORA_ADDR" envDefault:"localhost:4000"`
	PprofPort      string        `env:"MEMORA_PPROF_PORT" envDefault:":6060"`
	SQLiteURL      string        `env:"MEMORA_SQLITE_URL" envDefault:"./memora.sqlite"`
	ObjectStore    string        `env:"MEMORA_OBJECT_STORE" envDefault:"minio"`
	MinioEndpoint  string        `env:"MEMORA_MINIO_ENDPOINT" envDefault:"localhost:9000"`
	MinioAccessKey string        `env:"MEMORA_MINIO_ACCESS_KEY" envDefault:"minioadmin"`
	MinioSecretKey string        `env:"MEMORA_MINIO_SECRET_KEY" envDefault:"minioadmin"`
	MinioBucket    string        `env:"MEMORA_MINIO_BUCKET" envDefault:"photos"`
	MinioUseSSL    bool          `env:"MEMORA_MINIO_USE_SSL" envDefault:"false"`
	PublicBaseURL  string        `env:"MEMORA_PUBLIC_BASE_URL" envDefault:"http://localhost:9000"`
	QuizInterval   int           `env:"MEMORA_QUIZ_INTERVAL" envDefault:"4"`
	FeedCooldown   time.Duration `env:"MEMORA_FEED_COOLDOWN" envDefault:"1s"`
	PatientName    string        `env:"MEMORA_PATIENT_NAME" envDefault:"Grandma Rosa"`
	FamilyMembers  string        `env:"MEMORA_FAMILY_MEMBERS" envDefault:"Sam,Maria,Leo"`
}

type application struct {
	logger         *slog.Logger
	cfg            config
	sessionManager *scs.SessionManager
	photos         *repositories.PhotoRepository
	objects        objectstore.Store
	uploader       workflow.Uploader
	workflows      *registry[*workflow.Machine]
	feeds          *registry[*feed.Paginator]
	htmx           *htmx.HTMX
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	// pprof listens on loopback so that it's not open to the world.
	pprofserver.Launch(cfg.PprofPort, logger)

	dbs, err := sqlite.NewDatabase(ctx, cfg.SQLiteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open database", slog.String("url", cfg.SQLiteURL))
	}
	defer func() {
		if err = dbs.Close(); err != nil {
			logger.LogAttrs(ctx, slog.LevelError, "close database", errors.SlogError(err))
		}
	}()

	var objects objectstore.Store
	switch cfg.ObjectStore {
	case "memory":
		objects = objectstore.NewMemoryStore(cfg.PublicBaseURL)
	case "minio":
		if objects, err = objectstore.NewMinioStore(ctx, objectstore.MinioConfig{
			Endpoint:      cfg.MinioEndpoint,
			AccessKey:     cfg.MinioAccessKey,
			SecretKey:     cfg.MinioSecretKey,
			Bucket:        cfg.MinioBucket,
			UseSSL:        cfg.MinioUseSSL,
			PublicBaseURL: cfg.PublicBaseURL,
		}, logger); err != nil {
			return errors.Wrap(err, "connect object store", slog.String("endpoint", cfg.MinioEndpoint))
		}
	default:
		return errors.New("unknown object store", slog.String("objectStore", cfg.ObjectStore))
	}

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(dbs.ReadWrite.DB, 24*time.Hour)
	sessionManager.Lifetime = 12 * time.Hour

	photos := repositories.NewPhotoRepository(dbs, logger)

	app := application{
		logger:         logger,
		cfg:            cfg,
		sessionManager: sessionManager,
		photos:         photos,
		objects:        objects,
		uploader: &storeUploader{
			objects: objects,
			photos:  photos,
			logger:  logger,
		},
		workflows: newRegistry[*workflow.Machine](),
		feeds:     newRegistry[*feed.Paginator](),
		htmx:      htmx.New(),
	}

	return app.configureAndStartServer(ctx, cfg.Addr)
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   true,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	ctx := context.Background()

	// A missing .env file is fine, the environment takes over.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.LogAttrs(ctx, slog.LevelError, "load .env", errors.SlogError(err))
		os.Exit(1)
	}

	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server failed", errors.SlogError(err))
		os.Exit(1)
	}
}
