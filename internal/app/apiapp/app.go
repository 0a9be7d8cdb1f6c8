package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/okazarov/sitecms/internal/config"
	"github.com/okazarov/sitecms/internal/infra/httpclient"
	"github.com/okazarov/sitecms/internal/infra/mail"
	s3infra "github.com/okazarov/sitecms/internal/infra/s3"
	"github.com/okazarov/sitecms/internal/jobs/cleanup"
	pgrepo "github.com/okazarov/sitecms/internal/repo/postgres"
	redrepo "github.com/okazarov/sitecms/internal/repo/redis"
	authsvc "github.com/okazarov/sitecms/internal/services/auth"
	mediasvc "github.com/okazarov/sitecms/internal/services/media"
	pagesvc "github.com/okazarov/sitecms/internal/services/pages"
	postsvc "github.com/okazarov/sitecms/internal/services/posts"
	videosvc "github.com/okazarov/sitecms/internal/services/videos"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	cleanupJob *cleanup.Job
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, pgrepo.PoolConfig{
		DSN:             cfg.Postgres.DSN,
		MaxConns:        cfg.Postgres.MaxConns,
		MinConns:        cfg.Postgres.MinConns,
		MaxConnLifetime: cfg.Postgres.MaxConnLifetime,
		PingTimeout:     cfg.Postgres.PingTimeout,
	}); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	sessionRepo := redrepo.NewSessionRepo(redisClient)
	codeRepo := redrepo.NewCodeRepo(redisClient)
	cacheRepo := redrepo.NewCacheRepo(redisClient, cfg.Cache.ListTTL)

	postRepo := pgrepo.NewPostRepo(pool)
	corporateVideoRepo := pgrepo.NewCorporateVideoRepo(pool)
	reelRepo := pgrepo.NewReelRepo(pool)
	teamVideoRepo := pgrepo.NewTeamVideoRepo(pool)
	testimonialRepo := pgrepo.NewTestimonialRepo(pool)
	blogRepo := pgrepo.NewBlogRepo(pool)
	servicePageRepo := pgrepo.NewServicePageRepo(pool)
	adminUserRepo := pgrepo.NewAdminUserRepo(pool)
	assetRepo := pgrepo.NewAssetRepo(pool)

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Region:    cfg.S3.Region,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
	}

	mediaStorage := mediasvc.NewS3Storage(s3Client, cfg.S3.Bucket, cfg.S3.PublicBaseURL)
	mediaService := mediasvc.NewService(mediaStorage, assetRepo, mediasvc.Config{
		AllowedTypes: cfg.Upload.AllowedTypes,
		MaxBytes:     cfg.Upload.MaxBytes,
	})

	mailClient := mail.NewClient(cfg.Mail.APIURL, cfg.Mail.APIKey, cfg.Mail.From, httpclient.New(0))
	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := authsvc.NewService(jwtManager, adminUserRepo, sessionRepo, codeRepo, mailClient, authsvc.Config{
		ResetCodeTTL: cfg.Auth.ResetCodeTTL,
		MaxAttempts:  cfg.Auth.MaxAttempts,
		LockDuration: cfg.Auth.LockDuration,
		MailSubject:  cfg.Mail.Subject,
	}, log)

	postsService := postsvc.NewService(postRepo, mediaService, log)
	postsService.AttachCache(cacheRepo)
	videoService := videosvc.NewService(corporateVideoRepo, reelRepo, teamVideoRepo, mediaService, log)
	videoService.AttachCache(cacheRepo)
	pageService := pagesvc.NewService(blogRepo, testimonialRepo, servicePageRepo, mediaService, log)
	pageService.AttachCache(cacheRepo)

	cleanupJob := cleanup.New(assetRepo, mediaStorage, cfg.Cleanup.Retention, log)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		AuthService:  authService,
		PostsService: postsService,
		VideoService: videoService,
		PageService:  pageService,
		Logger:       log,
		Config:       cfg,
	})

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		cleanupJob: cleanupJob,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// StartCleanup launches the periodic orphaned-asset sweep; it stops when
// the context is cancelled.
func (a *App) StartCleanup(ctx context.Context) {
	go a.cleanupJob.RunPeriodic(ctx, a.cfg.Cleanup.Interval)
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
