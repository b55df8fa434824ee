package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/thereayou/relyexchange/internal/config"
	"github.com/thereayou/relyexchange/internal/database"
	"github.com/thereayou/relyexchange/internal/handlers"
	"github.com/thereayou/relyexchange/internal/notify"
	"github.com/thereayou/relyexchange/internal/services"
	"github.com/thereayou/relyexchange/internal/storage"
	"github.com/thereayou/relyexchange/pkg/auth"
)

type Server struct {
	Config     *config.Config
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	Hub        *notify.Hub
	JWTManager *auth.JWTManager
	logger     *slog.Logger
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// openRedis parses rawURL and checks the server answers. The client is
// closed again when it does not.
func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (srv *Server, err error) {
	dbConn := &database.Database{}
	if err := dbConn.Connect(cfg.DatabaseURL); err != nil {
		return nil, err
	}

	var rdb *redis.Client
	defer func() {
		if err == nil {
			return
		}
		if rdb != nil {
			_ = rdb.Close()
		}
		if cerr := dbConn.Close(); cerr != nil {
			logger.Warn("close database", "error", cerr)
		}
	}()

	rdb, err = openRedis(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}

	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	blacklist := auth.NewBlacklist(rdb)

	var blobs services.BlobStore
	if cfg.BlobStoreEnabled() {
		s3Store, err := storage.NewS3Store(ctx, storage.Config{
			URL:        cfg.S3URL,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			Region:     cfg.S3Region,
			PresignTTL: cfg.PresignTTL,
		}, rdb, logger)
		if err != nil {
			return nil, err
		}
		blobs = s3Store
	} else {
		logger.Warn("S3 is not configured, post attachments are disabled")
	}

	hub := notify.NewHub(logger)
	go hub.Run()

	userSvc := services.NewUserService(dbConn, jwtMgr, logger)
	contactSvc := services.NewContactService(dbConn, logger)
	postSvc := services.NewPostService(dbConn, blobs, cfg.S3Bucket, hub, logger)
	commentSvc := services.NewCommentService(dbConn, hub, logger)

	gin.SetMode(cfg.GinMode)
	router := gin.New()

	APIEndpoints(router, Endpoints{
		Auth:     handlers.NewAuthHandler(userSvc, jwtMgr, blacklist),
		Users:    handlers.NewUserHandler(userSvc),
		Contacts: handlers.NewContactHandler(contactSvc),
		Posts:    handlers.NewPostHandler(postSvc),
		Comments: handlers.NewCommentHandler(commentSvc),
		WS:       handlers.NewWebSocketHandler(hub),
		Health: handlers.NewHealthHandler(map[string]handlers.Pinger{
			"postgres": dbConn,
			"redis":    redisPinger{client: rdb},
		}),
		JWT:       jwtMgr,
		Blacklist: blacklist,
		Logger:    logger,
	})

	return &Server{
		Config:     cfg,
		Router:     router,
		DB:         dbConn,
		Redis:      rdb,
		Hub:        hub,
		JWTManager: jwtMgr,
		logger:     logger,
	}, nil
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.Config.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "port", s.Config.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	s.Hub.Stop()
	err := srv.Shutdown(shutdownCtx)

	if cerr := s.Redis.Close(); cerr != nil {
		s.logger.Warn("redis close", "error", cerr)
	}
	if cerr := s.DB.Close(); cerr != nil {
		s.logger.Warn("postgres close", "error", cerr)
	}
	return err
}
