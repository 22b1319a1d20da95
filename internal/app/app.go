package app

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"meetblog/internal/apiclient"
	httpapp "meetblog/internal/app/http"
	"meetblog/internal/config"
	"meetblog/internal/domain/models"
	"meetblog/internal/repository"
	"meetblog/internal/services/auth"
	contentservice "meetblog/internal/services/content_service"
	tokenservice "meetblog/internal/services/token_service"
	storage "meetblog/internal/storage/filestorage"
	"meetblog/internal/storage/kv"
	httprouters "meetblog/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server
}

func New(log *slog.Logger, cfg *config.Config) *App {
	// One redis client backs both the content store and the refresh token
	// storage.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	store := kv.NewRedisStoreWithClient(redisClient)
	client := apiclient.New(log, cfg.RemoteAPI.BaseURL, cfg.RemoteAPI.Timeout)

	repo, err := repository.New(context.Background(), log, cfg.Content.Backend, store, client, cfg.RemoteAPI.PageSize)
	if err != nil {
		panic(err)
	}

	contentService := contentservice.NewContentService(log, repo, cfg.BaseURL)

	tokenRepo := repository.NewRedisTokenRepo(redisClient)
	tokenService := tokenservice.NewTokenService(tokenRepo, cfg.Auth.Secret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)

	admin := models.AdminUser{
		ID:       "admin",
		Email:    cfg.Auth.AdminEmail,
		PassHash: []byte(cfg.Auth.AdminPassHash),
	}
	authService := auth.New(log, admin, tokenService)

	var files storage.FileStorage
	if cfg.Content.Backend == repository.BackendRemote {
		files = storage.NewRemoteFileStorage(client)
	} else {
		files, err = storage.NewLocalFileStorage(cfg.FileStorage.BaseDir, cfg.FileStorage.BaseURL)
		if err != nil {
			panic(err)
		}
	}

	routers := httprouters.NewRouter(log, contentService, authService, files)

	server := httpapp.New(log, cfg.Auth.Secret, cfg.HTTP.Host, cfg.HTTP.Port,
		cfg.FileStorage.BaseDir, cfg.FileStorage.BaseURL, routers)
	server.BuildRouters()

	return &App{HTTPServer: server}
}
