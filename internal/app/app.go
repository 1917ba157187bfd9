package app

import (
	"context"
	"fmt"

	"github.com/templui/folio/internal/config"
	"github.com/templui/folio/internal/markdown"
	"github.com/templui/folio/internal/repository"
	"github.com/templui/folio/internal/service"
	"github.com/templui/folio/internal/storage"
)

type App struct {
	Cfg            *config.Config
	Storage        storage.Storage
	ArtworkService *service.ArtworkService
	GalleryService *service.GalleryService
	AuthService    *service.AuthService

	artworkRepository interface{ Close() error }
	cancelWatch       context.CancelFunc
}

func New(cfg *config.Config) (*App, error) {
	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Repositories
	artworkRepository := repository.NewArtworkRepository(cfg.RecordsPath)

	watchCtx, cancel := context.WithCancel(context.Background())
	if cfg.WatchRecords {
		err = artworkRepository.Watch(watchCtx)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed to watch records file: %v", err)
		}
	}

	// Services
	artworkService := service.NewArtworkService(artworkRepository, fileStorage, cfg.MaxUploadSize)
	galleryService := service.NewGalleryService(artworkService, markdown.NewParser())
	authService := service.NewAuthService(
		cfg.AdminPasswordHash,
		cfg.AdminPassword,
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.IsProduction(),
	)

	return &App{
		Cfg:               cfg,
		Storage:           fileStorage,
		ArtworkService:    artworkService,
		GalleryService:    galleryService,
		AuthService:       authService,
		artworkRepository: artworkRepository,
		cancelWatch:       cancel,
	}, nil
}

func (a *App) Close() error {
	if a.cancelWatch != nil {
		a.cancelWatch()
	}
	if a.artworkRepository != nil {
		return a.artworkRepository.Close()
	}
	return nil
}
