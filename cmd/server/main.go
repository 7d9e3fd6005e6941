package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ignatzorin/portfolio-backend/internal/config"
	"github.com/ignatzorin/portfolio-backend/internal/content"
	"github.com/ignatzorin/portfolio-backend/internal/goroutine"
	httpHandlers "github.com/ignatzorin/portfolio-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/portfolio-backend/internal/http/router"
	"github.com/ignatzorin/portfolio-backend/internal/loader"
	"github.com/ignatzorin/portfolio-backend/internal/logger"
	"github.com/ignatzorin/portfolio-backend/internal/models"
	"github.com/ignatzorin/portfolio-backend/internal/persist"
	"github.com/ignatzorin/portfolio-backend/internal/render"
	"github.com/ignatzorin/portfolio-backend/internal/service"
	"github.com/ignatzorin/portfolio-backend/internal/skeleton"
	"github.com/ignatzorin/portfolio-backend/internal/storage"
	"github.com/ignatzorin/portfolio-backend/internal/watch"
	"github.com/ignatzorin/portfolio-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Хранилище контента и вебсокеты.
	store := content.NewStore()

	hub := ws.NewHub()
	go hub.Run()

	// Менеджер скелетонов шлёт события подключённым вкладкам.
	skeletons := skeleton.NewManager(skeleton.StaticProvider{}, hub)
	renderer := render.New(skeletons)

	// Источник документов: удалённый origin или локальный каталог.
	var fetcher loader.Fetcher
	if cfg.ContentOrigin != "" {
		fetcher = loader.NewHTTPFetcher(cfg.ContentOrigin)
	} else {
		fetcher = loader.NewDiskFetcher(cfg.DataDir)
	}

	contentLoader := loader.New(fetcher, store, cfg.Loader)
	contentLoader.OnWarn(func(pending []string) {
		skeletons.Announcer().Warn("Загрузка контента занимает больше времени, чем обычно")
	})

	// Бэкенд сохранения: прокси > GitHub > локальный диск.
	backend := persist.New(cfg)

	mediaStorage, err := storage.NewMediaStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	authService := service.NewAuthService(cfg.AdminLogin, cfg.AdminPasswordHash, tokenManager)
	cmsService := service.NewCMSService(store, backend)

	// Первичная загрузка: секции показывают скелетоны, пока документы
	// не приедут; критический сбой оставляет страницу на скелетонах.
	goroutine.SafeGoWithContext(ctx, func(ctx context.Context) {
		for _, section := range models.SectionNames {
			skeletons.ShowSkeleton(section)
		}

		outcome, err := contentLoader.LoadAll(ctx)
		if err != nil {
			if errors.Is(err, loader.ErrCriticalLoad) {
				log.Printf("main: критический сбой загрузки контента: %v", err)
			}
			for _, section := range models.SectionNames {
				skeletons.ShowErrorSkeleton(section, string(loader.KindNetwork))
			}
			return
		}

		if outcome.Status == loader.StatusDegraded {
			logger.Component("main").WithField("failed", outcome.FailedFiles).Warn("Часть документов не загрузилась")
		}

		renderer.PopulateAll(store.Snapshot())
		// Секции с непогруженными документами переводятся в error-скелетон
		// своего вида отказа; загруженные остаются как есть.
		for section, kind := range outcome.FailedSections() {
			skeletons.ShowErrorSkeleton(section, string(kind))
		}
		cmsService.Load()
	})

	// Горячая перезагрузка локальных файлов данных.
	watcher := watch.NewWatcher(cfg.DataDir, store, hub)
	goroutine.SafeGoWithContext(ctx, func(ctx context.Context) {
		if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Component("main").WithError(err).Warn("Наблюдатель каталога данных остановился")
		}
	})

	// HTTP хэндлеры.
	pageHandler := httpHandlers.NewPageHandler(store, renderer, skeletons)
	contentHandler := httpHandlers.NewContentHandler(store)
	saveHandler := httpHandlers.NewSaveHandler(store, backend)
	proxyHandler := httpHandlers.NewProxyHandler()
	loaderHandler := httpHandlers.NewLoaderHandler(contentLoader, store, renderer, skeletons)
	cmsHandler := httpHandlers.NewCMSHandler(cmsService)
	authHandler := httpHandlers.NewAuthHandler(authService)
	mediaHandler := httpHandlers.NewMediaHandler(mediaStorage)
	wsHandler := httpHandlers.NewWSHandler(hub, cfg.AllowedOrigins)
	healthHandler := httpHandlers.NewHealthHandler(store)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, pageHandler, contentHandler, saveHandler, proxyHandler, loaderHandler, cmsHandler, authHandler, mediaHandler, wsHandler, healthHandler, authService)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}
