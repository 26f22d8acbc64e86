package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/msomdec/o2o-admin/internal/config"
	"github.com/msomdec/o2o-admin/internal/domain"
	"github.com/msomdec/o2o-admin/internal/filestore"
	"github.com/msomdec/o2o-admin/internal/handler"
	"github.com/msomdec/o2o-admin/internal/imagestore"
	"github.com/msomdec/o2o-admin/internal/pkg/clock"
	"github.com/msomdec/o2o-admin/internal/repository/sqlite"
	"github.com/msomdec/o2o-admin/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	},
}

func serve(ctx context.Context, cfg *config.Config) error {
	timeout, err := cfg.ShutdownTimeout()
	if err != nil {
		return err
	}

	db, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	log.Info().Msg("database migrations applied")

	var files domain.FileStore
	switch cfg.Images.Backend {
	case config.BackendSQLite:
		files = db.FileStore()
	default:
		files = filestore.NewDisk(cfg.Images.Dir)
	}

	clk := clock.Real{}
	store := imagestore.New(files, clk)
	paths := imagestore.ShopPaths{Root: cfg.Images.Root}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	limiter := service.NewTokenBucket(clk, cfg.RateLimit.Rate, cfg.RateLimit.Burst)
	go limiter.RunPruner(ctx, 5*time.Minute, 10*time.Minute)

	gin.SetMode(gin.ReleaseMode)
	router := handler.NewEngine(handler.Deps{
		Products:       service.NewProductService(db.Products(), db.ProductImages(), store, paths, clk, log.Logger),
		Shops:          service.NewShopService(db.Shops(), db.Categories()),
		Areas:          service.NewAreaService(db.Areas()),
		Images:         store,
		Limiter:        limiter,
		MaxUploadBytes: cfg.Upload.MaxBytes,
		Logger:         log.Logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("images", cfg.Images.Backend).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
