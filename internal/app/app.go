package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pangea-chat/roomcode-server/internal/config"
	"github.com/pangea-chat/roomcode-server/internal/database"
	"github.com/pangea-chat/roomcode-server/internal/host"
	"github.com/pangea-chat/roomcode-server/internal/repository"
	"github.com/pangea-chat/roomcode-server/internal/server/rest"
	"github.com/pangea-chat/roomcode-server/internal/service"
	"github.com/pangea-chat/roomcode-server/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Run wires the application together and serves until interrupted.
func Run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgresDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	codeRepository := repository.NewPostgresCodeRepository(db)
	if err := codeRepository.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to prepare database: %w", err)
	}

	accessCodeService := service.NewAccessCodeService(codeRepository)
	knockService := service.NewKnockService(accessCodeService, host.NewClient(cfg.HomeserverURL, cfg.HomeserverToken))

	server := rest.NewServer(
		accessCodeService,
		knockService,
		cfg.Secret,
		rest.WithAddress(fmt.Sprintf("%s:%d", cfg.ServerAddress, cfg.ServerPort)),
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info(fmt.Sprintf("Server listening on %s", server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to run server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()

		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
