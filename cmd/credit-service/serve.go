package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/shvark-credit-service/internal/app/background"
	"github.com/LavaJover/shvark-credit-service/internal/app/setup"
	"github.com/LavaJover/shvark-credit-service/internal/config"
	"github.com/LavaJover/shvark-credit-service/internal/delivery/grpcapi"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/postgres"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"gorm.io/gorm"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "serve",
		Short:        "Start the HTTP API and the gRPC health endpoint",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(parent context.Context, cfg *config.CreditConfig) error {
	zlog, err := logger.InitLogger(cfg.LogLevel, cfg.LogFormat, cfg.LogOutput)
	if err != nil {
		return err
	}
	defer zlog.Sync()

	db, err := openDatabase(cfg, zlog)
	if err != nil {
		return err
	}

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	deps, err := setup.InitializeDependencies(cfg, db, zlog)
	if err != nil {
		return err
	}
	defer func() {
		if err := deps.Close(); err != nil {
			zlog.Warn("failed to close dependencies", zap.Error(err))
		}
	}()
	uc := setup.InitializeUseCases(deps)

	httpServer := &http.Server{
		Addr:              net.JoinHostPort(cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:           setup.HTTPHandler(deps, uc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthServer := grpcapi.NewHealthServer()
	healthServer.Register(grpcServer)
	lis, err := net.Listen("tcp", net.JoinHostPort(cfg.GRPCServer.Host, cfg.GRPCServer.Port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	background.NewBackgroundTasks(deps.Store, healthServer, zlog).StartAll(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zlog.Info("http server started", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		zlog.Info("grpc server started", zap.String("addr", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zlog.Info("shutting down")
		healthServer.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		grpcServer.GracefulStop()
		return err
	})

	return g.Wait()
}

// openDatabase connects and brings the schema up to date. Postgres uses the
// versioned migrations unless auto_migrate is set; sqlite always auto-migrates.
func openDatabase(cfg *config.CreditConfig, zlog *zap.Logger) (*gorm.DB, error) {
	dbCfg := cfg.CreditDB
	if dbCfg.Driver == "sqlite" {
		dbCfg.AutoMigrate = true
	}

	db, err := postgres.Open(dbCfg)
	if err != nil {
		return nil, err
	}

	if !dbCfg.AutoMigrate {
		if err := migrate.RunMigrations(db, dbCfg.MigrationsPath, zlog); err != nil {
			return nil, err
		}
	}
	return db, nil
}
