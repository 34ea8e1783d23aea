package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/config"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/server"
)

func main() {
	logger, err := newLogger()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("starting e-banking portal service")

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	logger.Info("configuration loaded",
		zap.String("environment", cfg.Server.Env),
		zap.String("http_addr", cfg.Server.HTTPAddr),
		zap.String("grpc_addr", cfg.Server.GRPCAddr),
		zap.String("otp_mode", cfg.OTP.Mode),
		zap.Float64("fault_rate", cfg.Simulation.FaultRate))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize server", zap.Error(err))
	}
	defer srv.Close()

	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		srv.Close()
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// newLogger picks the production encoder unless ENV says otherwise. It runs
// before config.Load so it reads the variable directly.
func newLogger() (*zap.Logger, error) {
	if env := os.Getenv("ENV"); env != "" && env != "production" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
