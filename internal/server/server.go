package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/config"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/handler"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/router"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/usecase"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/ws"
)

const (
	serviceName       = "ebanking.portal"
	heartbeatInterval = 30 * time.Second
)

// Server runs the portal HTTP API and the gRPC health endpoint.
type Server struct {
	cfg      *config.Config
	logger   *zap.Logger
	backends *backends
	manager  *ws.Manager
	http     *http.Server
	grpc     *grpc.Server
	health   *health.Server
}

// New connects the configured backends and wires use cases, handlers and
// routes. Close must be called when New succeeds.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	b, err := openBackends(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	sim := simulationOptions(cfg.Simulation)
	manager := ws.NewManager(logger)

	notifUC := usecase.NewNotificationUsecase(b.notifications, manager, logger, sim...)
	billUC := usecase.NewBillUsecase(b.catalog, b.accounts, b.ledger, notifUC, b.publisher, logger, sim...)
	fundsUC := usecase.NewFundsUsecase(b.accounts, b.limits, b.ledger, b.verifier, b.issuer, notifUC, b.publisher, cfg.Limits, logger, sim...)
	investUC := usecase.NewInvestmentUsecase(b.catalog, b.accounts, b.investments, b.verifier, notifUC, b.publisher, logger, sim...)
	reclamationUC := usecase.NewReclamationUsecase(b.tenant, notifUC, b.publisher, logger)
	authUC := usecase.NewAuthUsecase(b.tenant, logger)
	sessions := usecase.NewSessionVerifier([]byte(cfg.Session.JWTSecret), b.tenant, cfg.Session.IdentityTTL, nil, logger)

	routes := router.SetupRoutes(router.Handlers{
		Bills:         handler.NewBillHandler(billUC, logger),
		Funds:         handler.NewFundsHandler(fundsUC, logger),
		Investments:   handler.NewInvestmentHandler(investUC, logger),
		Notifications: handler.NewNotificationHandler(notifUC, manager, cfg.Server.CORSOrigins, logger),
		Reclamations:  handler.NewReclamationHandler(reclamationUC, logger),
		Auth:          handler.NewAuthHandler(authUC, cfg.Session.CookieName, cfg.Session.Secure, logger),
		Health:        handler.NewHealthHandler(b.checks),
	}, router.Options{
		CookieName:     cfg.Session.CookieName,
		Sessions:       sessions,
		AllowedOrigins: cfg.Server.CORSOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
	}, logger)

	grpcServer := grpc.NewServer(
		grpc.KeepaliveParams(keepalive.ServerParameters{
			MaxConnectionIdle: 15 * time.Minute,
			Time:              5 * time.Minute,
			Timeout:           time.Minute,
		}),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	reflection.Register(grpcServer)

	return &Server{
		cfg:      cfg,
		logger:   logger,
		backends: b,
		manager:  manager,
		http: &http.Server{
			Addr:              cfg.Server.HTTPAddr,
			Handler:           routes,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		grpc:   grpcServer,
		health: hs,
	}, nil
}

// Run serves until ctx is cancelled, then shuts both listeners down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.cfg.Server.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Server.GRPCAddr, err)
	}

	stop := make(chan struct{})
	go s.manager.Heartbeat(heartbeatInterval, stop)
	defer close(stop)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("http server listening", zap.String("addr", s.cfg.Server.HTTPAddr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.logger.Info("grpc server listening", zap.String("addr", s.cfg.Server.GRPCAddr))
		s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		s.health.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
		if err := s.grpc.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down servers")
		s.health.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()

		s.manager.CloseAll()
		err := s.http.Shutdown(shutdownCtx)
		s.grpc.GracefulStop()
		return err
	})

	return g.Wait()
}

// Close releases the backends opened by New.
func (s *Server) Close() {
	s.backends.close()
}
