package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/ogurasousui/codex-employee-api/internal/platform/config"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const readHeaderTimeout = 10 * time.Second

// Server は HTTP API サーバーと gRPC ヘルスチェックサーバーのライフサイクルを管理します。
type Server struct {
	listenAddr      string
	grpcListenAddr  string
	shutdownTimeout time.Duration
	httpServer      *http.Server
	grpcServer      *grpc.Server
	health          *health.Server
	log             zerolog.Logger
}

// New は HTTP ハンドラを公開するサーバーを構築します。
func New(cfg config.ServerConfig, handler http.Handler, log zerolog.Logger, opts ...grpc.ServerOption) *Server {
	grpcServer := grpc.NewServer(opts...)
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	return &Server{
		listenAddr:      cfg.ListenAddr,
		grpcListenAddr:  cfg.GRPCListenAddr,
		shutdownTimeout: cfg.ShutdownTimeout,
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		grpcServer: grpcServer,
		health:     healthServer,
		log:        log,
	}
}

// Run は設定されたアドレスで待ち受け、コンテキストがキャンセルされるまでサーバーを動かします。
func (s *Server) Run(ctx context.Context) error {
	httpLis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}

	var grpcLis net.Listener
	if s.grpcListenAddr != "" {
		grpcLis, err = net.Listen("tcp", s.grpcListenAddr)
		if err != nil {
			_ = httpLis.Close()
			return fmt.Errorf("listen on %s: %w", s.grpcListenAddr, err)
		}
	}

	return s.Serve(ctx, httpLis, grpcLis)
}

// Serve は受け取ったリスナーでサーバーを起動します。grpcLis が nil の場合 gRPC は起動しません。
// コンテキストがキャンセルされると shutdownTimeout の範囲でグレースフルに停止します。
func (s *Server) Serve(ctx context.Context, httpLis, grpcLis net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info().Str("addr", httpLis.Addr().String()).Msg("HTTP server listening")
		if err := s.httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve HTTP: %w", err)
		}
		return nil
	})

	if grpcLis != nil {
		s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		g.Go(func() error {
			s.log.Info().Str("addr", grpcLis.Addr().String()).Msg("gRPC health server listening")
			if err := s.grpcServer.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("serve gRPC: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})

	return g.Wait()
}

func (s *Server) shutdown() error {
	s.log.Info().Dur("timeout", s.shutdownTimeout).Msg("shutting down")
	s.health.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()

	err := s.httpServer.Shutdown(ctx)

	select {
	case <-stopped:
	case <-ctx.Done():
		s.grpcServer.Stop()
	}

	if err != nil {
		return fmt.Errorf("shutdown HTTP: %w", err)
	}
	return nil
}
