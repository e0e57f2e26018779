package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"jobmate/alignment-service/internal/employment"
	"jobmate/alignment-service/internal/grpcserver"
	"jobmate/alignment-service/internal/scheduler"
)

var serveSeedFile string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and gRPC servers",
	Long: `Start the REST API, the gRPC AlignmentService and, unless RECALC_SCHEDULE
is empty, the periodic recalculation of every employment record.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveSeedFile, "seed", "", "import reference titles from this file before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	logger := a.logger

	if serveSeedFile != "" {
		if _, err := a.seedFrom(ctx, serveSeedFile); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	svc := a.service(
		employment.WithCheckLimiter(employment.NewCheckLimiter(a.cfg.CheckRatePerSec, a.cfg.CheckBurst)),
	)

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	employment.NewHandler(svc, logger.With("component", "http")).RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", a.cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// ── Scheduler ────────────────────────────────────────────────────────────
	var sched *scheduler.Scheduler
	if a.cfg.RecalcSchedule != "" {
		sched = scheduler.New(svc, a.progress(), a.cfg.RecalcSchedule, logger.With("component", "scheduler"))
		if err := sched.Start(ctx); err != nil {
			return err
		}
	}

	// ── gRPC server ──────────────────────────────────────────────────────────
	gs, hs := grpcserver.New(svc, logger.With("component", "grpc"))
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", a.cfg.GRPCPort))
	if err != nil {
		if sched != nil {
			sched.Stop(ctx)
		}
		return fmt.Errorf("grpc listen: %w", err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP listening", "version", version, "port", a.cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("gRPC listening", "port", a.cfg.GRPCPort)
		return gs.Serve(lis)
	})

	// ── Graceful shutdown ────────────────────────────────────────────────────
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
		if sched != nil {
			sched.Stop(shutdownCtx)
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("HTTP shutdown", "err", err)
		}
		gs.GracefulStop()
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("stopped")
	return nil
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "alignment-service",
		"version": version,
	})
}
