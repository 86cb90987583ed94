package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sprite-ai/codepad/internal/api"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing completion, analysis and editing sessions.

Endpoints:
  GET  /health        Health check
  GET  /api/settings  Editor display settings
  POST /api/complete  Complete a prompt
  POST /api/analyze   Analyze a piece of code
  GET  /api/ws        WebSocket editing session
  GET  /metrics       Prometheus metrics

When server.token (or CODEPAD_SERVER_TOKEN) is set, AI calls require
"Authorization: Bearer <token>", or ?token= on the WebSocket.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "127.0.0.1", "address to listen on")
	serveCmd.Flags().IntP("port", "p", 6142, "port to listen on")
	serveCmd.Flags().Bool("empty", false, "start sessions without the sample files")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port, _ = cmd.Flags().GetInt("port")
	}

	log, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	gw := newGateway(cfg, log, reg)
	defer gw.Close()

	opts := []api.Option{
		api.WithLogger(log),
		api.WithToken(cfg.Server.Token),
		api.WithEditorSettings(cfg.Editor),
		api.WithRegistry(reg),
		api.WithMaxCodeBytes(cfg.Limits.MaxCodeBytes),
	}
	if empty, _ := cmd.Flags().GetBool("empty"); empty {
		opts = append(opts, api.WithEmptySessions())
	}
	srv := api.New(cfg.Server.Listen(), gw, opts...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error("server stopped", zap.Error(err))
		return err
	}
	return nil
}
