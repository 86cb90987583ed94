// Package cli wires the codepad commands.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sprite-ai/codepad/internal/config"
	"github.com/sprite-ai/codepad/internal/gateway"
	"github.com/sprite-ai/codepad/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "codepad",
	Short: "A multi-file code editor with AI completion and analysis",
	Long: `codepad holds a set of in-memory source files and asks hosted
language models to complete code and to review the active file.

Set TOGETHER_API_KEY for completion and GROQ_API_KEY for analysis.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", defaultConfigPath(), "path to config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd, editCmd, completeCmd, analyzeCmd, configCmd, versionCmd)
}

// exitCodeError ends the process with a specific status without printing.
type exitCodeError int

func (e exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", int(e))
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	var code exitCodeError
	if err != nil && !errors.As(err, &code) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

// ExitCode maps an Execute error to a process exit status.
func ExitCode(err error) int {
	var code exitCodeError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &code):
		return int(code)
	default:
		return 1
	}
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "codepad", "config.yaml")
}

// loadConfig reads and validates the config named by --config.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// newLogger builds the stderr logger from config and --verbose.
func newLogger(cmd *cobra.Command, cfg *config.Config) (*zap.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return logging.New(cfg.Logging.Level, verbose, cfg.Logging.Format)
}

// newGateway builds the provider adapters from config. reg may be nil.
func newGateway(cfg *config.Config, log *zap.Logger, reg prometheus.Registerer) *gateway.Gateway {
	for _, env := range cfg.MissingKeys() {
		log.Warn("provider API key not set; calls will fail", zap.String("env", env))
	}

	opts := []gateway.Option{
		gateway.WithLogger(log),
		gateway.WithMaxCodeBytes(cfg.Limits.MaxCodeBytes),
	}
	if reg != nil {
		opts = append(opts, gateway.WithMetrics(gateway.NewMetrics(reg)))
	}
	return gateway.New(provider(cfg.Completion), provider(cfg.Analysis), opts...)
}

func provider(p config.ProviderConfig) gateway.Provider {
	return gateway.Provider{
		BaseURL: p.BaseURL,
		Model:   p.Model,
		APIKey:  p.APIKey,
		Timeout: p.TimeoutDuration(),
	}
}
