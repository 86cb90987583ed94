package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/codepad/internal/model"
	"github.com/sprite-ai/codepad/internal/source"
)

var completeCmd = &cobra.Command{
	Use:   "complete [prompt]",
	Short: "Complete a prompt once and print the result",
	Long: `Send one prompt to the completion provider and print the completion.

Examples:
  codepad complete -l go 'func fib(n int) int {'
  cat partial.py | codepad complete -`,
	Args: cobra.ExactArgs(1),
	RunE: runComplete,
}

func init() {
	completeCmd.Flags().StringP("language", "l", "", "language of the prompt (default plaintext)")
	completeCmd.Flags().StringP("file", "f", "", "detect the language from this file name")
	completeCmd.Flags().Int("max-tokens", model.DefaultMaxTokens, "maximum tokens to generate")
	completeCmd.Flags().Float64("temperature", model.DefaultTemperature, "sampling temperature")
}

func runComplete(cmd *cobra.Command, args []string) error {
	prompt := args[0]
	if prompt == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		prompt = string(data)
	}
	if strings.TrimSpace(prompt) == "" {
		return fmt.Errorf("prompt is empty")
	}

	language, _ := cmd.Flags().GetString("language")
	if name, _ := cmd.Flags().GetString("file"); language == "" && name != "" {
		language = source.DetectLanguage(name)
	}
	maxTokens, _ := cmd.Flags().GetInt("max-tokens")
	temperature, _ := cmd.Flags().GetFloat64("temperature")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	gw := newGateway(cfg, log, nil)
	defer gw.Close()

	resp, err := gw.Complete(cmd.Context(), model.CompletionRequest{
		Prompt:      prompt,
		Language:    source.NormalizeLanguage(language),
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), resp.Completion)
	return nil
}
