package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sprite-ai/codepad/internal/gateway"
	"github.com/sprite-ai/codepad/internal/model"
	"github.com/sprite-ai/codepad/internal/source"
)

const maxParallelAnalyses = 4

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>...",
	Short: "Analyze source files and print a report (non-interactive)",
	Long: `Send each file to the analysis provider and print the issues and
suggestions it reports. Useful for CI and pre-commit hooks.

Exit codes:
  0  clean, or informational issues only
  1  warnings found
  2  errors found`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringP("format", "f", "text", "output format: text, json, markdown")
	analyzeCmd.Flags().StringP("language", "l", "", "language for all files (default: detect from name)")
}

// fileReport is the analysis of one file.
type fileReport struct {
	Path     string
	Language string
	Result   model.AnalysisResponse
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "text", "json", "markdown":
	default:
		return fmt.Errorf("unknown format %q (valid: text, json, markdown)", format)
	}
	language, _ := cmd.Flags().GetString("language")

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

	reports, err := analyzeFiles(cmd, gw, args, language)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		err = outputJSON(out, reports)
	case "markdown":
		err = outputMarkdown(out, reports)
	default:
		err = outputText(out, reports)
	}
	if err != nil {
		return err
	}

	if code := exitCodeFor(reports); code != 0 {
		return exitCodeError(code)
	}
	return nil
}

// analyzeFiles runs the analyses concurrently and returns reports in
// argument order. The first failure cancels the rest.
func analyzeFiles(cmd *cobra.Command, a gateway.Analyzer, paths []string, language string) ([]fileReport, error) {
	reports := make([]fileReport, len(paths))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(maxParallelAnalyses)
	for i, path := range paths {
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			lang := source.NormalizeLanguage(language)
			if language == "" {
				lang = source.DetectLanguage(path)
			}
			if strings.TrimSpace(string(data)) == "" {
				reports[i] = fileReport{Path: path, Language: lang}
				return nil
			}

			resp, err := a.Analyze(ctx, model.AnalysisRequest{Code: string(data), Language: lang})
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			reports[i] = fileReport{Path: path, Language: lang, Result: resp}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func exitCodeFor(reports []fileReport) int {
	max := model.SeverityInfo
	for _, r := range reports {
		if s := r.Result.MaxSeverity(); s > max {
			max = s
		}
	}
	switch max {
	case model.SeverityError:
		return 2
	case model.SeverityWarning:
		return 1
	default:
		return 0
	}
}

func outputText(w io.Writer, reports []fileReport) error {
	for _, r := range reports {
		fmt.Fprintf(w, "%s (%s): %s\n", r.Path, r.Language, r.Result.Summary())
		for _, is := range r.Result.Issues {
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", severityIcon(is.Severity), r.Path, is.Line, is.Column, is.Message)
		}
		for _, sg := range r.Result.Suggestions {
			fmt.Fprintf(w, "  + %s:%d:%d: %s\n", r.Path, sg.Line, sg.Column, sg.Message)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func outputJSON(w io.Writer, reports []fileReport) error {
	type jsonFile struct {
		Path        string             `json:"path"`
		Language    string             `json:"language"`
		Summary     string             `json:"summary"`
		MaxSeverity string             `json:"max_severity"`
		Issues      []model.Issue      `json:"issues"`
		Suggestions []model.Suggestion `json:"suggestions"`
	}

	type jsonOutput struct {
		Files []jsonFile `json:"files"`
		Total int        `json:"total"`
	}

	out := jsonOutput{Files: []jsonFile{}}
	for _, r := range reports {
		f := jsonFile{
			Path:        r.Path,
			Language:    r.Language,
			Summary:     r.Result.Summary(),
			MaxSeverity: r.Result.MaxSeverity().String(),
			Issues:      r.Result.Issues,
			Suggestions: r.Result.Suggestions,
		}
		if f.Issues == nil {
			f.Issues = []model.Issue{}
		}
		if f.Suggestions == nil {
			f.Suggestions = []model.Suggestion{}
		}
		out.Files = append(out.Files, f)
		out.Total += len(f.Issues)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func outputMarkdown(w io.Writer, reports []fileReport) error {
	fmt.Fprintf(w, "## Analysis Report\n\n")
	for _, r := range reports {
		fmt.Fprintf(w, "### `%s`\n\n", r.Path)
		fmt.Fprintf(w, "**Language:** %s | **Summary:** %s\n\n", r.Language, r.Result.Summary())
		if r.Result.Empty() {
			continue
		}

		fmt.Fprintln(w, "| Severity | Location | Message |")
		fmt.Fprintln(w, "|----------|----------|---------|")
		for _, is := range r.Result.Issues {
			fmt.Fprintf(w, "| %s | `%d:%d` | %s |\n", is.Severity, is.Line, is.Column, escapeCell(is.Message))
		}
		for _, sg := range r.Result.Suggestions {
			fmt.Fprintf(w, "| suggestion | `%d:%d` | %s |\n", sg.Line, sg.Column, escapeCell(sg.Message))
		}
		fmt.Fprintln(w)
	}
	return nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func severityIcon(s model.Severity) string {
	switch s {
	case model.SeverityError:
		return "!!"
	case model.SeverityWarning:
		return "! "
	default:
		return "- "
	}
}
