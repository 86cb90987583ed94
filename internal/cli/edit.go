package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sprite-ai/codepad/internal/logging"
	"github.com/sprite-ai/codepad/internal/model"
	"github.com/sprite-ai/codepad/internal/session"
	"github.com/sprite-ai/codepad/internal/tui"
	"github.com/sprite-ai/codepad/internal/workspace"
)

var editCmd = &cobra.Command{
	Use:   "edit [file]...",
	Short: "Open the terminal editor",
	Long: `Open the terminal editor. With no arguments the session starts with
the sample files; otherwise each named file is loaded into the session.
Edits live in memory and are not written back.

Examples:
  codepad edit
  codepad edit main.go util.go`,
	RunE: runEdit,
}

func init() {
	editCmd.Flags().String("log-file", filepath.Join(os.TempDir(), "codepad.log"), "where to write logs while the editor is open")
}

func runEdit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logPath, _ := cmd.Flags().GetString("log-file")
	verbose, _ := cmd.Flags().GetBool("verbose")
	log, err := logging.ToFile(logPath, cfg.Logging.Level, verbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, err := loadStore(args)
	if err != nil {
		return err
	}

	gw := newGateway(cfg, log, nil)
	defer gw.Close()

	ws := workspace.New(store, gw,
		workspace.WithLogger(log),
		workspace.WithIdentity(localIdentity()),
	)
	log.Info("editor started", zap.Int("files", store.Len()))
	return tui.Run(cmd.Context(), ws, cfg.Editor)
}

// loadStore builds the session: the sample files, or the named files with
// the first one active.
func loadStore(paths []string) (*session.Store, error) {
	if len(paths) == 0 {
		return session.NewStore(), nil
	}

	store := session.NewEmptyStore()
	var firstID string
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		f := store.OpenFile(path, string(data))
		if firstID == "" {
			firstID = f.ID
		}
	}
	store.Select(firstID)
	return store, nil
}

// localIdentity is the user running the editor. The terminal session is
// trusted, so it is always authenticated.
func localIdentity() model.Identity {
	id := model.Identity{Status: model.AuthAuthenticated}
	if name := os.Getenv("USER"); name != "" {
		id.User = &model.User{ID: name, Name: name}
	}
	return id
}
