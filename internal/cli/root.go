package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/faizmokh/tudu/internal/config"
	"github.com/faizmokh/tudu/internal/files"
	"github.com/faizmokh/tudu/internal/logging"
	"github.com/faizmokh/tudu/internal/ui"
	"github.com/faizmokh/tudu/internal/version"
)

// runtime carries what every command needs once flags are parsed.
type runtime struct {
	manager *files.Manager
	cfg     *config.Config
	logger  *log.Logger

	fileFlag string
}

func newRuntime(manager *files.Manager, cfg *config.Config) *runtime {
	if cfg == nil {
		cfg = config.Default()
	}
	return &runtime{
		manager: manager,
		cfg:     cfg,
		logger:  logging.Discard(),
	}
}

// listPath resolves the list file from --file or the configured list name,
// creating it empty when missing.
func (r *runtime) listPath() (string, error) {
	name := r.fileFlag
	if name == "" {
		name = r.cfg.List
	}
	return r.manager.EnsureListFile(name)
}

func (r *runtime) logOptions() logging.Options {
	opts := logging.DefaultOptions()
	opts.Level = logging.ParseLevel(r.cfg.LogLevel)
	opts.Formatter = logging.ParseFormatter(r.cfg.LogFormat)
	return opts
}

// NewRootCommand creates the top-level Cobra command to host subcommands and TUI launcher.
func NewRootCommand(manager *files.Manager, cfg *config.Config) *cobra.Command {
	rt := newRuntime(manager, cfg)

	var (
		logLevel   string
		noAutoSave bool
	)

	cmd := &cobra.Command{
		Use:     "tudu",
		Short:   "Keep a todo list in your terminal.",
		Version: version.Info(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("log-level") {
				rt.cfg.LogLevel = logLevel
			}
			if noAutoSave {
				rt.cfg.AutoSave = false
			}
			if err := rt.cfg.Validate(); err != nil {
				return err
			}
			rt.logger = logging.New(cmd.ErrOrStderr(), rt.logOptions())
			if rt.cfg.Path != "" {
				rt.logger.Debug("config loaded", "path", rt.cfg.Path)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), rt)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&rt.fileFlag, "file", "f", "", "List name or path to a list file (default: configured list)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (default: configured level)")
	cmd.Flags().BoolVar(&noAutoSave, "no-autosave", false, "Do not save on quit")

	cmd.AddCommand(
		newListCommand(rt),
		newAddCommand(rt),
		newDeleteCommand(rt),
		newAdvanceCommand(rt),
		newEditCommand(rt),
		newSwapCommand(rt),
		newVersionCommand(),
	)

	return cmd
}

func runTUI(ctx context.Context, rt *runtime) error {
	path, err := rt.listPath()
	if err != nil {
		return err
	}

	if err := rt.manager.EnsureBase(); err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file.
	logger, closer, err := logging.NewFile(rt.manager.LogPath(), rt.logOptions())
	if err != nil {
		rt.logger.Warn("file logging disabled", "err", err)
		logger, closer = logging.Discard(), io.NopCloser(nil)
	}
	defer closer.Close()

	m := ui.NewModel(path, ui.Options{
		AutoSave:     rt.cfg.AutoSave,
		RelativeTime: rt.cfg.RelativeTime,
		Logger:       logger,
	})
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	if fm, ok := final.(ui.Model); ok && fm.Dirty() {
		rt.logger.Warn("exited with unsaved changes", "path", path)
	}
	return nil
}

// ExecuteCommand is a thin wrapper that executes the Cobra root command.
func ExecuteCommand(ctx context.Context) error {
	manager, err := files.NewManager("")
	if err != nil {
		return err
	}
	cfg, err := config.Load(manager.ConfigPath())
	if err != nil {
		return err
	}
	cmd := NewRootCommand(manager, cfg)
	return cmd.ExecuteContext(ctx)
}

// Main is a helper used by cmd/tudu/main.go to keep wiring contained in one package.
func Main(ctx context.Context) {
	if err := ExecuteCommand(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
