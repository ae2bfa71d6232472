package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/sheetdesk/internal/catalog"
	"github.com/jask/sheetdesk/internal/config"
	"github.com/jask/sheetdesk/internal/database"
	"github.com/jask/sheetdesk/internal/database/repository"
	"github.com/jask/sheetdesk/internal/demo"
	"github.com/jask/sheetdesk/internal/logging"
	"github.com/jask/sheetdesk/internal/prefs"
	"github.com/jask/sheetdesk/internal/secrets"
	"github.com/jask/sheetdesk/internal/sheets"
	"github.com/jask/sheetdesk/internal/tui"
)

// env is what every command runs against.
type env struct {
	cfg     config.Config
	log     *zap.Logger
	store   sheets.Store
	db      *sql.DB
	closers []func() error
}

func (e *env) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i]()
	}
}

func (e *env) catalog() *catalog.Catalog {
	c := catalog.New(e.store, e.log)
	c.PersistNewOptions = e.cfg.Forms.PersistNewOptions
	return c
}

type rootOptions struct {
	backend string
	demo    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	e := &env{}

	root := &cobra.Command{
		Use:   "sheetdesk",
		Short: "Browse and submit theory, reporting and instances kept in a spreadsheet",
		Long: `sheetdesk is a terminal front end for a research spreadsheet.

Without a subcommand it opens the interactive browser with pages for the
entity wiki, reporting, instances and a timeline. Entries are added through
forms whose tag fields accept existing options or new ones typed on the fly.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setup(cmd.Context(), e, opts, needsStore(cmd))
		},
		PersistentPostRun: func(*cobra.Command, []string) { e.close() },
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), e)
		},
	}
	root.PersistentFlags().StringVar(&opts.backend, "backend", "", "spreadsheet backend: google, local or memory (overrides config)")
	root.PersistentFlags().BoolVar(&opts.demo, "demo", false, "use an in-memory spreadsheet filled with sample entries")

	root.AddCommand(
		newInitCmd(e),
		newExportCmd(e),
		newImportCmd(e),
		newResetCmd(e),
		newKeyCmd(),
		newConfigCmd(e),
	)
	return root
}

const skipStore = "skip-store"

func needsStore(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[skipStore]; ok {
			return false
		}
	}
	return true
}

// setup loads config, opens the log and, when needsStore is set, the store.
func setup(ctx context.Context, e *env, opts *rootOptions, needsStore bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.backend != "" {
		cfg.Sheets.Backend = strings.ToLower(opts.backend)
	}
	if opts.demo {
		cfg.Sheets.Backend = config.BackendMemory
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.cfg = cfg

	log, closeLog, err := logging.Open(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return err
	}
	e.log = log
	e.closers = append(e.closers, closeLog)
	if !needsStore {
		return nil
	}

	if err := openStore(ctx, e); err != nil {
		e.close()
		return err
	}
	if opts.demo {
		if err := demo.Seed(ctx, e.store, time.Now().UTC()); err != nil {
			e.close()
			return fmt.Errorf("seed demo data: %w", err)
		}
	}
	return nil
}

func openStore(ctx context.Context, e *env) error {
	switch e.cfg.Sheets.Backend {
	case config.BackendGoogle:
		key := secrets.Resolve(secrets.SheetsKey, e.cfg.Sheets.APIKeyEnv, e.cfg.Sheets.APIKey)
		store, err := sheets.NewGoogleStore(ctx, sheets.GoogleConfig{
			SpreadsheetID:   e.cfg.Sheets.SpreadsheetID,
			APIKey:          key,
			CredentialsFile: e.cfg.Sheets.CredentialsFile,
		}, e.log)
		if err != nil {
			return err
		}
		e.store = store
	case config.BackendMemory:
		e.store = sheets.NewMemoryStore()
	default:
		if err := os.MkdirAll(filepath.Dir(e.cfg.Database.Path), 0o755); err != nil {
			return fmt.Errorf("mkdir db dir: %w", err)
		}
		db, err := database.OpenMigrated(e.cfg.Database.Path)
		if err != nil {
			return err
		}
		e.closers = append(e.closers, db.Close)
		if err := database.SeedDefaults(ctx, db); err != nil {
			return fmt.Errorf("seed defaults: %w", err)
		}
		e.db = db
		e.store = sheets.NewLocalStore(repository.NewSheetRepo(db))
	}
	e.log.Info("store ready", zap.String("backend", e.cfg.Sheets.Backend))
	return nil
}

func runTUI(ctx context.Context, e *env) error {
	state, err := prefs.LoadState()
	if err != nil {
		e.log.Warn("load ui state", zap.Error(err))
	}
	m := tui.NewModel(ctx, e.catalog(), e.log, state)
	m.SetDateFormat(e.cfg.UI.DateFormat)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}
