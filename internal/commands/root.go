package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/opus-software/opus/internal/api"
	"github.com/opus-software/opus/internal/config"
	"github.com/opus-software/opus/internal/db"
	"github.com/opus-software/opus/internal/logging"
	"github.com/opus-software/opus/internal/models"
	"github.com/opus-software/opus/internal/store"
	"github.com/opus-software/opus/internal/workspace"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

type globalFlags struct {
	configFile string
	company    string
	logLevel   string
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "opus",
		Short: "Spaces, projects, epics and tasks from the terminal",
		Long: `opus keeps a local copy of your company's workspace in sync with the
Opus service. Browse spaces, projects, epics and tasks, move cards on a
kanban board and earn badges as you finish work.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetHelpCommand(newHelpCmd())

	root.PersistentFlags().StringVar(&g.configFile, "config", "", "Config file (default ~/.opus/opus.yaml)")
	root.PersistentFlags().StringVarP(&g.company, "company", "c", "", "Company id or slug")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(
		newSyncCmd(g),
		newListCmd(g),
		newSearchCmd(g),
		newCompaniesCmd(g),
		newSpaceCmd(g),
		newProjectCmd(g),
		newEpicCmd(g),
		newTaskCmd(g),
		newUserCmd(g),
		newLabelCmd(g),
		newBadgesCmd(g),
		newBoardCmd(g),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "opus %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

// env is everything a command needs once configuration is resolved.
type env struct {
	cfg     config.Config
	log     *zap.Logger
	company models.Company
	cache   *db.Cache // nil when the cache could not be opened
	store   *store.Store
	ws      *workspace.Workspace // nil for offline commands
	out     io.Writer
	errOut  io.Writer
}

type runFunc func(ctx context.Context, e *env, args []string) error

// online wraps a command that talks to the remote; it requires an API key.
func online(g *globalFlags, fn runFunc) func(*cobra.Command, []string) error {
	return withEnv(g, func() bool { return true }, fn)
}

// offline wraps a command that only reads the local cache.
func offline(g *globalFlags, fn runFunc) func(*cobra.Command, []string) error {
	return withEnv(g, func() bool { return false }, fn)
}

// readOnly wraps a read command that syncs first unless --offline is set.
func readOnly(g *globalFlags, offlineFlag *bool, fn runFunc) func(*cobra.Command, []string) error {
	return withEnv(g, func() bool { return !*offlineFlag }, fn)
}

// withEnv loads config, opens the cache and seeds the store with the last
// snapshot of the selected company before running fn.
func withEnv(g *globalFlags, remote func() bool, fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := setup(g, remote())
		if err != nil {
			return err
		}
		defer e.close()
		e.out = cmd.OutOrStdout()
		e.errOut = cmd.ErrOrStderr()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return fn(ctx, e, args)
	}
}

func setup(g *globalFlags, remote bool) (*env, error) {
	cfg, err := config.Load(g.configFile)
	if err != nil {
		return nil, err
	}
	if g.company != "" {
		cfg.Company = g.company
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}

	log, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, err
	}

	company, ok := models.FindCompany(cfg.Company)
	if !ok {
		return nil, fmt.Errorf("unknown company %q: run 'opus companies' to list them", cfg.Company)
	}

	e := &env{cfg: cfg, log: log, company: company, out: os.Stdout, errOut: os.Stderr}

	e.cache, err = db.Open(cfg.Cache.Path, log)
	if err != nil {
		log.Warn("cache unavailable", zap.String("path", cfg.Cache.Path), zap.Error(err))
		e.cache = nil
	}

	e.store = store.New(company.ID)
	if e.cache != nil {
		snap, _, err := e.cache.LoadSnapshot(context.Background(), company.ID)
		switch {
		case err == nil:
			e.store.Dispatch(store.Replace{State: snap})
		case !errors.Is(err, db.ErrNoSnapshot):
			log.Warn("cached snapshot unreadable", zap.Error(err))
		}
	}

	if !remote {
		return e, nil
	}
	if err := cfg.RequireRemote(); err != nil {
		e.close()
		return nil, err
	}

	client := api.New(api.Config{
		BaseURL:    cfg.API.BaseURL,
		APIKey:     cfg.API.Key,
		Timeout:    cfg.API.Timeout,
		MaxRetries: cfg.API.MaxRetries,
		RateLimit:  cfg.API.RateLimit,
		RateBurst:  cfg.API.RateBurst,
		UserAgent:  "opus-cli/" + version,
		Logger:     log,
	})
	e.ws = workspace.New(client, e.store,
		workspace.WithLogger(log),
		workspace.WithFanOut(cfg.Loader.FanOut),
		workspace.WithCompany(company.ID),
	)
	return e, nil
}

func (e *env) close() {
	if e.cache != nil {
		_ = e.cache.Close()
	}
	_ = e.log.Sync()
}

// state is the workspace state, or the cached one offline.
func (e *env) state() store.State {
	return e.store.State()
}

// persist writes the current state back to the cache so later offline
// commands see the change.
func (e *env) persist(ctx context.Context) {
	if e.cache == nil {
		return
	}
	if !e.state().IsLoaded {
		return
	}
	if err := e.cache.SaveSnapshot(ctx, e.state()); err != nil {
		e.log.Warn("failed to update cache", zap.Error(err))
	}
}

// refresh loads the company from the remote, reports partial failures on
// stderr and saves the result.
func (e *env) refresh(ctx context.Context) (workspace.LoadReport, error) {
	start := time.Now()
	report, err := e.ws.Load(ctx)
	if err != nil {
		return report, err
	}
	for _, f := range report.Failures {
		fmt.Fprintf(e.errOut, "⚠️  could not load %s", f.Phase)
		if f.ParentID != "" {
			fmt.Fprintf(e.errOut, " of %s", f.ParentID)
		}
		fmt.Fprintf(e.errOut, ": %v\n", f.Err)
	}
	e.log.Info("company loaded",
		zap.String("company_id", report.CompanyID),
		zap.Int("tasks", report.Tasks),
		zap.Bool("partial", report.Partial()),
		zap.Duration("took", time.Since(start)),
	)
	e.persist(ctx)
	return report, nil
}

// ensureLoaded makes sure state holds data: from the remote unless the
// command runs offline, in which case a prior sync is required.
func (e *env) ensureLoaded(ctx context.Context) error {
	if e.ws != nil {
		_, err := e.refresh(ctx)
		return err
	}
	if !e.state().IsLoaded {
		return fmt.Errorf("no cached data for %s: run 'opus sync' first", e.company.Name)
	}
	return nil
}

// recordBadges persists badges earned by a task update.
func (e *env) recordBadges(ctx context.Context, earned []models.UserBadge) {
	if len(earned) == 0 {
		return
	}
	for _, ub := range earned {
		if b, ok := models.FindBadge(ub.BadgeID); ok {
			fmt.Fprintf(e.out, "%s Badge earned: %s (%s)\n", b.Icon, b.Name, b.Description)
		}
	}
	if e.cache != nil {
		if err := e.cache.SaveUserBadges(ctx, e.company.ID, earned); err != nil {
			e.log.Warn("failed to save badges", zap.Error(err))
		}
	}
}
