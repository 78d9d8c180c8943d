package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidshelf/internal/identity"
	"github.com/desertthunder/vidshelf/internal/library"
	"github.com/desertthunder/vidshelf/internal/repositories"
	"github.com/desertthunder/vidshelf/internal/services"
	"github.com/desertthunder/vidshelf/internal/session"
	"github.com/desertthunder/vidshelf/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Stores are opened on first use so commands like setup can run before the database exists.
type Runner struct {
	config      *shared.Config
	logger      *log.Logger
	output      io.Writer
	searcher    services.Searcher
	durableDocs repositories.Documents
	sessionDocs repositories.Documents
	closers     []io.Closer

	durable *repositories.Store
	users   *identity.Store
	guard   *session.Guard
	engine  *library.Engine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config   *shared.Config
	Searcher services.Searcher
	Logger   *log.Logger
	Output   io.Writer
	// Durable and Session replace the SQLite stores named by Config.
	Durable repositories.Documents
	Session repositories.Documents
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:      opts.Config,
		logger:      opts.Logger,
		output:      opts.Output,
		searcher:    opts.Searcher,
		durableDocs: opts.Durable,
		sessionDocs: opts.Session,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, registerCommand, loginCommand, logoutCommand, whoamiCommand, apiKeyCommand,
		searchCommand, playlistCommand, itemCommand, playCommand, tuiCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// app builds the root command.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:     "vidshelf",
		Usage:    "Search videos and keep rated playlists of them",
		Version:  "0.1.0",
		Flags:    globalFlags(),
		Before:   r.applyLogLevel,
		Commands: r.register(),
	}
}

// applyLogLevel sets the log level from --log-level, or to debug with --verbose.
func (r *Runner) applyLogLevel(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level := cmd.String("log-level")
	if cmd.Bool("verbose") {
		level = "debug"
	}
	if level == "" {
		return ctx, nil
	}

	ll, err := log.ParseLevel(level)
	if err != nil {
		return ctx, fmt.Errorf("%w: unknown log level %q", shared.ErrInvalidArgument, level)
	}
	shared.SetLogLevel(r.logger, ll)
	return ctx, nil
}

// SetLogger replaces the logger used by stores opened after this call.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// open wires the durable and session stores, opening SQLite files for any not supplied.
func (r *Runner) open() error {
	if r.engine != nil {
		return nil
	}

	if r.durableDocs == nil {
		docs, err := r.openSQLite(r.config.Database.Path, repositories.DurableTable)
		if err != nil {
			return err
		}
		r.durableDocs = docs
	}
	if r.sessionDocs == nil {
		docs, err := r.openSQLite(r.config.Session.SessionPath(), repositories.SessionTable)
		if err != nil {
			return err
		}
		r.sessionDocs = docs
	}

	r.durable = repositories.NewStore(r.durableDocs, r.logger)
	r.users = identity.NewStore(r.durable, r.logger)
	r.guard = session.NewGuard(repositories.NewStore(r.sessionDocs, r.logger), r.users, r.logger)
	r.engine = library.NewEngine(r.durable, r.logger)
	return nil
}

func (r *Runner) openSQLite(path, table string) (*repositories.SQLiteDocuments, error) {
	db, err := shared.OpenMigrated(path, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	r.closers = append(r.closers, db)
	return repositories.NewSQLiteDocuments(db, table)
}

// Close releases any databases opened by the runner.
func (r *Runner) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c.Close())
	}
	r.closers = nil
	return errors.Join(errs...)
}

// cliNavigator tells the user to log in instead of navigating.
type cliNavigator struct {
	r *Runner
}

func (n cliNavigator) Redirect(location string) {
	n.r.writePlain("login required: run `vidshelf login` (%s)\n", location)
}

// requireAuth returns the session context for commands that need a logged-in user.
//
// requested is the location to resume after login, shown to the user when no one is logged in.
func (r *Runner) requireAuth(ctx context.Context, requested string) (session.Context, error) {
	if err := r.open(); err != nil {
		return session.Context{}, err
	}
	sc, ok := r.guard.RequireAuth(ctx, cliNavigator{r: r}, requested)
	if !ok {
		return session.Context{}, shared.ErrNotAuthenticated
	}
	return sc, nil
}

// apiKey returns the saved API key, falling back to the configured one.
func (r *Runner) apiKey(ctx context.Context) string {
	if key := repositories.Read(ctx, r.durable, repositories.KeyAPIKey, ""); key != "" {
		return key
	}
	return r.config.YouTube.APIKey
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
