package main

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/dogear"
	"github.com/aretw0/dogear/internal/config"
	"github.com/aretw0/dogear/internal/logging"
	"github.com/aretw0/dogear/pkg/core"
)

// app carries state shared by every command: flags, loaded config and logger.
type app struct {
	configPath string
	dbPath     string
	adapter    string
	readOnly   bool
	verbose    bool

	cfg       config.Config
	logger    *slog.Logger
	logCloser io.Closer
}

// Execute runs the CLI with the process arguments.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "dogear",
		Short: "Native-messaging bookmark host backed by a buku database",
		Long: `dogear is started by the browser to serve bookmark requests from the
extension over stdin/stdout. The same binary manages the database from the
command line and installs the host manifest for each browser.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		// Browsers append their own arguments, e.g. --parent-window on Windows.
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logCloser != nil {
				_ = a.logCloser.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if isBrowserInvocation(args) {
				a.logger.Debug("started by browser", "args", args)
				return a.serve(cmd)
			}
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default: <user config dir>/dogear/config.yaml)")
	flags.StringVar(&a.dbPath, "db", "", "Database file (default: buku's database)")
	flags.StringVar(&a.adapter, "adapter", "", "Storage adapter: sqlite or memory")
	flags.BoolVar(&a.readOnly, "read-only", false, "Open the database without write access")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(
		newServeCmd(a),
		newListCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newStatusCmd(a),
		newWatchCmd(a),
		newInstallCmd(a),
		newManifestCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// setup loads the config file and environment, applies explicit flags on
// top and installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.Database.Path = a.dbPath
	}
	if flags.Changed("adapter") {
		cfg.Database.Adapter = a.adapter
	}
	if flags.Changed("read-only") {
		cfg.Database.ReadOnly = a.readOnly
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closer, err := logging.New(cfg.Log, a.verbose)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	a.cfg = cfg
	a.logger = logger
	a.logCloser = closer
	return nil
}

// open returns the bookmark service described by the effective config.
func (a *app) open() (*core.Service, error) {
	return dogear.New(a.cfg.Database.Path,
		dogear.WithAdapter(a.cfg.Database.Adapter),
		dogear.WithReadOnly(a.cfg.Database.ReadOnly),
		dogear.WithLogger(a.logger),
		dogear.WithWatcherErrorHandler(func(err error) {
			a.logger.Warn("database watcher error", "error", err)
		}),
	)
}

func (a *app) withService(ctx context.Context, fn func(ctx context.Context, svc *core.Service) error) error {
	svc, err := a.open()
	if err != nil {
		return err
	}
	defer svc.Close()
	return fn(ctx, svc)
}

// isBrowserInvocation reports whether args look like a browser launching
// the host: Chromium passes the caller's origin, Firefox passes the
// manifest path followed by the extension id.
func isBrowserInvocation(args []string) bool {
	for _, arg := range args {
		if strings.HasPrefix(arg, "chrome-extension://") {
			return true
		}
	}
	return len(args) > 0 && strings.HasSuffix(strings.ToLower(args[0]), ".json")
}
