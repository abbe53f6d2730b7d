package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/studiowebux/treeplot/internal/cli"
	"github.com/studiowebux/treeplot/internal/config"
	"github.com/studiowebux/treeplot/internal/executor"
	"github.com/studiowebux/treeplot/internal/filter"
	"github.com/studiowebux/treeplot/internal/tui"
	"github.com/studiowebux/treeplot/internal/types"
)

var (
	version = "0.1.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "treeplot",
	Short: "treeplot - build trees one insertion at a time",
	Long: `treeplot inserts points into a 2D range tree or keys into a red-black tree
held by a tree service, and shows the rendered tree after every insertion.

Run without arguments to start the interactive TUI.

Examples:
  treeplot                              # Start interactive TUI
  treeplot serve                        # Run the tree service on :8080
  treeplot add rb 42                    # Insert key 42, print image info
  treeplot add range 3 7 -o tree.png    # Insert point (3, 7), save the image
  treeplot inspect --query keys         # Show red-black keys as JSON
  treeplot query range 0 10 0 10        # Points inside the rectangle
  treeplot query rb 7                   # Is 7 present, and what follows it`,
	Version:           version,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Insert one value and report the result",
}

var addRedBlackCmd = &cobra.Command{
	Use:     "rb <k>",
	Aliases: []string{"red-black-tree", "key"},
	Short:   "Insert key k into the red-black tree",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdd(cmd, types.ModeRedBlackTree, map[string]string{"k": args[0]})
	},
}

var addRangeCmd = &cobra.Command{
	Use:     "range <x> <y>",
	Aliases: []string{"range-tree", "point"},
	Short:   "Insert point (x, y) into the 2D range tree",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdd(cmd, types.ModeRangeTree, map[string]string{"x": args[0], "y": args[1]})
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tree service",
	Long: `Run the tree service the controller talks to.

Endpoints:
  POST /add-2d-range-tree   x=<int>&y=<int>
  POST /add-red-black-tree  k=<int>
  GET  /tree                JSON snapshot of both trees
  GET  /query               x1, x2, y1, y2: range-tree points in the rectangle
  GET  /lookup              k: red-black membership and successor
  GET  /logs                request log (DELETE clears it)
  GET  /healthz
  GET  /metrics             Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Query the tree snapshot with JMESPath",
	Long: `Fetch GET /tree from the tree service and apply a JMESPath filter and query.

Presets: ` + strings.Join(filter.PresetNames(), ", "),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDispatcher()
		if err != nil {
			return err
		}
		return cli.Inspect(cmd.Context(), cli.InspectOptions{
			Dispatcher: d,
			Filter:     flagFilter,
			Query:      flagQuery,
			Highlight:  highlight(),
			Stdout:     cmd.OutOrStdout(),
		})
	},
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run a read-only query against the trees",
}

var queryRangeCmd = &cobra.Command{
	Use:     "range <x1> <x2> <y1> <y2>",
	Aliases: []string{"range-tree", "rect"},
	Short:   "List the points with x1 <= x <= x2 and y1 <= y <= y2",
	Args:    cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		var b [4]int64
		for i, a := range args {
			v, err := strconv.ParseInt(a, 10, 64)
			if err != nil {
				return fmt.Errorf("bound %q is not an integer", a)
			}
			b[i] = v
		}
		opts, err := queryOptions(cmd)
		if err != nil {
			return err
		}
		return cli.QueryRange(cmd.Context(), opts, b[0], b[1], b[2], b[3])
	},
}

var queryKeyCmd = &cobra.Command{
	Use:     "rb <k>",
	Aliases: []string{"red-black-tree", "key"},
	Short:   "Report whether k is present and the next larger key",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("key %q is not an integer", args[0])
		}
		opts, err := queryOptions(cmd)
		if err != nil {
			return err
		}
		return cli.Lookup(cmd.Context(), opts, k)
	},
}

var (
	flagServer     string
	flagConfigFile string
	flagLogLevel   string
	flagOut        string
	flagAddr       string
	flagDatabase   string
	flagMemory     bool
	flagReset      bool
	flagQuiet      bool
	flagFilter     string
	flagQuery      string
	flagDropStale  bool
	flagMode       string

	cfg config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "Tree service URL (overrides config and $"+config.EnvServer+")")
	rootCmd.PersistentFlags().StringVar(&flagConfigFile, "config", "", "Config file (default ~/.treeplot/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug/info/warn/error)")

	rootCmd.Flags().BoolVar(&flagDropStale, "drop-stale", false, "Ignore images older than the one on screen")
	rootCmd.Flags().StringVarP(&flagMode, "mode", "m", "", "Initial tree (range-tree/red-black-tree)")

	addCmd.PersistentFlags().StringVarP(&flagOut, "out", "o", "", "Save the decoded image to this file")

	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default from config, :8080)")
	serveCmd.Flags().StringVar(&flagDatabase, "db", "", "SQLite database for inserted values (default ~/.treeplot/trees.db)")
	serveCmd.Flags().BoolVar(&flagMemory, "memory", false, "Keep trees in memory only")
	serveCmd.Flags().BoolVar(&flagReset, "reset", false, "Delete stored values before serving")
	serveCmd.Flags().BoolVar(&flagQuiet, "quiet", false, "Do not print each request to stdout")

	inspectCmd.Flags().StringVar(&flagFilter, "filter", "", "JMESPath filter applied first")
	inspectCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "JMESPath query or preset name")

	addCmd.AddCommand(addRedBlackCmd)
	addCmd.AddCommand(addRangeCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(inspectCmd)
	queryCmd.AddCommand(queryRangeCmd)
	queryCmd.AddCommand(queryKeyCmd)
	rootCmd.AddCommand(queryCmd)
}

// loadConfig initializes ~/.treeplot and merges file, env and flags
func loadConfig(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	path := config.ConfigFile
	if flagConfigFile != "" {
		path = flagConfigFile
	}

	var err error
	cfg, err = config.Load(path)
	if err != nil {
		return err
	}

	if flagServer != "" {
		cfg.Server.URL = flagServer
	}
	if flagLogLevel != "" {
		if _, err := config.ParseLevel(flagLogLevel); err != nil {
			return err
		}
		cfg.Log.Level = flagLogLevel
	}
	if flagMode != "" {
		cfg.UI.InitialMode = flagMode
	}
	if flagDropStale {
		cfg.Dispatch.DropStale = true
	}
	return cfg.Validate()
}

func newDispatcher() (*executor.Dispatcher, error) {
	return executor.NewDispatcher(cfg.Server.URL, cfg.Server.TLS, time.Duration(cfg.Server.Timeout))
}

// highlight reports whether JSON output should be colorized
func highlight() bool {
	return !color.NoColor && isatty.IsTerminal(os.Stdout.Fd())
}

func queryOptions(cmd *cobra.Command) (cli.QueryOptions, error) {
	d, err := newDispatcher()
	if err != nil {
		return cli.QueryOptions{}, err
	}
	return cli.QueryOptions{Dispatcher: d, Highlight: highlight(), Stdout: cmd.OutOrStdout()}, nil
}

func runTUI(cmd *cobra.Command) error {
	// The terminal belongs to the TUI; logs go to a file
	logger, logFile, err := config.OpenLogFile(config.LogFile, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logFile.Close()

	d, err := newDispatcher()
	if err != nil {
		return err
	}
	initial, err := cfg.InitialMode()
	if err != nil {
		return err
	}

	logger.Info("starting", "version", version, "server", cfg.Server.URL, "mode", initial.String())
	return tui.Run(tui.Config{
		Dispatcher:  d.WithLogger(logger),
		InitialMode: initial,
		DropStale:   cfg.Dispatch.DropStale,
		Logger:      logger,
		Version:     version,
	})
}

func runAdd(cmd *cobra.Command, mode types.Mode, fields map[string]string) error {
	logger, err := config.NewLogger(cmd.ErrOrStderr(), cfg.Log.Level)
	if err != nil {
		return err
	}
	d, err := newDispatcher()
	if err != nil {
		return err
	}
	return cli.Add(cmd.Context(), cli.AddOptions{
		Mode:       mode,
		Fields:     fields,
		OutPath:    flagOut,
		Dispatcher: d.WithLogger(logger),
		Stdout:     cmd.OutOrStdout(),
		Stderr:     cmd.ErrOrStderr(),
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := config.NewLogger(cmd.ErrOrStderr(), cfg.Log.Level)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	addr := cfg.Serve.Addr
	if flagAddr != "" {
		addr = flagAddr
	}
	db := cfg.DatabaseFile()
	if flagDatabase != "" {
		db = flagDatabase
	}
	if flagMemory {
		db = ""
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := cli.ServeOptions{
		Addr:     addr,
		Database: db,
		Reset:    flagReset,
		Logger:   logger,
	}
	if !flagQuiet {
		opts.AccessLog = cmd.OutOrStdout()
	}
	return cli.Serve(ctx, opts)
}
