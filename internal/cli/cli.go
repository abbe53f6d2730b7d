// Package cli implements the non-interactive commands: one-shot insertions,
// the bundled tree service and snapshot inspection.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/studiowebux/treeplot/internal/collector"
	"github.com/studiowebux/treeplot/internal/config"
	"github.com/studiowebux/treeplot/internal/executor"
	"github.com/studiowebux/treeplot/internal/filter"
	"github.com/studiowebux/treeplot/internal/reconcile"
	"github.com/studiowebux/treeplot/internal/server"
	"github.com/studiowebux/treeplot/internal/store"
	"github.com/studiowebux/treeplot/internal/types"
	"github.com/studiowebux/treeplot/internal/viewer"
)

// ErrTransport is returned when an insertion never got a usable response
var ErrTransport = errors.New("tree service unreachable")

// AddOptions contains options for a one-shot insertion
type AddOptions struct {
	Mode       types.Mode
	Fields     map[string]string
	OutPath    string // write the decoded image here
	Dispatcher *executor.Dispatcher
	Stdout     io.Writer
	Stderr     io.Writer
}

// Add sends one insertion and reports the outcome. Service messages are
// printed in red and are not errors.
func Add(ctx context.Context, opts AddOptions) error {
	stdout, stderr := writers(opts.Stdout, opts.Stderr)

	c := collector.New(collector.NewInsertionLog())
	sub := c.Collect(opts.Mode, opts.Fields)
	fmt.Fprintf(stdout, "%s %s\n", opts.Mode.Title(), sub.Entry.Text)

	result, err := opts.Dispatcher.Dispatch(ctx, sub)
	if err != nil {
		return err
	}

	out := reconcile.Classify(result)
	switch out.Kind {
	case types.OutcomeTransportError:
		return fmt.Errorf("%w: %s", ErrTransport, out.Text)

	case types.OutcomeMessage:
		color.New(color.FgRed).Fprintf(stderr, "%s\n", out.Text)
		return nil
	}

	mime, data, err := viewer.DecodeDataURI(out.Text)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}
	img, err := viewer.DecodeImage(out.Text)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}
	size := img.Bounds().Size()

	if opts.OutPath == "" {
		color.New(color.FgGreen).Fprintf(stdout, "%s, %s (%d x %d) in %dms\n",
			mime, humanize.Bytes(uint64(len(data))), size.X, size.Y, result.Duration)
		return nil
	}

	if dir := filepath.Dir(opts.OutPath); dir != "" {
		if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(opts.OutPath, data, config.FilePermissions); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	color.New(color.FgGreen).Fprintf(stdout, "Saved %s (%d x %d, %s)\n",
		opts.OutPath, size.X, size.Y, humanize.Bytes(uint64(len(data))))
	return nil
}

// InspectOptions contains options for querying the tree snapshot
type InspectOptions struct {
	Dispatcher *executor.Dispatcher
	Filter     string
	Query      string
	Highlight  bool // colorize JSON output
	Stdout     io.Writer
}

// Inspect fetches GET /tree and applies JMESPath filter and query
func Inspect(ctx context.Context, opts InspectOptions) error {
	stdout, _ := writers(opts.Stdout, nil)

	for _, expr := range []string{opts.Filter, opts.Query} {
		if expr != "" && !filter.IsValidJMESPath(expr) {
			return fmt.Errorf("invalid JMESPath expression %q", expr)
		}
	}

	body, err := opts.Dispatcher.Fetch(ctx, "/tree")
	if err != nil {
		return fmt.Errorf("failed to fetch tree: %w", err)
	}

	if opts.Filter == "" && opts.Query == "" {
		// Pretty-print through the identity expression
		opts.Query = "@"
	}
	result, err := filter.Apply(body, opts.Filter, opts.Query)
	if err != nil {
		return err
	}

	printJSON(stdout, result, opts.Highlight)
	return nil
}

// QueryOptions contains options for the read-only tree queries
type QueryOptions struct {
	Dispatcher *executor.Dispatcher
	Highlight  bool
	Stdout     io.Writer
}

// QueryRange prints the range-tree points inside [x1,x2] x [y1,y2]
func QueryRange(ctx context.Context, opts QueryOptions, x1, x2, y1, y2 int64) error {
	params := url.Values{}
	params.Set("x1", strconv.FormatInt(x1, 10))
	params.Set("x2", strconv.FormatInt(x2, 10))
	params.Set("y1", strconv.FormatInt(y1, 10))
	params.Set("y2", strconv.FormatInt(y2, 10))
	return fetchAndPrint(ctx, opts, "/query?"+params.Encode())
}

// Lookup prints whether k is in the red-black tree and its successor
func Lookup(ctx context.Context, opts QueryOptions, k int64) error {
	return fetchAndPrint(ctx, opts, "/lookup?k="+strconv.FormatInt(k, 10))
}

func fetchAndPrint(ctx context.Context, opts QueryOptions, path string) error {
	stdout, _ := writers(opts.Stdout, nil)

	body, err := opts.Dispatcher.Fetch(ctx, path)
	if err != nil {
		return err
	}
	pretty, err := filter.Apply(body, "", "@")
	if err != nil {
		return err
	}
	printJSON(stdout, pretty, opts.Highlight)
	return nil
}

// printJSON writes doc, through the terminal JSON highlighter when asked
func printJSON(w io.Writer, doc string, highlight bool) {
	if highlight {
		if err := quick.Highlight(w, doc+"\n", "json", "terminal256", "monokai"); err == nil {
			return
		}
	}
	fmt.Fprintln(w, doc)
}

// ServeOptions contains options for the bundled tree service
type ServeOptions struct {
	Addr      string
	Database  string // empty keeps trees in memory only
	Reset     bool   // clear the database before serving
	AccessLog io.Writer
	Logger    *slog.Logger
}

// Serve runs the tree service until ctx is cancelled
func Serve(ctx context.Context, opts ServeOptions) error {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	srv := server.NewServer(&server.Config{Addr: opts.Addr, Logging: true}).WithLogger(opts.Logger)

	if opts.Database != "" {
		st, err := store.NewManager(opts.Database)
		if err != nil {
			return err
		}
		defer func() {
			if err := st.Close(); err != nil {
				opts.Logger.Warn("failed to close store", "error", err)
			}
		}()

		if opts.Reset {
			if err := st.Clear(); err != nil {
				return err
			}
			opts.Logger.Info("cleared stored trees", "database", opts.Database)
		}
		if stats, err := st.Stats(); err != nil {
			opts.Logger.Warn("failed to read store stats", "error", err)
		} else {
			last := "never"
			if !stats.LastInsert.IsZero() {
				last = humanize.Time(stats.LastInsert)
			}
			opts.Logger.Info("store opened",
				"database", opts.Database,
				"keys", stats.Keys,
				"points", stats.Points,
				"last_insert", last,
			)
		}

		if _, err := srv.WithStore(st); err != nil {
			return err
		}
	}

	if err := srv.Start(); err != nil {
		return err
	}

	var wg sync.WaitGroup
	if opts.AccessLog != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tailRequests(ctx, srv, opts.AccessLog)
		}()
	}

	<-ctx.Done()
	opts.Logger.Info("shutting down")
	err := srv.Stop(context.Background())
	wg.Wait()
	return err
}

// tailRequests prints each request the server logs until ctx is done
func tailRequests(ctx context.Context, srv *server.Server, w io.Writer) {
	var last uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-srv.NotifyChannel():
			for _, l := range srv.LogsSince(last) {
				last = l.Seq
				c := color.New(color.FgGreen)
				if l.Status != 200 {
					c = color.New(color.FgRed)
				}
				fmt.Fprintf(w, "%s %-6s %-20s ", l.Timestamp.Format(time.TimeOnly), l.Method, l.Path)
				c.Fprintf(w, "%d", l.Status)
				fmt.Fprintf(w, " %-7s %s\n", l.Outcome, l.Duration.Round(time.Microsecond))
			}
		}
	}
}

func writers(stdout, stderr io.Writer) (io.Writer, io.Writer) {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return stdout, stderr
}
