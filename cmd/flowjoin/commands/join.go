package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/flow-io/flowjoin"
	"github.com/flow-io/flowjoin/flowerrors"
	"github.com/flow-io/flowjoin/internal/cliutil"
	"github.com/flow-io/flowjoin/internal/pathutil"
	"github.com/flow-io/flowjoin/joiner"
	"github.com/flow-io/flowjoin/loop"
	"github.com/flow-io/flowjoin/stream"
	"golang.org/x/sync/errgroup"
)

// JoinFlags contains flags for the join command
type JoinFlags struct {
	Output        string
	Split         string
	Separator     string
	Encoding      string
	ChunkEncoding string
	ObjectMode    bool
	HighWaterMark int
	Config        string
	Quiet         bool
	Verbose       bool
}

// SetupJoinFlags creates and configures a FlagSet for the join command.
// Returns the FlagSet and a JoinFlags struct with bound flag variables.
func SetupJoinFlags() (*flag.FlagSet, *JoinFlags) {
	fs := flag.NewFlagSet("join", flag.ContinueOnError)
	flags := &JoinFlags{}

	fs.StringVar(&flags.Output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Split, "split", `\t`, "delimiter the input is split into records on")
	fs.StringVar(&flags.Separator, "sep", `\n`, "separator inserted between records")
	fs.StringVar(&flags.Encoding, "encoding", "", "encoding of records, separator and output (default: utf8)")
	fs.StringVar(&flags.ChunkEncoding, "chunk-encoding", "", "encoding the input records are written in (default: --encoding)")
	fs.BoolVar(&flags.ObjectMode, "object-mode", false, "treat each record as an opaque value")
	fs.IntVar(&flags.HighWaterMark, "high-water-mark", stream.DefaultHighWaterMark, "output buffer length at which reading pauses (encoded characters for byte encodings)")
	fs.StringVar(&flags.Config, "config", "", "YAML or JSON file with join options")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: suppress diagnostic messages (for pipelining)")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: suppress diagnostic messages (for pipelining)")
	fs.BoolVar(&flags.Verbose, "v", false, "verbose mode: log stream events to stderr")
	fs.BoolVar(&flags.Verbose, "verbose", false, "verbose mode: log stream events to stderr")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: flowjoin join [flags] [file|-]\n\n")
		cliutil.Writef(fs.Output(), "Split the input into records and join them back with a separator.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nEscapes:\n")
		cliutil.Writef(fs.Output(), "  --split and --sep interpret \\t \\n \\r \\0 \\\\ and \\xHH\n")
		cliutil.Writef(fs.Output(), "\nConfig file keys:\n")
		cliutil.Writef(fs.Output(), "  separator (or sep), objectMode, encoding, highWaterMark, allowHalfOpen, readableObjectMode\n")
		cliutil.Writef(fs.Output(), "  Flags given on the command line override the file.\n")
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  printf '1\\t2\\t3' | flowjoin join\n")
		cliutil.Writef(fs.Output(), "  flowjoin join --split , --sep ' | ' -o joined.txt records.csv\n")
		cliutil.Writef(fs.Output(), "  flowjoin join --encoding hex --sep 0a --split '\\n' dump.hex\n")
		cliutil.Writef(fs.Output(), "  flowjoin join --config join.yaml -q - < records.tsv\n")
	}

	return fs, flags
}

// HandleJoin executes the join command
func HandleJoin(args []string) error {
	fs, flags := SetupJoinFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() > 1 {
		fs.Usage()
		return fmt.Errorf("join command accepts at most one input file")
	}
	inputPath := fs.Arg(0)

	split, err := cliutil.Unescape(flags.Split)
	if err != nil {
		return fmt.Errorf("invalid --split: %w", err)
	}
	opts, err := flags.JoinOptions(setFlagNames(fs), os.Stderr)
	if err != nil {
		return err
	}

	in, err := OpenInput(inputPath, os.Stdin)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	var out io.Writer = os.Stdout
	if flags.Output != "" {
		if err := ValidateOutputPath(flags.Output, []string{inputPath}); err != nil {
			return err
		}
		f, _, err := pathutil.CreateOutput(flags.Output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// closing the input unblocks a pending read on interrupt
	stopClose := context.AfterFunc(ctx, func() {
		_ = in.Close()
		if inputPath == "" || inputPath == StdinFilePath {
			_ = os.Stdin.Close()
		}
	})
	defer stopClose()

	startTime := time.Now()
	stats, err := RunJoin(ctx, in, out, []byte(split), flags.ChunkEncoding, opts...)
	if err != nil {
		return fmt.Errorf("joining records: %w", err)
	}
	totalTime := time.Since(startTime)

	if !flags.Quiet {
		cliutil.Writef(os.Stderr, "\nflowjoin version: %s\n", flowjoin.Version())
		cliutil.Writef(os.Stderr, "Input: %s\n", FormatInputPath(inputPath))
		cliutil.Writef(os.Stderr, "Output: %s\n", FormatOutputPath(flags.Output))
		cliutil.Writef(os.Stderr, "Records: %d\n", stats.Records)
		cliutil.Writef(os.Stderr, "Separator: %s\n", strconv.Quote(stats.Separator))
		cliutil.Writef(os.Stderr, "Encoding: %s\n", stats.Encoding)
		cliutil.Writef(os.Stderr, "Bytes Written: %d\n", stats.Bytes)
		cliutil.Writef(os.Stderr, "Total Time: %v\n", totalTime)
	}
	return nil
}

// setFlagNames returns the names of the flags given on the command line.
func setFlagNames(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// JoinOptions builds joiner options from the flags. The config file is
// applied first; only flags present in set override it, so defaults never
// mask file values. Verbose logging goes to logOut.
func (f *JoinFlags) JoinOptions(set map[string]bool, logOut io.Writer) ([]joiner.Option, error) {
	var opts []joiner.Option

	if f.Config != "" {
		opt, err := joiner.LoadOptionsFile(f.Config)
		if err != nil {
			return nil, err
		}
		opts = append(opts, opt)
	}
	if set["sep"] {
		sep, err := cliutil.Unescape(f.Separator)
		if err != nil {
			return nil, fmt.Errorf("invalid --sep: %w", err)
		}
		opts = append(opts, joiner.WithSeparator(sep))
	}
	if set["encoding"] {
		opts = append(opts, joiner.WithEncoding(f.Encoding))
	}
	if set["object-mode"] {
		opts = append(opts, joiner.WithObjectMode(f.ObjectMode))
	}
	if set["high-water-mark"] {
		opts = append(opts, joiner.WithHighWaterMark(f.HighWaterMark))
	}
	if f.Verbose {
		logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, joiner.WithLogger(stream.NewSlogAdapter(logger)))
	}
	return opts, nil
}

// JoinStats summarizes a RunJoin call.
type JoinStats struct {
	Records   int
	Bytes     int64
	Separator string
	Encoding  string
}

// errLoopStopped tells the feeder that the loop exited before answering;
// the loop side reports the cause.
var errLoopStopped = errors.New("loop stopped")

// RunJoin reads records separated by split from r, joins them with a
// transform built from opts and writes the output to w.
//
// The transform lives on its own loop goroutine. A second goroutine scans the
// input and posts one write per record to the loop, waiting for the drain
// signal whenever the transform reports back-pressure.
func RunJoin(ctx context.Context, r io.Reader, w io.Writer, split []byte, chunkEncoding string, opts ...joiner.Option) (JoinStats, error) {
	if len(split) == 0 {
		return JoinStats{}, fmt.Errorf("split delimiter must not be empty")
	}

	l := loop.New()
	t, err := joiner.New(append(opts, joiner.WithLoop(l))...)
	if err != nil {
		return JoinStats{}, err
	}

	stats := JoinStats{
		Separator: t.Config().Separator(),
		Encoding:  t.Config().Encoding().Name(),
	}
	bw := bufio.NewWriter(w)
	drained := make(chan struct{}, 1)
	stopped := make(chan struct{})

	// streamErr is only touched on the loop goroutine
	var streamErr error
	t.OnData(func(c stream.Chunk) {
		n, err := bw.WriteString(c.String())
		stats.Bytes += int64(n)
		if err != nil {
			t.Shutdown(fmt.Errorf("writing output: %w", err))
		}
	})
	t.OnDrain(func() {
		select {
		case drained <- struct{}{}:
		default:
		}
	})
	t.OnEnd(func() {
		if err := bw.Flush(); err != nil {
			streamErr = fmt.Errorf("writing output: %w", err)
		}
		l.Close()
	})
	t.OnError(func(err error) { streamErr = err })
	t.OnClose(l.Close)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(stopped)
		if err := l.Run(gctx); err != nil {
			return err
		}
		return streamErr
	})
	g.Go(func() error {
		n, err := feed(gctx, l, t, r, split, chunkEncoding, drained, stopped)
		stats.Records = n
		if errors.Is(err, errLoopStopped) || errors.Is(err, flowerrors.ErrDestroyed) {
			return nil
		}
		return err
	})

	err = g.Wait()
	return stats, err
}

type writeResult struct {
	ok  bool
	err error
}

// feed scans r and posts each record to the transform's loop.
func feed(ctx context.Context, l *loop.Loop, t *joiner.Transform, r io.Reader, split []byte, chunkEncoding string, drained, stopped <-chan struct{}) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxRecordSize)
	sc.Split(ScanRecords(split))

	n := 0
	for sc.Scan() {
		rec := sc.Text()
		done := make(chan writeResult, 1)
		l.Enqueue(func() {
			ok, err := t.WriteString(rec, chunkEncoding)
			done <- writeResult{ok: ok, err: err}
		})
		res, err := await(ctx, done, stopped)
		if err != nil {
			return n, err
		}
		if res.err != nil {
			return n, fmt.Errorf("record %d: %w", n, res.err)
		}
		n++
		if !res.ok {
			if _, err := await(ctx, drained, stopped); err != nil {
				return n, err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return n, fmt.Errorf("reading input: %w", err)
	}

	ended := make(chan error, 1)
	l.Enqueue(func() { ended <- t.End() })
	endErr, err := await(ctx, ended, stopped)
	if err != nil {
		return n, err
	}
	return n, endErr
}

// await receives from ch, giving up when ctx is done or the loop has stopped.
// A value already sent before the loop stopped is still returned.
func await[T any](ctx context.Context, ch <-chan T, stopped <-chan struct{}) (T, error) {
	var zero T
	select {
	case v := <-ch:
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-stopped:
		select {
		case v := <-ch:
			return v, nil
		default:
			return zero, errLoopStopped
		}
	}
}
