// Command sasrow is a thin CLI over the sasrow core: it parses flags or a
// config file, drives ReadMetadata/ReadData, and hands the resulting
// batches to whichever encoder --format names. Command-line parsing and
// file-format-specific encoding are external collaborators to the core by
// design (see the package doc on sasrow); this binary is the reference
// glue that wires them together, in the teacher's cmd/etl/main.go shape:
// flags, a JSON config file, a validate-then-run split, and a plain
// log.Printf plus os.Exit with a per-error-kind exit code on error rather
// than a custom logging framework.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/sasrow/sasrow"
	"github.com/sasrow/sasrow/internal/config"
	"github.com/sasrow/sasrow/internal/sasrowerr"
	"github.com/sasrow/sasrow/internal/writer"
	"github.com/sasrow/sasrow/internal/writer/sqlwriter"
)

// interactive reports whether stderr is attached to a terminal. When true,
// the orchestrator emits one ambient completion line per chunk; piped or
// CI invocations stay quiet unless -v is also passed.
func interactive() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

// Exit codes per the external interface contract: 0 success, 1 ConfigError,
// 2 IoError, 3 ParseError, 4 InvariantError. EncodingError never reaches
// this layer -- it is always recovered inside the ingestion callbacks.
const (
	exitOK             = 0
	exitConfigError    = 1
	exitIoError        = 2
	exitParseError     = 3
	exitInvariantError = 4
)

func main() {
	var (
		cfgPath    string
		input      string
		output     string
		format     string
		selectFlag string
		chunkRows  int
		parallel   bool
		workers    int
		rowOffset  int64
		rowLimit   int64 // sentinel -1 means "not set on the command line"
		sqlQuery   string
		validate   bool
		dedup      bool
		verbose    bool
	)

	flag.StringVar(&cfgPath, "config", "", "path to a JSON config file (teacher's Options-map idiom); overrides other flags when set")
	flag.StringVar(&input, "input", "", "path to the .sas7bdat file to read")
	flag.StringVar(&output, "output", "", "destination file path; empty writes to stdout")
	flag.StringVar(&format, "format", "csv", "output format: csv|ndjson|feather|parquet|sql")
	flag.StringVar(&selectFlag, "select", "", "comma-separated variable names to restrict the schema to; empty means all")
	flag.IntVar(&chunkRows, "chunk-rows", config.DefaultChunkRows, "rows per chunk")
	flag.BoolVar(&parallel, "parallel", false, "run chunks over a worker pool instead of sequentially")
	flag.IntVar(&workers, "workers", 0, "worker pool width when --parallel is set; 0 lets the runtime pick")
	flag.Int64Var(&rowOffset, "row-offset", 0, "first row (0-based) to include")
	flag.Int64Var(&rowLimit, "row-limit", -1, "maximum rows to read starting at --row-offset; unset (or negative) means read to end of file, 0 means read zero rows (metadata only)")
	flag.StringVar(&sqlQuery, "sql-query", "", "query text for --format=sql")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	flag.BoolVar(&dedup, "dedup", false, "drop a chunk whose content fingerprint matches the one immediately before it")
	flag.BoolVar(&verbose, "v", false, "force the per-chunk completion log line even when stderr isn't a terminal")
	flag.Parse()

	cfg, err := loadConfig(cfgPath, input, output, format, selectFlag, sqlQuery, chunkRows, workers, parallel, rowOffset, rowLimit, dedup, verbose)
	if err != nil {
		fatalf(exitConfigError, "config: %v", err)
	}

	issues := config.Validate(cfg)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s at %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		os.Exit(exitConfigError)
	}
	if validate {
		log.Printf("configuration is valid")
		os.Exit(exitOK)
	}

	if err := run(context.Background(), cfg); err != nil {
		fatalf(exitCodeFor(err), "%v", err)
	}
}

func loadConfig(cfgPath, input, output, format, selectFlag, sqlQuery string, chunkRows, workers int, parallel bool, rowOffset, rowLimit int64, dedup, verbose bool) (config.Config, error) {
	if cfgPath != "" {
		f, err := os.Open(cfgPath)
		if err != nil {
			return config.Config{}, err
		}
		defer f.Close()
		var c config.Config
		if err := json.NewDecoder(f).Decode(&c); err != nil {
			return config.Config{}, fmt.Errorf("decode %s: %w", cfgPath, err)
		}
		return c.WithDefaults(), nil
	}

	var sel []string
	if strings.TrimSpace(selectFlag) != "" {
		for _, s := range strings.Split(selectFlag, ",") {
			if s = strings.TrimSpace(s); s != "" {
				sel = append(sel, s)
			}
		}
	}

	var rowLimitPtr *int64
	if rowLimit >= 0 {
		v := rowLimit
		rowLimitPtr = &v
	}

	c := config.Config{
		Input:     input,
		Select:    sel,
		RowOffset: rowOffset,
		RowLimit:  rowLimitPtr,
		Runtime: config.RuntimeConfig{
			ChunkRows:   chunkRows,
			Parallel:    parallel,
			Workers:     workers,
			Dedup:       dedup,
			LogProgress: verbose || interactive(),
		},
		Output: config.Output{
			Path:     output,
			Format:   format,
			SQLQuery: sqlQuery,
		},
	}
	return c.WithDefaults(), nil
}

// run wires the parse API to a concrete encoder for one end-to-end
// invocation: read metadata, open the destination, drive ReadData, and feed
// every batch to the writer in order.
func run(ctx context.Context, cfg config.Config) error {
	input := sasrow.FromPath(cfg.Input)

	meta, err := sasrow.ReadMetadata(input)
	if err != nil {
		return err
	}

	var dst io.Writer = os.Stdout
	if cfg.Output.Path != "" {
		f, err := os.Create(cfg.Output.Path)
		if err != nil {
			return &sasrowerr.IoError{Op: "create output", Err: err}
		}
		defer f.Close()
		dst = f
	}

	w, err := newWriter(cfg.Output, cfg.Input, dst)
	if err != nil {
		return err
	}

	result, err := sasrow.ReadData(ctx, input, meta, sasrow.ReadOptions{
		RowOffset:     cfg.RowOffset,
		RowLimit:      cfg.RowLimit,
		Select:        cfg.Select,
		ChunkRows:     int64(cfg.Runtime.ChunkRows),
		Parallel:      cfg.Runtime.Parallel,
		Workers:       cfg.Runtime.Workers,
		ChannelBuffer: cfg.Runtime.ChannelBuffer,
		Dedup:         cfg.Runtime.Dedup,
		LogProgress:   cfg.Runtime.LogProgress,
	})
	if err != nil {
		return err
	}

	if err := w.Begin(result.Schema, meta.TableLabel); err != nil {
		return err
	}

	var writeErr error
	for batch := range result.Batches {
		if writeErr == nil {
			writeErr = w.Write(batch)
		}
		batch.Release()
	}
	if err := result.Wait(); err != nil {
		return err
	}
	if writeErr != nil {
		return writeErr
	}
	return w.Finish()
}

// newWriter selects a concrete encoder by cfg.Format, writing to dst.
// inputPath is used only by the "sql" format, to derive a deterministic
// ephemeral table name.
func newWriter(cfg config.Output, inputPath string, dst io.Writer) (writer.Writer, error) {
	switch strings.ToLower(cfg.Format) {
	case "", "csv":
		return writer.NewCSVWriter(dst, cfg.Options.Rune("delimiter", ',')), nil
	case "ndjson":
		return writer.NewNDJSONWriter(dst), nil
	case "feather":
		return writer.NewFeatherWriter(dst), nil
	case "parquet":
		if groupSize := cfg.Options.Int("parallel_group_size", 0); groupSize > 0 {
			spoolDir := cfg.Options.String("spool_dir", "")
			return writer.NewParallelParquetWriter(dst, spoolDir, groupSize), nil
		}
		return writer.NewParquetWriter(dst), nil
	case "sql":
		resultFormat := sqlwriter.ResultCSV
		if cfg.SQLResultFormat == "ndjson" {
			resultFormat = sqlwriter.ResultNDJSON
		}
		return sqlwriter.New(sqlwriter.Config{Query: cfg.SQLQuery, InputPath: inputPath}, dst, resultFormat), nil
	default:
		return nil, &sasrowerr.ConfigError{Path: "output.format", Message: fmt.Sprintf("unknown format %q", cfg.Format)}
	}
}

func exitCodeFor(err error) int {
	switch err.(type) {
	case *sasrowerr.ConfigError:
		return exitConfigError
	case *sasrowerr.IoError:
		return exitIoError
	case *sasrowerr.ParseError:
		return exitParseError
	case *sasrowerr.InvariantError:
		return exitInvariantError
	default:
		return exitIoError
	}
}

func fatalf(code int, format string, a ...any) {
	log.Printf(format, a...)
	os.Exit(code)
}
