package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapql/internal/cli/output"
	"github.com/leapstack-labs/leapql/pkg/metamodel"
	"github.com/leapstack-labs/leapql/pkg/semantic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// QueryFileExt is the extension of query files picked up from directories.
const QueryFileExt = ".lql"

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Parallelism int
	MetricsFile string
}

// checkResult is the outcome of interpreting one statement.
type checkResult struct {
	File   string `json:"file"`
	Index  int    `json:"index"`
	Query  string `json:"query"`
	Kind   string `json:"kind,omitempty"`
	Result string `json:"result"`
	Error  string `json:"error,omitempty"`
}

func (r checkResult) location() string {
	return fmt.Sprintf("%s:%d", r.File, r.Index)
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check <file|dir>...",
		Short: "Interpret every query in a set of files",
		Long: `Interpret every statement found in the given files and report failures.

Statements in a file are separated by semicolons. Directories are searched
recursively for *.lql files. Files are interpreted in parallel; the
command fails when any statement fails.`,
		Example: `  leapql check queries/
  leapql check --strict -p 8 a.lql b.lql
  leapql check queries/ --metrics-file check.prom`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Parallelism, "parallelism", "p", 0, "Number of files interpreted at once (default from config)")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write interpretation metrics in Prometheus text format")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *CheckOptions) error {
	cmdCtx := NewCommandContext(cmd)

	files, err := expandQueryFiles(args)
	if err != nil {
		return err
	}
	model, err := cmdCtx.LoadModel()
	if err != nil {
		return err
	}

	metrics := semantic.NewMetrics()
	registry := prometheus.NewRegistry()
	registry.MustRegister(metrics.PrometheusCollectors()...)

	parallelism := opts.Parallelism
	if parallelism < 1 {
		parallelism = cmdCtx.Cfg.Parallelism
	}

	start := time.Now()
	perFile := make([][]checkResult, len(files))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(parallelism)
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results, err := checkFile(cmdCtx, model, metrics, file)
			if err != nil {
				return err
			}
			perFile[i] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var results []checkResult
	failed := 0
	for _, rs := range perFile {
		for _, r := range rs {
			if r.Error != "" {
				failed++
			}
			results = append(results, r)
		}
	}
	cmdCtx.Logger.Debug("check finished",
		"files", len(files), "statements", len(results), "failed", failed,
		"parallelism", parallelism, "duration", time.Since(start))

	if err := renderCheckResults(cmdCtx.Renderer, results, failed); err != nil {
		return err
	}

	if opts.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.MetricsFile, registry); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d statements failed", failed, len(results))
	}
	return nil
}

// checkFile interprets each statement of file.
func checkFile(cmdCtx *CommandContext, model *metamodel.Model, metrics *semantic.Metrics, file string) ([]checkResult, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}

	consumer := cmdCtx.Consumer(model)
	var results []checkResult
	for i, query := range SplitStatements(string(content)) {
		r := checkResult{File: file, Index: i + 1, Query: query}
		stmt, err := semantic.Interpret(query, consumer, cmdCtx.Options(metrics))
		r.Result = semantic.ResultLabel(err)
		if err != nil {
			r.Error = err.Error()
			cmdCtx.Logger.Info("statement failed", "file", file, "index", r.Index, "error", err)
		} else {
			r.Kind = stmt.Kind().String()
		}
		results = append(results, r)
	}
	return results, nil
}

// expandQueryFiles replaces directories by the query files below them.
func expandQueryFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(path) == QueryFileExt {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// SplitStatements splits text on semicolons outside string literals and
// drops blank statements and `--` comment lines.
func SplitStatements(text string) []string {
	var (
		out     []string
		current strings.Builder
		quoted  bool
	)
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			out = append(out, s)
		}
		current.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		if !quoted && strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		for _, r := range line {
			switch {
			case r == '\'':
				// A doubled quote toggles twice and stays inside the literal.
				quoted = !quoted
				current.WriteRune(r)
			case r == ';' && !quoted:
				flush()
			default:
				current.WriteRune(r)
			}
		}
		current.WriteByte('\n')
	}
	flush()
	return out
}

func renderCheckResults(r *output.Renderer, results []checkResult, failed int) error {
	switch r.Mode() {
	case output.ModeJSON:
		return r.JSON(results)
	case output.ModeTable:
		t := table.NewWriter()
		t.SetOutputMirror(r.Writer())
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Location", "Kind", "Result", "Error"})
		for _, res := range results {
			t.AppendRow(table.Row{res.location(), res.Kind, res.Result, res.Error})
		}
		t.Render()
	default:
		for _, res := range results {
			if res.Error == "" {
				r.Success(res.location())
				continue
			}
			r.Fail(res.location())
			r.Println("     " + r.Muted(res.Error))
		}
	}
	r.Printf("%d statements, %d failed\n", len(results), failed)
	return nil
}
