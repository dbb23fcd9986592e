package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"
	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/leapql/internal/cli/output"
	"github.com/leapstack-labs/leapql/pkg/metamodel"
	"github.com/leapstack-labs/leapql/pkg/semantic"
	"github.com/spf13/cobra"
)

const (
	replPrompt         = "leapql> "
	replContinuePrompt = "   ...> "
	reloadDebounce     = 100 * time.Millisecond
)

// ReplOptions holds options for the repl command.
type ReplOptions struct {
	Watch       bool
	HistoryFile string
}

// NewReplCommand creates the repl command.
func NewReplCommand() *cobra.Command {
	opts := &ReplOptions{}

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interpret queries interactively",
		Long: `Start an interactive session that interprets each query against the
metamodel and prints its semantic model.

Queries end with a semicolon and may span several lines. With --watch the
metamodel is reloaded whenever its file changes.`,
		Example: `  leapql repl
  leapql repl --watch --metamodel model.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRepl(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Reload the metamodel when its file changes")
	cmd.Flags().StringVar(&opts.HistoryFile, "history", "", "History file (default: .leapql_history in the project root)")

	return cmd
}

func runRepl(cmd *cobra.Command, opts *ReplOptions) error {
	cmdCtx := NewCommandContext(cmd)
	model, err := cmdCtx.LoadModel()
	if err != nil {
		return err
	}
	session := newReplSession(cmdCtx, model)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if opts.Watch {
		go func() {
			if err := session.watch(ctx); err != nil {
				cmdCtx.Logger.Error("metamodel watch stopped", "error", err)
			}
		}()
	}

	historyFile := opts.HistoryFile
	if historyFile == "" {
		historyFile = filepath.Join(cmdCtx.Cfg.ProjectRoot, ".leapql_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    session.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	r := session.renderer()
	r.Printf("leapql REPL (metamodel: %s)\n", cmdCtx.Cfg.MetamodelPath)
	r.Println("Type .help for commands, .quit to exit")
	r.Println()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			session.reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}

		prompt, quit := session.handleLine(line)
		if quit {
			return nil
		}
		rl.SetPrompt(prompt)
	}
}

// replSession is the state of one REPL: the current metamodel, the
// statement being typed and the display settings.
type replSession struct {
	cmdCtx *CommandContext

	mu     sync.RWMutex
	model  *metamodel.Model
	strict bool
	mode   output.OutputMode

	buffer strings.Builder
}

func newReplSession(cmdCtx *CommandContext, model *metamodel.Model) *replSession {
	return &replSession{
		cmdCtx: cmdCtx,
		model:  model,
		strict: cmdCtx.Cfg.Strict,
		mode:   output.Mode(cmdCtx.Cfg.OutputFormat),
	}
}

func (s *replSession) renderer() *output.Renderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r := s.cmdCtx.Renderer
	return output.NewRendererWithTTY(r.Writer(), r.ErrWriter(), r.IsTTY(), s.mode)
}

func (s *replSession) reset() {
	s.buffer.Reset()
}

// handleLine consumes one input line and returns the next prompt.
func (s *replSession) handleLine(line string) (prompt string, quit bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		if s.buffer.Len() > 0 {
			return replContinuePrompt, false
		}
		return replPrompt, false
	}

	if s.buffer.Len() == 0 && strings.HasPrefix(line, ".") {
		return replPrompt, s.handleDotCommand(line)
	}

	// Accumulate multi-line queries until semicolon
	s.buffer.WriteString(line)
	if !strings.HasSuffix(line, ";") {
		s.buffer.WriteString(" ")
		return replContinuePrompt, false
	}

	query := strings.TrimSpace(strings.TrimSuffix(s.buffer.String(), ";"))
	s.buffer.Reset()
	r := s.renderer()
	if err := s.interpret(r, query); err != nil {
		r.Error(err)
	}
	r.Println()
	return replPrompt, false
}

func (s *replSession) interpret(r *output.Renderer, query string) error {
	s.mu.RLock()
	consumer := semantic.ModelContext{Model: s.model, Strict: s.strict}
	s.mu.RUnlock()

	stmt, err := semantic.Interpret(query, consumer, s.cmdCtx.Options(nil))
	if err != nil {
		return err
	}
	return renderStatement(r, query, stmt)
}

// handleDotCommand runs a dot-command and reports whether to quit.
func (s *replSession) handleDotCommand(line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])
	r := s.renderer()

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(r.Writer())

	case ".entities":
		s.mu.RLock()
		model := s.model
		s.mu.RUnlock()
		if err := renderEntities(r, model); err != nil {
			r.Error(err)
		}

	case ".strict":
		if len(parts) > 1 {
			on, err := parseSwitch(parts[1])
			if err != nil {
				r.Error(err)
				return false
			}
			s.mu.Lock()
			s.strict = on
			s.mu.Unlock()
		}
		s.mu.RLock()
		r.Printf("strict: %s\n", onOff(s.strict))
		s.mu.RUnlock()

	case ".output":
		if len(parts) < 2 {
			r.Printf("output: %s\n", r.Mode())
			return false
		}
		mode := output.Mode(parts[1])
		if mode == output.ModeAuto && parts[1] != string(output.ModeAuto) {
			r.Error(fmt.Errorf("unknown output mode %q", parts[1]))
			return false
		}
		s.mu.Lock()
		s.mode = mode
		s.mu.Unlock()

	case ".reload":
		if err := s.reload(); err != nil {
			r.Error(err)
			return false
		}
		r.Println("metamodel reloaded")

	case ".clear":
		r.Printf("\033[H\033[2J")

	default:
		r.Error(fmt.Errorf("unknown command: %s (type .help for commands)", command))
	}
	return false
}

// reload replaces the metamodel with the current content of its file. The
// old model stays in place when the file does not load.
func (s *replSession) reload() error {
	model, err := s.cmdCtx.LoadModel()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.model = model
	s.mu.Unlock()
	return nil
}

// watch reloads the metamodel on changes to its file until ctx is done.
func (s *replSession) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Editors often replace the file, so watch its directory.
	path := filepath.Clean(s.cmdCtx.Cfg.MetamodelPath)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(reloadDebounce, func() {
				s.cmdCtx.Logger.Debug("metamodel changed, reloading", "file", event.Name)
				if err := s.reload(); err != nil {
					s.cmdCtx.Logger.Error("metamodel reload failed", "error", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.cmdCtx.Logger.Error("watcher error", "error", err)
		}
	}
}

// completer offers dot-commands, keywords and entity names.
func (s *replSession) completer() *readline.PrefixCompleter {
	s.mu.RLock()
	model := s.model
	s.mu.RUnlock()

	var words []string
	for _, e := range model.Entities() {
		words = append(words, e.Name())
	}
	words = append(words,
		"select", "from", "where", "join", "left", "fetch", "treat",
		"group", "order", "by", "having", "update", "delete", "insert",
	)
	sort.Strings(words)

	items := make([]readline.PrefixCompleterInterface, 0, len(words)+8)
	for _, w := range words {
		items = append(items, readline.PcItem(w))
	}
	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".entities"),
		readline.PcItem(".strict", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem(".output", readline.PcItem("text"), readline.PcItem("table"), readline.PcItem("json")),
		readline.PcItem(".reload"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
	return readline.NewPrefixCompleter(items...)
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help              Show this help message
  .entities          List the entity types of the metamodel
  .strict [on|off]   Show or set strict compliance
  .output [mode]     Show or set the output mode (text, table, json)
  .reload            Reload the metamodel file
  .clear             Clear the screen
  .quit / .exit      Exit the REPL

Tips:
  - Queries must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completion works for entity names and keywords
`
	_, _ = fmt.Fprintln(w, help)
}
