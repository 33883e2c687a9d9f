/* dispatcher.go
 * Contains the Dispatcher, which turns one input line into a stack mutation and/or a collaborator call. The per
 * context command tables live in tables.go
 */

package shell

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-andiamo/splitter"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"go.uber.org/zap"

	"vex-shell/config"
)

const (
	verbGlobal = "global"
	verbExit   = "exit"
	verbHelp   = "help"
)

// Result is the outcome of a line that dispatched without error
type Result struct {
	Output    string
	Terminate bool // `exit` with nothing left to pop; the session should end
}

// Dispatcher owns a session's context stack and routes input lines against it. It is not safe for concurrent use;
// front ends with several users keep one Dispatcher per session.
type Dispatcher struct {
	stack    Stack
	config   config.Configuration
	services Services
	logger   *zap.Logger
	splitter splitter.Splitter
}

// line is one tokenised input line. Handlers queue pushes on it; they are applied only if the handler succeeds.
type line struct {
	verb   string // lower-cased first token
	raw    string // first token as typed
	args   []string
	global bool
	pushes []Context
}

func (l *line) push(c Context) {
	l.pushes = append(l.pushes, c)
}

// NewDispatcher creates a Dispatcher with an empty stack. cfg is copied and never modified.
func NewDispatcher(cfg config.Configuration, services Services, logger *zap.Logger) (*Dispatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	// splitter is used over strings.Fields so quoted arguments such as "Science Division" stay one token
	sp, err := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	if err != nil {
		return nil, fmt.Errorf("failed to create input splitter: %w", err)
	}
	return &Dispatcher{
		config:   cfg,
		services: services,
		logger:   logger,
		splitter: sp,
	}, nil
}

// Prompt renders the prompt for the current stack
func (d *Dispatcher) Prompt() string {
	return RenderPrompt(&d.stack)
}

// Contexts returns a copy of the current stack, outermost first
func (d *Dispatcher) Contexts() []Context {
	return d.stack.Contexts()
}

// Dispatch processes one input line.
//
// `exit` pops the stack, or terminates when it is already empty. `global <verb>` evaluates <verb> against the Base
// table without clearing the stack; contexts it creates are appended and the first of them starts a new chain.
// Every other line is routed through the chain that starts at the most recent such root.
//
// Errors are *CommandError for rejected input, or wrap a collaborator error. The stack is unchanged on error.
func (d *Dispatcher) Dispatch(ctx context.Context, input string) (Result, error) {
	tokens, err := d.tokenize(input)
	if err != nil {
		return Result{}, err
	}

	l := &line{}
	view := d.stack.chain()
	if len(tokens) > 0 && strings.EqualFold(tokens[0], verbGlobal) {
		if len(tokens) == 1 {
			return Result{}, missingArgument(verbGlobal, "command")
		}
		l.global = true
		tokens = tokens[1:]
		view = nil
	}

	if len(tokens) == 0 {
		if !isStandaloneStats(view) {
			return Result{}, nil
		}
	} else {
		l.raw = tokens[0]
		l.verb = strings.ToLower(tokens[0])
		l.args = tokens[1:]
	}

	d.logger.Debug("dispatching line",
		zap.String("verb", l.verb),
		zap.Strings("args", l.args),
		zap.Bool("global", l.global),
		zap.Int("depth", d.stack.Len()),
	)

	if l.verb == verbExit {
		return d.exit(l), nil
	}

	out, err := d.route(ctx, view, l)
	if err != nil {
		d.logger.Debug("line rejected", zap.String("verb", l.verb), zap.Error(err))
		return Result{}, err
	}

	for i, c := range l.pushes {
		if l.global && i == 0 {
			d.stack.PushRoot(c)
			continue
		}
		d.stack.Push(c)
	}
	return Result{Output: out}, nil
}

func (d *Dispatcher) exit(l *line) Result {
	if l.global {
		return Result{Terminate: true}
	}
	if _, ok := d.stack.Pop(); !ok {
		return Result{Terminate: true}
	}
	return Result{}
}

// tokenize splits a line on spaces, keeping double-quoted groups together and dropping the quotes
func (d *Dispatcher) tokenize(input string) ([]string, error) {
	input = strings.TrimSpace(strings.ReplaceAll(input, "\t", " "))
	if input == "" {
		return nil, nil
	}

	parts, err := d.splitter.Split(input)
	if err != nil {
		return nil, &CommandError{Kind: ErrInvalidInput, Msg: "could not parse line", Err: err}
	}

	quotes := strings.NewReplacer("\"", "", "“", "", "”", "")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(quotes.Replace(p))
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens, nil
}

// route picks the table for the first context of the chain. Each table descends into the rest of the chain itself
func (d *Dispatcher) route(ctx context.Context, view []Context, l *line) (string, error) {
	if len(view) == 0 {
		return d.base(l)
	}

	switch c := view[0].(type) {
	case Config:
		return d.configTable(l)
	case Competition:
		return d.competition(ctx, scopeFor(c), view[1:], l)
	case Team:
		return d.team(ctx, scopeFor(c), view[1:], l, nil)
	case Organization:
		return d.team(ctx, scopeFor(c), view[1:], l, nil)
	case Stats:
		return d.standaloneStats(ctx, l)
	case Base, Division, Round, MatchList, Match, History:
		return "", fmt.Errorf("shell: %T cannot start a context chain", c)
	}
	return "", fmt.Errorf("shell: unknown context %T", view[0])
}

func isStandaloneStats(view []Context) bool {
	if len(view) != 1 {
		return false
	}
	_, ok := view[0].(Stats)
	return ok
}

// unknown builds an UnknownCommand error with the closest verb from the active table, if any
func (d *Dispatcher) unknown(l *line, verbs []string) error {
	return unknownCommand(l.raw, suggest(l.verb, verbs))
}

func suggest(verb string, verbs []string) string {
	if verb == "" {
		return ""
	}
	ranks := fuzzy.RankFind(verb, verbs)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}

func help(verbs []string) string {
	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, v := range verbs {
		fmt.Fprintf(&b, "- %s\n", v)
	}
	return b.String()
}
