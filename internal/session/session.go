package session

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/suderio/rpdice/internal/engine"
	"github.com/suderio/rpdice/internal/logging"
	"github.com/suderio/rpdice/internal/macros"
	"github.com/suderio/rpdice/internal/parser"
	"github.com/suderio/rpdice/internal/rules"
)

// CheckPrefix marks a line holding a CEL expression instead of dice notation.
const CheckPrefix = "?"

// Options configures a Session. The zero value is usable: it seeds from the
// clock, has no dice limit, no macros and discards logs.
type Options struct {
	// Seed for the generator; 0 derives one from the clock.
	Seed uint64
	// MaxDice rejects commands drawing more dice than this across all repeats; 0 disables the limit.
	MaxDice uint64
	Macros  *macros.Book
	Logger  *zap.Logger
	Prompt  string
	Banner  bool
}

// Session owns the generator and runs one line at a time through parser, engine and renderer.
type Session struct {
	gen     *engine.Generator
	book    *macros.Book
	rules   *rules.Registry
	log     *zap.Logger
	maxDice uint64
	prompt  string
	banner  bool
	last    int64
}

// Reply is what a single line produced.
type Reply struct {
	// Lines go to the output stream.
	Lines []string
	// Err is set when the line was rejected; ErrLine is its user-facing form.
	Err     error
	ErrLine string
	// Quit is set by the quit sentinel.
	Quit bool
}

// New bootstraps a session with its own generator.
func New(opts Options) (*Session, error) {
	s := &Session{
		book:    opts.Macros,
		log:     opts.Logger,
		maxDice: opts.MaxDice,
		prompt:  opts.Prompt,
		banner:  opts.Banner,
	}
	if s.book == nil {
		s.book = macros.NewBook(nil)
	}
	if s.log == nil {
		s.log = logging.Nop()
	}

	seed := opts.Seed
	if seed == 0 {
		seed = engine.ClockSeed()
	}
	s.gen = engine.NewGenerator(seed)
	s.log.Debug("generator seeded", zap.Uint64("seed", seed))

	reg, err := rules.NewRegistry(func(expr string) (int64, error) {
		out, err := s.Roll(expr)
		if err != nil {
			return 0, err
		}
		return out.Total, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize rules registry: %w", err)
	}
	s.rules = reg

	return s, nil
}

// Generator returns the session's random state.
func (s *Session) Generator() *engine.Generator {
	return s.gen
}

// Macros returns the loaded macro book.
func (s *Session) Macros() *macros.Book {
	return s.book
}

// Last returns the total of the most recent roll.
func (s *Session) Last() int64 {
	return s.last
}

// Execute takes a raw line from a UI client and returns what should be printed.
func (s *Session) Execute(input string) Reply {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, CheckPrefix) {
		return s.check(strings.TrimSpace(trimmed[len(CheckPrefix):]))
	}

	line, err := s.book.Expand(parser.Normalize(trimmed))
	if err != nil {
		return s.reject(input, err)
	}

	parsed, err := parser.ParseLine(line)
	if err != nil {
		return s.reject(input, err)
	}

	switch parsed.Kind {
	case parser.LineQuit:
		return Reply{Quit: true}
	case parser.LineReseed:
		s.reseed(input, parsed)
		return Reply{}
	}

	out, err := s.evaluate(line, parsed.Command)
	if err != nil {
		return s.reject(input, err)
	}
	return Reply{Lines: out.Lines()}
}

// Roll parses and evaluates a single dice expression, expanding macros.
// Sentinels are not accepted here.
func (s *Session) Roll(expr string) (engine.Outcome, error) {
	line, err := s.book.Expand(parser.Normalize(expr))
	if err != nil {
		return engine.Outcome{}, err
	}
	cmd, err := parser.Parse(line)
	if err != nil {
		return engine.Outcome{}, err
	}
	return s.evaluate(line, cmd)
}

func (s *Session) evaluate(line string, cmd parser.RollCommand) (engine.Outcome, error) {
	if s.maxDice > 0 && cmd.DiceCount() > s.maxDice {
		return engine.Outcome{}, &parser.Error{
			Kind:   parser.UnparsableNumber,
			Input:  line,
			Detail: fmt.Sprintf("%d dice exceed the limit of %d", cmd.DiceCount(), s.maxDice),
		}
	}

	out := engine.Evaluate(cmd, s.gen)
	s.last = out.Total
	s.log.Debug("rolled",
		zap.String("input", line),
		zap.Int("repetitions", len(out.Repetitions)),
		zap.Int64("total", out.Total),
	)
	return out, nil
}

func (s *Session) reseed(input string, line parser.Line) {
	switch line.Reseed {
	case parser.ReseedUnparsed:
		s.log.Warn("could not read seed, keeping current generator", zap.String("input", input))
		return
	case parser.ReseedClock:
		line.Seed = engine.ClockSeed()
	}
	s.gen.Reseed(line.Seed)
	s.log.Info("generator reseeded", zap.Uint64("seed", line.Seed))
}

func (s *Session) check(expr string) Reply {
	out, err := s.rules.Eval(expr, s.last)
	if err != nil {
		s.log.Debug("check failed", zap.String("expr", expr), zap.Error(err))
		return Reply{Err: err, ErrLine: "Check failed: " + err.Error()}
	}
	return Reply{Lines: []string{fmt.Sprintf("=> %v", out)}}
}

func (s *Session) reject(input string, err error) Reply {
	s.log.Debug("rejected", zap.String("input", input), zap.Error(err))
	return Reply{Err: err, ErrLine: parser.MapError(err)}
}
