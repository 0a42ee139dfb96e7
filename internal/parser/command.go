package parser

import (
	"errors"
	"math"
	"math/bits"
	"strconv"
)

// Discard is the keep policy of a single die term.
type Discard int

const (
	KeepAll Discard = iota
	KeepHigh
	KeepLow
)

func (d Discard) String() string {
	switch d {
	case KeepHigh:
		return "kh"
	case KeepLow:
		return "kl"
	default:
		return ""
	}
}

// Advantage marks a command rolled twice and reduced to its best or worst total.
type Advantage int

const (
	NoAdvantage Advantage = iota
	WithAdvantage
	WithDisadvantage
)

// DieTerm is one signed XdY group. Keep is only meaningful when Discard is not KeepAll.
type DieTerm struct {
	Sign    int
	Count   uint32
	Sides   uint32
	Discard Discard
	Keep    uint32
}

// Kept returns how many dice of the term count towards the total.
func (t DieTerm) Kept() uint32 {
	if t.Discard == KeepAll || t.Keep > t.Count {
		return t.Count
	}
	return t.Keep
}

// RollCommand is the structured form of one roll line.
type RollCommand struct {
	Terms        []DieTerm
	FlatModifier int64
	Repeats      uint32
	Advantage    Advantage
}

// DiceCount is the number of dice drawn when the command is evaluated.
// It saturates at math.MaxUint64.
func (c RollCommand) DiceCount() uint64 {
	var n, carry uint64
	for _, t := range c.Terms {
		n, carry = bits.Add64(n, uint64(t.Count), 0)
		if carry != 0 {
			return math.MaxUint64
		}
	}
	hi, lo := bits.Mul64(n, uint64(c.Repeats))
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}

// Parse converts a normalized roll expression into a RollCommand.
// The input must already be stripped of whitespace and lower-cased.
func Parse(input string) (RollCommand, error) {
	if input == "" {
		return RollCommand{}, newError(MalformedCommand, input, "empty input")
	}

	expr, err := grammar.ParseString("", input)
	if err != nil {
		return RollCommand{}, &Error{Kind: MalformedCommand, Input: input, Detail: err.Error()}
	}

	l := lowering{input: input}
	return l.command(expr)
}

type lowering struct {
	input string
}

func (l lowering) command(expr *Expression) (RollCommand, error) {
	cmd := RollCommand{Repeats: 1}

	if len(expr.Terms) == 0 {
		return cmd, newError(MalformedCommand, l.input, "nothing to roll")
	}

	explicitKeep := false
	for i, term := range expr.Terms {
		sign := 1
		if term.Sign != nil {
			if *term.Sign == "-" {
				sign = -1
			}
		} else if i > 0 {
			return cmd, newError(MalformedCommand, l.input, "term %d is missing its sign", i+1)
		}

		op := term.Operand()
		if op == nil {
			return cmd, newError(UnparsableNumber, l.input, "sign %q is not followed by a number", *term.Sign)
		}

		die := op.Die()
		if die == nil {
			flat, err := l.parseInt64(*op.Count)
			if err != nil {
				return cmd, err
			}
			if cmd.FlatModifier, err = l.addFlat(cmd.FlatModifier, int64(sign)*flat); err != nil {
				return cmd, err
			}
			continue
		}

		dt, err := l.dieTerm(sign, op.Count, die)
		if err != nil {
			return cmd, err
		}
		if dt.Discard != KeepAll {
			explicitKeep = true
		}
		cmd.Terms = append(cmd.Terms, dt)
	}

	if err := l.repeats(&cmd, expr.Repeats); err != nil {
		return cmd, err
	}
	if cmd.Advantage != NoAdvantage && explicitKeep {
		return cmd, newError(Conflict, l.input, "advantage cannot be combined with kh/kl")
	}
	if err := l.checkTotals(cmd); err != nil {
		return cmd, err
	}
	return cmd, nil
}

// checkTotals rejects commands whose worst-case total does not fit in an int64.
// Every partial sum the evaluator forms is bounded by the same figure.
func (l lowering) checkTotals(cmd RollCommand) error {
	bound := absInt64(cmd.FlatModifier)
	var carry uint64
	for _, t := range cmd.Terms {
		bound, carry = bits.Add64(bound, uint64(t.Kept())*uint64(t.Sides), 0)
		if carry != 0 {
			return newError(UnparsableNumber, l.input, "total is out of range")
		}
	}
	// Advantage keeps one repetition, so only summed repeats widen the range.
	if cmd.Advantage == NoAdvantage {
		hi, lo := bits.Mul64(bound, uint64(cmd.Repeats))
		if hi != 0 {
			return newError(UnparsableNumber, l.input, "total is out of range")
		}
		bound = lo
	}
	if bound > math.MaxInt64 {
		return newError(UnparsableNumber, l.input, "total is out of range")
	}
	return nil
}

func absInt64(v int64) uint64 {
	if v >= 0 {
		return uint64(v)
	}
	return uint64(-(v + 1)) + 1
}

func (l lowering) dieTerm(sign int, count *string, die *DiceExpr) (DieTerm, error) {
	dt := DieTerm{Sign: sign, Count: 1}

	if count != nil {
		n, err := l.parseUint32(*count)
		if err != nil {
			return dt, err
		}
		if n == 0 {
			return dt, newError(MalformedCommand, l.input, "cannot roll zero dice")
		}
		dt.Count = n
	}

	if die.Sides == nil {
		return dt, newError(UnparsableNumber, l.input, "die is missing its number of sides")
	}
	sides, err := l.parseUint32(*die.Sides)
	if err != nil {
		return dt, err
	}
	if sides == 0 {
		return dt, newError(MalformedCommand, l.input, "cannot roll a die with 0 sides")
	}
	dt.Sides = sides

	if die.Keep == nil {
		return dt, nil
	}
	if die.Keep.Count == nil {
		return dt, newError(UnparsableNumber, l.input, "%s is missing the number of dice to keep", die.Keep.Marker)
	}
	keep, err := l.parseUint32(*die.Keep.Count)
	if err != nil {
		return dt, err
	}
	// Keeping more dice than rolled is silently treated as keeping all of them.
	if keep > dt.Count {
		return dt, nil
	}
	dt.Keep = keep
	dt.Discard = KeepLow
	if die.Keep.High() {
		dt.Discard = KeepHigh
	}
	return dt, nil
}

func (l lowering) repeats(cmd *RollCommand, suffixes []*RepeatExpr) error {
	if len(suffixes) == 0 {
		return nil
	}
	if len(suffixes) > 1 {
		return newError(Conflict, l.input, "only one repeat suffix is allowed")
	}

	rep := suffixes[0]
	switch rep.Marker {
	case "ra", "rd":
		if rep.Count != nil {
			return newError(Conflict, l.input, "%s already implies two rolls", rep.Marker)
		}
		cmd.Repeats = 2
		cmd.Advantage = WithAdvantage
		if rep.Marker == "rd" {
			cmd.Advantage = WithDisadvantage
		}
		return nil
	}

	if rep.Count == nil {
		return newError(UnparsableNumber, l.input, "repeat is missing its count")
	}
	n, err := l.parseUint32(*rep.Count)
	if err != nil {
		return err
	}
	if n == 0 {
		return newError(MalformedCommand, l.input, "cannot repeat a roll zero times")
	}
	cmd.Repeats = n
	return nil
}

func (l lowering) parseUint32(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, l.numberError(s, err)
	}
	return uint32(n), nil
}

func (l lowering) parseInt64(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, l.numberError(s, err)
	}
	return n, nil
}

func (l lowering) numberError(s string, err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return newError(UnparsableNumber, l.input, "%s is out of range", s)
	}
	return newError(UnparsableNumber, l.input, "%q is not a number", s)
}

func (l lowering) addFlat(sum, v int64) (int64, error) {
	if (v > 0 && sum > math.MaxInt64-v) || (v < 0 && sum < math.MinInt64-v) {
		return 0, newError(UnparsableNumber, l.input, "flat modifier is out of range")
	}
	return sum + v, nil
}
