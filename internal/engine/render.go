package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/suderio/rpdice/internal/parser"
)

// String renders the dice of a term, dropped dice in parentheses: "[6 5 4 (1)]".
func (t TermResult) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range t.Dice {
		if i > 0 {
			b.WriteByte(' ')
		}
		if i >= t.Kept {
			fmt.Fprintf(&b, "(%d)", v)
		} else {
			b.WriteString(strconv.FormatInt(v, 10))
		}
	}
	b.WriteByte(']')
	return b.String()
}

// String renders one repetition: "[4 2] - [3] + 2 = 3".
func (r Repetition) String() string {
	var b strings.Builder
	for i, term := range r.Terms {
		switch {
		case i == 0 && term.Sign < 0:
			b.WriteByte('-')
		case i > 0 && term.Sign < 0:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		b.WriteString(term.String())
	}

	switch {
	case len(r.Terms) == 0:
		b.WriteString(strconv.FormatInt(r.Modifier, 10))
	case r.Modifier > 0:
		b.WriteString(" + " + strconv.FormatInt(r.Modifier, 10))
	case r.Modifier < 0:
		b.WriteString(" - " + magnitude(r.Modifier))
	}

	b.WriteString(" = " + strconv.FormatInt(r.Total, 10))
	return b.String()
}

// Lines renders the whole outcome the way the interactive session prints it.
func (o Outcome) Lines() []string {
	lines := make([]string, 0, 2*len(o.Repetitions)+1)

	for i, rep := range o.Repetitions {
		if i > 0 && o.Advantage == parser.NoAdvantage {
			lines = append(lines, fmt.Sprintf("Repeating roll #%d:", i+1))
		}
		lines = append(lines, rep.String())
	}

	switch o.Advantage {
	case parser.WithAdvantage:
		lines = append(lines, fmt.Sprintf("Rolled with advantage, final result: %d", o.Total))
	case parser.WithDisadvantage:
		lines = append(lines, fmt.Sprintf("Rolled with disadvantage, final result: %d", o.Total))
	default:
		if len(o.Repetitions) > 1 {
			lines = append(lines, fmt.Sprintf("Sum of all rolls: %d", o.Total))
		}
	}

	return lines
}

// magnitude formats |v| without overflowing on math.MinInt64.
func magnitude(v int64) string {
	if v >= 0 {
		return strconv.FormatInt(v, 10)
	}
	return strconv.FormatUint(uint64(-(v+1))+1, 10)
}
