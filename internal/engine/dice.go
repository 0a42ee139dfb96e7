package engine

import (
	"cmp"
	"slices"

	"github.com/suderio/rpdice/internal/parser"
)

// TermResult holds the dice of one term after the keep policy has ordered them.
// Dice[:Kept] count towards the total, the rest are shown as dropped.
type TermResult struct {
	Sign int
	Dice []int64
	Kept int
}

// Sum returns the signed sum of the kept dice.
func (t TermResult) Sum() int64 {
	var total int64
	for _, v := range t.Dice[:t.Kept] {
		total += v
	}
	return int64(t.Sign) * total
}

// Repetition is one full evaluation of a command.
type Repetition struct {
	Terms    []TermResult
	Modifier int64
	Total    int64
}

// Outcome contains the finalized answer alongside every repetition used to reach it.
type Outcome struct {
	Repetitions []Repetition
	Advantage   parser.Advantage
	Total       int64
}

// Evaluate rolls cmd against src.
//
// Each repetition draws every term in order, orders the dice by the term's keep
// policy, sums the kept dice with the term's sign and adds the flat modifier.
// Repetition totals are summed, or reduced to the max (advantage) or min
// (disadvantage).
func Evaluate(cmd parser.RollCommand, src Source) Outcome {
	repeats := int(cmd.Repeats)
	if repeats < 1 {
		repeats = 1
	}

	out := Outcome{
		Repetitions: make([]Repetition, 0, repeats),
		Advantage:   cmd.Advantage,
	}

	for i := 0; i < repeats; i++ {
		rep := evaluateOnce(cmd, src)
		out.Repetitions = append(out.Repetitions, rep)

		switch {
		case i == 0:
			out.Total = rep.Total
		case cmd.Advantage == parser.WithAdvantage:
			out.Total = max(out.Total, rep.Total)
		case cmd.Advantage == parser.WithDisadvantage:
			out.Total = min(out.Total, rep.Total)
		default:
			out.Total += rep.Total
		}
	}

	return out
}

func evaluateOnce(cmd parser.RollCommand, src Source) Repetition {
	rep := Repetition{
		Terms:    make([]TermResult, 0, len(cmd.Terms)),
		Modifier: cmd.FlatModifier,
	}

	for _, term := range cmd.Terms {
		res := rollTerm(term, src)
		rep.Total += res.Sum()
		rep.Terms = append(rep.Terms, res)
	}
	rep.Total += cmd.FlatModifier

	return rep
}

func rollTerm(term parser.DieTerm, src Source) TermResult {
	if term.Count == 0 || term.Sides == 0 {
		panic("engine: die term with zero count or sides reached the evaluator")
	}

	dice := make([]int64, term.Count)
	for i := range dice {
		dice[i] = src.Roll(int64(term.Sides))
	}

	switch term.Discard {
	case parser.KeepHigh:
		slices.SortFunc(dice, func(a, b int64) int { return cmp.Compare(b, a) })
	case parser.KeepLow:
		slices.Sort(dice)
	}

	return TermResult{
		Sign: term.Sign,
		Dice: dice,
		Kept: int(term.Kept()),
	}
}
