package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suderio/rpdice/internal/parser"
)

func mustParse(t *testing.T, input string) parser.RollCommand {
	t.Helper()
	cmd, err := parser.Parse(input)
	require.NoError(t, err)
	return cmd
}

func TestRollBasic(t *testing.T) {
	out := Evaluate(mustParse(t, "3d6+2"), NewScript(4, 2, 5))

	require.Len(t, out.Repetitions, 1)
	assert.Equal(t, int64(13), out.Total)
	assert.Equal(t, []string{"[4 2 5] + 2 = 13"}, out.Lines())
}

func TestRollRange(t *testing.T) {
	gen := NewGenerator(7)
	for _, input := range []string{"1d1", "3d6", "10d20", "2d100"} {
		cmd := mustParse(t, input)
		term := cmd.Terms[0]
		lo, hi := int64(term.Count), int64(term.Count)*int64(term.Sides)

		for i := 0; i < 200; i++ {
			total := Evaluate(cmd, gen).Total
			assert.GreaterOrEqual(t, total, lo, input)
			assert.LessOrEqual(t, total, hi, input)
		}
	}
}

func TestRollKeepHigh(t *testing.T) {
	out := Evaluate(mustParse(t, "4d6kh3"), NewScript(4, 1, 6, 5))

	assert.Equal(t, int64(15), out.Total)
	assert.Equal(t, []int64{6, 5, 4, 1}, out.Repetitions[0].Terms[0].Dice)
	assert.Equal(t, []string{"[6 5 4 (1)] = 15"}, out.Lines())
}

func TestRollKeepLow(t *testing.T) {
	out := Evaluate(mustParse(t, "4d6kl2"), NewScript(4, 1, 6, 5))

	assert.Equal(t, int64(5), out.Total)
	assert.Equal(t, "[1 4 (5) (6)] = 5", out.Repetitions[0].String())
}

func TestRollKeepZero(t *testing.T) {
	out := Evaluate(mustParse(t, "2d6kh0+3"), NewScript(2, 5))

	assert.Equal(t, int64(3), out.Total)
	assert.Equal(t, "[(5) (2)] + 3 = 3", out.Repetitions[0].String())
}

func TestKeptSumIsMonotonic(t *testing.T) {
	faces := []int64{3, 6, 1, 5, 2, 4}

	previous := int64(-1)
	for k := 0; k <= len(faces); k++ {
		cmd := parser.RollCommand{
			Terms:   []parser.DieTerm{{Sign: 1, Count: 6, Sides: 6, Discard: parser.KeepHigh, Keep: uint32(k)}},
			Repeats: 1,
		}
		total := Evaluate(cmd, NewScript(faces...)).Total
		assert.GreaterOrEqual(t, total, previous, "kh%d", k)
		previous = total
	}
	assert.Equal(t, int64(21), previous)

	lowest := Evaluate(parser.RollCommand{
		Terms:   []parser.DieTerm{{Sign: 1, Count: 6, Sides: 6, Discard: parser.KeepLow, Keep: 2}},
		Repeats: 1,
	}, NewScript(faces...)).Total
	assert.Equal(t, int64(3), lowest)
}

func TestRollCompound(t *testing.T) {
	out := Evaluate(mustParse(t, "2d6-d4+2d8kh1-1"), NewScript(3, 1, 4, 2, 7))

	assert.Equal(t, int64(3+1-4+7-1), out.Total)
	assert.Equal(t, "[3 1] - [4] + [7 (2)] - 1 = 6", out.Repetitions[0].String())
}

func TestRollNegativeFirstTerm(t *testing.T) {
	out := Evaluate(mustParse(t, "-d6+10"), NewScript(4))
	assert.Equal(t, "-[4] + 10 = 6", out.Repetitions[0].String())
}

func TestRollFlatOnly(t *testing.T) {
	out := Evaluate(mustParse(t, "5-7"), NewScript())
	assert.Equal(t, []string{"-2 = -2"}, out.Lines())
}

func TestRollRepeats(t *testing.T) {
	out := Evaluate(mustParse(t, "d6+1r3"), NewScript(2, 6, 3))

	assert.Equal(t, int64(3+7+4), out.Total)
	assert.Equal(t, []string{
		"[2] + 1 = 3",
		"Repeating roll #2:",
		"[6] + 1 = 7",
		"Repeating roll #3:",
		"[3] + 1 = 4",
		"Sum of all rolls: 14",
	}, out.Lines())
}

func TestRollAdvantage(t *testing.T) {
	out := Evaluate(mustParse(t, "d20+5ra"), NewScript(7, 14))

	require.Len(t, out.Repetitions, 2)
	assert.Equal(t, int64(19), out.Total)
	assert.Equal(t, []string{
		"[7] + 5 = 12",
		"[14] + 5 = 19",
		"Rolled with advantage, final result: 19",
	}, out.Lines())
}

func TestRollDisadvantage(t *testing.T) {
	out := Evaluate(mustParse(t, "d20+5rd"), NewScript(7, 14))

	assert.Equal(t, int64(12), out.Total)
	assert.Equal(t, "Rolled with disadvantage, final result: 12", out.Lines()[2])
}

func TestEvaluateRejectsZeroSides(t *testing.T) {
	cmd := parser.RollCommand{Terms: []parser.DieTerm{{Sign: 1, Count: 1}}, Repeats: 1}
	assert.Panics(t, func() { Evaluate(cmd, NewScript(1)) })
}
