package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suderio/rpdice/internal/parser"
)

func TestParseCompoundExpression(t *testing.T) {
	p := parser.Build()

	expr, err := p.ParseString("", "4d6kh3+2d4-1")
	require.NoError(t, err)
	require.Len(t, expr.Terms, 3)

	first := expr.Terms[0]
	assert.Nil(t, first.Sign)
	require.NotNil(t, first.Operand())
	assert.Equal(t, "4", *first.Operand().Count)
	require.NotNil(t, first.Operand().Die())
	assert.Equal(t, "6", *first.Operand().Die().Sides)
	require.NotNil(t, first.Operand().Die().Keep)
	assert.True(t, first.Operand().Die().Keep.High())
	assert.Equal(t, "3", *first.Operand().Die().Keep.Count)

	second := expr.Terms[1]
	require.NotNil(t, second.Sign)
	assert.Equal(t, "+", *second.Sign)
	assert.Equal(t, "4", *second.Operand().Die().Sides)

	third := expr.Terms[2]
	assert.Equal(t, "-", *third.Sign)
	assert.Nil(t, third.Operand().Die())
	assert.Equal(t, "1", *third.Operand().Count)

	assert.Empty(t, expr.Repeats)
}

func TestParseBareDieAndRepeat(t *testing.T) {
	p := parser.Build()

	expr, err := p.ParseString("", "d20+5ra")
	require.NoError(t, err)
	require.Len(t, expr.Terms, 2)
	assert.Nil(t, expr.Terms[0].Operand().Count)
	assert.NotNil(t, expr.Terms[0].Operand().BareDice)

	require.Len(t, expr.Repeats, 1)
	assert.Equal(t, "ra", expr.Repeats[0].Marker)
	assert.Nil(t, expr.Repeats[0].Count)
}

func TestParseDanglingSignKeepsEmptyOperand(t *testing.T) {
	p := parser.Build()

	expr, err := p.ParseString("", "d6+")
	require.NoError(t, err)
	require.Len(t, expr.Terms, 2)
	assert.Nil(t, expr.Terms[1].Operand())
}

func TestParseRejectsStrayTokens(t *testing.T) {
	p := parser.Build()

	for _, input := range []string{"2d6khkh3", "5kh1", "d6x", "r2+3"} {
		t.Run(input, func(t *testing.T) {
			_, err := p.ParseString("", input)
			assert.Error(t, err)
		})
	}
}
