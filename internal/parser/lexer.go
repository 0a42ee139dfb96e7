package parser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer splits normalized dice notation into tokens for the grammar in `ast.go`.
// Rule order matters: "rd" must lex as a Repeat before "d" can lex as a Die.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keep", Pattern: `k[hl]`},
	{Name: "Repeat", Pattern: `r[ad]?`},
	{Name: "Die", Pattern: `d`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Sign", Pattern: `[+-]`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

// Build creates our parser based on the struct tags in `ast.go`
func Build() *participle.Parser[Expression] {
	return participle.MustBuild[Expression](
		participle.Lexer(Lexer),
		participle.Elide("Whitespace"),
	)
}

var grammar = Build()
