package parser

// Expression is the raw parse tree of a roll: a run of terms followed by optional
// repeat suffixes. Numbers are captured as strings so that the lowering pass can
// tell a missing number from an out-of-range one.
type Expression struct {
	Terms   []*TermExpr   `parser:"@@*"`
	Repeats []*RepeatExpr `parser:"@@*"`
}

// TermExpr is either a signed operand (the operand may be missing, e.g. "d6+")
// or a bare leading operand.
type TermExpr struct {
	Sign    *string      `parser:"( @Sign"`
	Signed  *OperandExpr `parser:"  @@?"`
	Leading *OperandExpr `parser:"| @@ )"`
}

// Operand returns the operand regardless of which branch matched it.
func (t *TermExpr) Operand() *OperandExpr {
	if t.Signed != nil {
		return t.Signed
	}
	return t.Leading
}

// OperandExpr is `[count] d sides [keep]` or a plain integer.
type OperandExpr struct {
	Count    *string   `parser:"( @Int"`
	Dice     *DiceExpr `parser:"  @@?"`
	BareDice *DiceExpr `parser:"| @@ )"`
}

// Die returns the dice part of the operand, nil for a flat integer.
func (o *OperandExpr) Die() *DiceExpr {
	if o.Dice != nil {
		return o.Dice
	}
	return o.BareDice
}

// DiceExpr represents `d sides [kh|kl count]`.
type DiceExpr struct {
	Marker string    `parser:"@Die"`
	Sides  *string   `parser:"@Int?"`
	Keep   *KeepExpr `parser:"@@?"`
}

// KeepExpr maps parsing the optional "kh3" / "kl1" block
type KeepExpr struct {
	Marker string  `parser:"@Keep"`
	Count  *string `parser:"@Int?"`
}

// High reports whether this is a keep-highest marker.
func (k *KeepExpr) High() bool {
	return k.Marker == "kh"
}

// RepeatExpr is the trailing "r3", "ra" or "rd" suffix.
type RepeatExpr struct {
	Marker string  `parser:"@Repeat"`
	Count  *string `parser:"@Int?"`
}
