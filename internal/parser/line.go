package parser

import (
	"strconv"
	"strings"
)

// LineKind tells the session what to do with a line.
type LineKind int

const (
	LineRoll LineKind = iota
	LineQuit
	LineReseed
)

// ReseedMode describes how a reseed line asked for the new seed.
type ReseedMode int

const (
	// ReseedExplicit carries a seed in Line.Seed.
	ReseedExplicit ReseedMode = iota
	// ReseedClock asks for a fresh seed from the wall clock ("s" alone).
	ReseedClock
	// ReseedUnparsed means the digits could not be read; the current generator is kept.
	ReseedUnparsed
)

// Line is a classified input line.
type Line struct {
	Kind    LineKind
	Command RollCommand
	Reseed  ReseedMode
	Seed    uint64
}

// ParseLine recognizes the quit and reseed sentinels and otherwise parses a roll.
// The input must already be normalized.
func ParseLine(input string) (Line, error) {
	switch {
	case strings.HasPrefix(input, "q"):
		return Line{Kind: LineQuit}, nil
	case strings.HasPrefix(input, "s"):
		return parseReseed(input[1:]), nil
	}

	cmd, err := Parse(input)
	if err != nil {
		return Line{}, err
	}
	return Line{Kind: LineRoll, Command: cmd}, nil
}

func parseReseed(digits string) Line {
	line := Line{Kind: LineReseed}
	if digits == "" {
		line.Reseed = ReseedClock
		return line
	}
	seed, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		line.Reseed = ReseedUnparsed
		return line
	}
	line.Seed = seed
	return line
}
