package engine

import "fmt"

// Script is a Source that replays fixed faces in order. It is meant for tests
// and panics when it runs dry or a face does not fit the die.
type Script struct {
	faces []int64
}

// NewScript prepares a sequence of deterministic results for the next calls to Roll
func NewScript(faces ...int64) *Script {
	return &Script{faces: faces}
}

// Roll implements Source.
func (s *Script) Roll(sides int64) int64 {
	if len(s.faces) == 0 {
		panic("engine: script exhausted")
	}
	v := s.faces[0]
	s.faces = s.faces[1:]
	if v < 1 || v > sides {
		panic(fmt.Sprintf("engine: scripted face %d does not fit a d%d", v, sides))
	}
	return v
}

// Remaining returns the number of faces not yet consumed.
func (s *Script) Remaining() int {
	return len(s.faces)
}
