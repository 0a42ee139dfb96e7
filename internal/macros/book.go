// Package macros loads named roll expressions from YAML files, so that "@fireball"
// can stand in for "8d6".
//
// A macro file looks like:
//
//	macros:
//	  fireball: 8d6
//	  stats: 4d6kh3 r6
//	  sneak: d20+7 ra
package macros

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/suderio/rpdice/internal/parser"
)

// Prefix marks a macro reference at the start of a line.
const Prefix = "@"

// ErrUnknownMacro is returned by Expand for names missing from the book.
var ErrUnknownMacro = errors.New("unknown macro")

var nameRegex = regexp.MustCompile(`^[a-z][a-z0-9_-]*`)

type file struct {
	Macros map[string]string `yaml:"macros"`
}

// Book maps macro names to normalized roll expressions.
type Book struct {
	macros map[string]string
}

// NewBook creates a book from name/expression pairs without validating them.
func NewBook(entries map[string]string) *Book {
	b := &Book{macros: make(map[string]string, len(entries))}
	for name, expr := range entries {
		b.macros[strings.ToLower(name)] = parser.Normalize(expr)
	}
	return b
}

// Load reads every path in order, later files overriding earlier ones, and
// validates the result.
func Load(paths ...string) (*Book, error) {
	b := NewBook(nil)
	for _, path := range paths {
		if err := b.load(path); err != nil {
			return nil, err
		}
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Book) load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open macro file %s: %w", path, err)
	}
	defer f.Close()

	var doc file
	if err := yaml.NewDecoder(f).Decode(&doc); err != nil {
		return fmt.Errorf("failed to decode macro file %s: %w", path, err)
	}
	for name, expr := range doc.Macros {
		b.macros[strings.ToLower(name)] = parser.Normalize(expr)
	}
	return nil
}

// Validate checks every name and parses every expression, reporting all problems at once.
func (b *Book) Validate() error {
	var err error
	for _, name := range b.Names() {
		if nameRegex.FindString(name) != name {
			err = multierr.Append(err, fmt.Errorf("macro %q: name must match %s", name, nameRegex))
			continue
		}
		if _, perr := parser.Parse(b.macros[name]); perr != nil {
			err = multierr.Append(err, fmt.Errorf("macro %q: %w", name, perr))
		}
	}
	return err
}

// Get returns the expression stored under name.
func (b *Book) Get(name string) (string, bool) {
	expr, ok := b.macros[name]
	return expr, ok
}

// Names returns the macro names in sorted order.
func (b *Book) Names() []string {
	names := make([]string, 0, len(b.macros))
	for name := range b.macros {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of macros in the book.
func (b *Book) Len() int {
	return len(b.macros)
}

// Expand replaces a leading "@name" in a normalized line with its expression.
// Anything after the name is appended, so "@fireball+2" becomes "8d6+2".
// Lines without the prefix are returned unchanged.
func (b *Book) Expand(line string) (string, error) {
	if !strings.HasPrefix(line, Prefix) {
		return line, nil
	}

	rest := line[len(Prefix):]
	word := nameRegex.FindString(rest)
	// The longest known name wins, so "@attackra" is "@attack" followed by "ra".
	for name := word; name != ""; name = name[:len(name)-1] {
		if expr, ok := b.macros[name]; ok {
			return expr + rest[len(name):], nil
		}
	}
	return "", fmt.Errorf("%w %s%s: %w", parser.ErrMalformedCommand, Prefix, word, ErrUnknownMacro)
}
