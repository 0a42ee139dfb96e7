package session

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Banner is printed once before the first prompt.
var Banner = []string{
	"Input your roll or q to quit",
	"Format: XdY(khZ|klZ)(+XdY...)(+M|-M)(ra|rd|rQ), s<seed> to reseed, @macro, ?check",
}

// Run reads one command per line from in until the quit sentinel or end of input.
// Results go to out, rejected lines to errOut. Blank lines are skipped.
func (s *Session) Run(in io.Reader, out, errOut io.Writer) error {
	if s.banner {
		for _, line := range Banner {
			fmt.Fprintln(out, line)
		}
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, s.prompt)
		if !scanner.Scan() {
			break
		}

		input := scanner.Text()
		if strings.TrimSpace(input) == "" {
			continue
		}

		reply := s.Execute(input)
		for _, line := range reply.Lines {
			fmt.Fprintln(out, line)
		}
		if reply.Err != nil {
			fmt.Fprintln(errOut, reply.ErrLine)
		}
		if reply.Quit {
			return nil
		}
	}

	// End of input leaves the cursor after the prompt.
	if s.prompt != "" {
		fmt.Fprintln(out)
	}
	return scanner.Err()
}
