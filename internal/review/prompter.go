package review

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter supplies reviewer input. Abstracting it keeps the session loop
// testable: tests drive it with a scripted sequence instead of a terminal.
type Prompter interface {
	// Action reads one action token. Empty input is returned as-is; the
	// session decides what an empty answer defaults to.
	Action(prompt string) (string, error)
	// Label reads free-form label text, pre-filled with initial. An empty
	// submission keeps the initial text.
	Label(initial string) (string, error)
	// Confirm asks a yes/no question; empty input means no.
	Confirm(prompt string) (bool, error)
}

// TerminalPrompter reads reviewer input line by line.
type TerminalPrompter struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewTerminalPrompter builds a prompter over the given streams.
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{reader: bufio.NewReader(in), out: out}
}

func (p *TerminalPrompter) Action(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	return p.readLine()
}

func (p *TerminalPrompter) Label(initial string) (string, error) {
	fmt.Fprintf(p.out, "Label [%s]\n> ", initial)
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) == "" {
		return initial, nil
	}
	return line, nil
}

func (p *TerminalPrompter) Confirm(prompt string) (bool, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.readLine()
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func (p *TerminalPrompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
