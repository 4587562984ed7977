package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter reads answers from the user.
type Prompter interface {
	ReadLine(prompt string) (string, error)
	ReadSecret(prompt string) (string, error)
}

// TermPrompter reads from a terminal; secrets are read without echo when
// the input is a TTY.
type TermPrompter struct {
	in     *os.File
	out    io.Writer
	reader *bufio.Reader
}

func NewTermPrompter(in *os.File, out io.Writer) *TermPrompter {
	return &TermPrompter{in: in, out: out, reader: bufio.NewReader(in)}
}

func (p *TermPrompter) ReadLine(prompt string) (string, error) {
	line, err := p.readRaw(prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readRaw returns the next input line with only its line ending removed.
func (p *TermPrompter) readRaw(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *TermPrompter) ReadSecret(prompt string) (string, error) {
	fd := int(p.in.Fd())
	if !term.IsTerminal(fd) {
		return p.readRaw(prompt)
	}

	fmt.Fprint(p.out, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
