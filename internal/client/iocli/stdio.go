package iocli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Stdio реализует IO поверх os.Stdin и заданного writer
type Stdio struct {
	out   io.Writer
	stdin *os.File
}

// NewStdio пишет в stdout; секреты читает из stdin
func NewStdio() *Stdio {
	return NewStdioWithOutput(os.Stdout)
}

// NewStdioWithOutput пишет в out вместо stdout
func NewStdioWithOutput(out io.Writer) *Stdio {
	return &Stdio{out: out, stdin: os.Stdin}
}

func (s *Stdio) Println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}

// IsTerminal сообщает, подключен ли stdin к терминалу
func (s *Stdio) IsTerminal() bool {
	return term.IsTerminal(int(s.stdin.Fd()))
}

// ReadSecret читает строку без эха; stdin должен быть терминалом
func (s *Stdio) ReadSecret(prompt string) (string, error) {
	if !s.IsTerminal() {
		return "", fmt.Errorf("stdin is not a terminal")
	}

	s.Printf("%s", prompt)
	secret, err := term.ReadPassword(int(s.stdin.Fd()))
	s.Println("")
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	return strings.TrimSpace(string(secret)), nil
}
