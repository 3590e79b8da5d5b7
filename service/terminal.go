package service

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/ludo-technologies/textscope/domain"
)

// TerminalConfirmer asks y/N questions on a terminal.
type TerminalConfirmer struct {
	in  io.Reader
	out io.Writer
	// assumeYes answers every question with yes (for --yes).
	assumeYes bool
}

// NewTerminalConfirmer creates a confirmer reading answers from in.
func NewTerminalConfirmer(in io.Reader, out io.Writer, assumeYes bool) *TerminalConfirmer {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stderr
	}
	return &TerminalConfirmer{in: in, out: out, assumeYes: assumeYes}
}

// Confirm implements domain.Confirmer. Only "y" and "yes" approve.
func (c *TerminalConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if c.assumeYes {
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	fmt.Fprintf(c.out, "%s [y/N]: ", prompt)
	answer, err := bufio.NewReader(c.in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, domain.NewInvalidInputError("failed to read confirmation", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ReadPassword reads a password without echo when in is a terminal, or a
// single line otherwise (for --password-stdin).
func ReadPassword(in *os.File, out io.Writer, prompt string) (string, error) {
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(out, prompt)
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", domain.NewInvalidInputError("failed to read password", err)
		}
		return string(raw), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", domain.NewInvalidInputError("failed to read password", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadLine prompts for a single line of input.
func ReadLine(in io.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", domain.NewInvalidInputError("failed to read input", err)
	}
	return strings.TrimSpace(line), nil
}

// IsInteractiveEnvironment reports whether stderr is a terminal.
func IsInteractiveEnvironment() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
