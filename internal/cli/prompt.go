package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(prompt string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(prompt string) (bool, error) {
	return f(prompt)
}

// LineConfirmer reads a single answer line from a reader. Only the exact
// answers "y" and "Y" confirm; everything else, including an empty line or
// end of input, declines.
type LineConfirmer struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewLineConfirmer creates a confirmer that prompts on out and reads from in.
func NewLineConfirmer(in *bufio.Reader, out io.Writer) *LineConfirmer {
	return &LineConfirmer{reader: in, out: out}
}

// Confirm prints prompt and reads the answer.
func (c *LineConfirmer) Confirm(prompt string) (bool, error) {
	_, _ = fmt.Fprint(c.out, prompt)

	answer, err := readLine(c.reader)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	return answer == "y" || answer == "Y", nil
}

// ask prints label and returns the answer line.
func ask(r *bufio.Reader, w io.Writer, label string) (string, error) {
	_, _ = fmt.Fprint(w, label)
	answer, err := readLine(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return answer, nil
}

// readLine reads up to the next newline and strips the line terminator. A
// final line without newline is returned as is; io.EOF is only reported when
// nothing was read.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
