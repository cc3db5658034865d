// Package prompt reads secrets from the operator's terminal.
package prompt

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrMismatch is returned by NewPassword when the two entries differ.
var ErrMismatch = errors.New("passwords do not match")

// ErrEmpty is returned by NewPassword for an empty entry.
var ErrEmpty = errors.New("password must not be empty")

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// Password prints label to w and reads a line from the terminal without
// echo. A newline is printed after the read to keep the UI tidy.
func Password(w io.Writer, label string) ([]byte, error) {
	if _, err := fmt.Fprint(w, label); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// NewPassword asks for a password twice and returns it when both entries
// match.
func NewPassword(w io.Writer) (string, error) {
	first, err := Password(w, "New password: ")
	if err != nil {
		return "", err
	}
	defer Wipe(first)
	if len(first) == 0 {
		return "", ErrEmpty
	}

	second, err := Password(w, "Repeat password: ")
	if err != nil {
		return "", err
	}
	defer Wipe(second)

	if !bytes.Equal(first, second) {
		return "", ErrMismatch
	}
	return string(first), nil
}

// Wipe overwrites b with zeros. Nil is a no-op.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
