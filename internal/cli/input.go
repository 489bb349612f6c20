package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/term"
)

// ErrNoPassword is returned when neither an argument nor input supplied a password.
var ErrNoPassword = errors.New("no password provided")

// maxPasswordLine bounds a password read from a pipe.
const maxPasswordLine = 64 * 1024

// IsTerminal reports whether fd is attached to a terminal.
func IsTerminal(fd int) bool {
	return term.IsTerminal(fd)
}

// ReadPassword prompts on prompt and reads a password from stdin without
// echo when stdin is a terminal; otherwise it reads the first line of stdin.
// The caller should SecureWipe the returned bytes once done.
func ReadPassword(stdin *os.File, prompt io.Writer) ([]byte, error) {
	fd := int(stdin.Fd())
	if IsTerminal(fd) {
		fmt.Fprint(prompt, "Password: ")
		pw, err := term.ReadPassword(fd)
		fmt.Fprintln(prompt)
		if err != nil {
			return nil, fmt.Errorf("failed to read password: %w", err)
		}
		return pw, nil
	}
	return ReadLine(stdin)
}

// ReadLine reads the first line of r without its line ending. An
// empty stream yields ErrNoPassword; an empty first line is a valid (empty)
// password.
func ReadLine(r io.Reader) ([]byte, error) {
	reader := bufio.NewReaderSize(r, 4096)
	var line []byte
	for {
		chunk, isPrefix, err := reader.ReadLine()
		if err != nil {
			if err == io.EOF {
				if line == nil {
					return nil, ErrNoPassword
				}
				break
			}
			SecureWipe(line)
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		if line == nil {
			line = make([]byte, 0, len(chunk))
		}
		line = append(line, chunk...)
		if len(line) > maxPasswordLine {
			SecureWipe(line)
			return nil, fmt.Errorf("password exceeds %d bytes", maxPasswordLine)
		}
		if !isPrefix {
			break
		}
	}
	return line, nil
}

// SecureWipe overwrites b with zeros.
func SecureWipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	// runtime.KeepAlive ensures the writes are not optimized away since b is
	// still "in use" after the loop.
	runtime.KeepAlive(b)
}
