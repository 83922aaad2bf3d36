// Package credentials captures the attendance username and password.
package credentials

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/clambin/absensi/internal/attendance"
	"golang.org/x/term"
)

var ErrEmpty = errors.New("username and password cannot be empty")

// Prompter asks for credentials on a terminal. Values that are already configured are not asked for.
//
// The password is read without echo when In is a terminal. Otherwise, or if hiding the input fails,
// it is read as a plain line.
type Prompter struct {
	In  io.Reader
	Out io.Writer
	// ReadPassword defaults to term.ReadPassword.
	ReadPassword func(fd int) ([]byte, error)
	// IsTerminal defaults to term.IsTerminal.
	IsTerminal func(fd int) bool
	reader     *bufio.Reader
}

func NewPrompter() *Prompter {
	return &Prompter{
		In:           os.Stdin,
		Out:          os.Stdout,
		ReadPassword: term.ReadPassword,
		IsTerminal:   term.IsTerminal,
	}
}

// Get returns the configured credentials, prompting for whatever is missing.
// It returns ErrEmpty if the username or password is still empty afterward.
func (p *Prompter) Get(configured attendance.Credentials) (attendance.Credentials, error) {
	creds := configured
	var err error
	if creds.Username == "" {
		if creds.Username, err = p.readLine("Username: "); err != nil {
			return attendance.Credentials{}, fmt.Errorf("username: %w", err)
		}
	}
	if creds.Password == "" {
		if creds.Password, err = p.readPassword("Password: "); err != nil {
			return attendance.Credentials{}, fmt.Errorf("password: %w", err)
		}
	}
	if creds.Username == "" || creds.Password == "" {
		return attendance.Credentials{}, ErrEmpty
	}
	return creds, nil
}

// Reader returns the buffered input the prompter reads from. Anything read ahead of the credentials
// stays available here, so further input must be read from Reader, not from In.
func (p *Prompter) Reader() io.Reader {
	return p.buffered()
}

func (p *Prompter) buffered() *bufio.Reader {
	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}
	return p.reader
}

func (p *Prompter) readLine(prompt string) (string, error) {
	_, _ = fmt.Fprint(p.Out, prompt)
	line, err := p.buffered().ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *Prompter) readPassword(prompt string) (string, error) {
	if f, ok := p.In.(interface{ Fd() uintptr }); ok && p.IsTerminal != nil && p.ReadPassword != nil && p.IsTerminal(int(f.Fd())) {
		_, _ = fmt.Fprint(p.Out, prompt)
		password, err := p.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(p.Out)
		if err == nil {
			return strings.TrimSpace(string(password)), nil
		}
		_, _ = fmt.Fprintln(p.Out, "cannot hide password input. password will be visible")
	}
	return p.readLine(prompt)
}
