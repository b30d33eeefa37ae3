package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/term"

	"github.com/epicevents/crm/internal/core/domain"
)

// ErrInputClosed is returned once the input stream is exhausted.
var ErrInputClosed = errors.New("input closed")

// Accepted date layouts, most specific first.
var dateLayouts = []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"}

// clearValue in an update prompt empties an optional field.
const clearValue = "-"

// Prompter reads operator answers line by line. It also confirms pending
// mutations, so it doubles as the services' ports.Confirmer.
type Prompter struct {
	in           *bufio.Reader
	out          io.Writer
	readPassword func() (string, error)
}

// NewPrompter reads from in and writes prompts to out. Passwords are read
// as ordinary lines.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: bufio.NewReader(in), out: out}
	p.readPassword = p.readLine
	return p
}

// NewTerminalPrompter uses the process stdin and stdout. Passwords are read
// with echo disabled when stdin is a terminal.
func NewTerminalPrompter() *Prompter {
	p := NewPrompter(os.Stdin, os.Stdout)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		p.readPassword = func() (string, error) {
			b, err := term.ReadPassword(fd)
			fmt.Fprintln(p.out)
			if err != nil {
				return "", fmt.Errorf("reading password: %w", err)
			}
			return string(b), nil
		}
	}
	return p
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrInputClosed
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Printf writes to the prompt output.
func (p *Prompter) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// Line asks label and returns the trimmed answer.
func (p *Prompter) Line(label string) (string, error) {
	p.Printf("%s: ", label)
	s, err := p.readLine()
	return strings.TrimSpace(s), err
}

// Password asks label without echo when possible. The answer is not
// trimmed.
func (p *Prompter) Password(label string) (string, error) {
	p.Printf("%s: ", label)
	return p.readPassword()
}

// Int asks for a whole number.
func (p *Prompter) Int(label string) (int, error) {
	s, err := p.Line(label)
	if err != nil {
		return 0, err
	}
	return parseInt(s)
}

// Decimal asks for an amount.
func (p *Prompter) Decimal(label string) (decimal.Decimal, error) {
	s, err := p.Line(label)
	if err != nil {
		return decimal.Zero, err
	}
	return parseDecimal(s)
}

// Time asks for a date, optionally with a time of day.
func (p *Prompter) Time(label string) (time.Time, error) {
	s, err := p.Line(label + " (YYYY-MM-DD [HH:MM])")
	if err != nil {
		return time.Time{}, err
	}
	return parseTime(s)
}

// YesNo asks a yes/no question. Anything but y or yes is no.
func (p *Prompter) YesNo(label string) (bool, error) {
	s, err := p.Line(label + " [y/N]")
	if err != nil {
		return false, err
	}
	return isYes(s), nil
}

// Confirm shows summary and waits for approval. A closed input refuses.
func (p *Prompter) Confirm(_ context.Context, summary string) bool {
	p.Printf("%s\n", summary)
	ok, err := p.YesNo("Confirm")
	return err == nil && ok
}

// The Opt* prompts back update forms: an empty answer keeps the current
// value and yields nil.

func (p *Prompter) OptString(label, current string) (*string, error) {
	s, err := p.Line(fmt.Sprintf("%s [%s]", label, current))
	if err != nil || s == "" {
		return nil, err
	}
	if s == clearValue {
		s = ""
	}
	return &s, nil
}

func (p *Prompter) OptInt(label string, current int) (*int, error) {
	s, err := p.Line(fmt.Sprintf("%s [%d]", label, current))
	if err != nil || s == "" {
		return nil, err
	}
	n, err := parseInt(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (p *Prompter) OptDecimal(label string, current decimal.Decimal) (*decimal.Decimal, error) {
	s, err := p.Line(fmt.Sprintf("%s [%s]", label, current.StringFixed(2)))
	if err != nil || s == "" {
		return nil, err
	}
	d, err := parseDecimal(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (p *Prompter) OptTime(label string, current time.Time) (*time.Time, error) {
	s, err := p.Line(fmt.Sprintf("%s [%s]", label, formatTime(current)))
	if err != nil || s == "" {
		return nil, err
	}
	t, err := parseTime(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (p *Prompter) OptBool(label string, current bool) (*bool, error) {
	s, err := p.Line(fmt.Sprintf("%s [%s]", label, yesNo(current)))
	if err != nil || s == "" {
		return nil, err
	}
	b := isYes(s)
	return &b, nil
}

func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidInput, s)
	}
	return n, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not an amount", domain.ErrInvalidInput, s)
	}
	return d, nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not a date", domain.ErrInvalidInput, s)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(dateLayouts[0])
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	}
	return false
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
