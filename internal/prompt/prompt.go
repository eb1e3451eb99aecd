// Package prompt asks the operator for values on the terminal.
//
// SurveyPrompter implements armparams.Prompter with survey/v2. When stdin or
// stdout is not a terminal every prompt returns armparams.ErrNoTTY without
// reading input, so callers can substitute fallback values.
package prompt

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/mattn/go-isatty"

	"github.com/kjourdan1/meshctl/internal/armparams"
)

// ErrCanceled is returned when the operator aborts a prompt with Ctrl+C.
var ErrCanceled = terminal.InterruptErr

// IsInteractive reports whether both stdin and stdout are attached to a
// terminal.
func IsInteractive() bool {
	return isTerminal(os.Stdin.Fd()) && isTerminal(os.Stdout.Fd())
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// SurveyPrompter implements armparams.Prompter with survey/v2.
type SurveyPrompter struct {
	interactive func() bool
	opts        []survey.AskOpt
}

// Option configures a SurveyPrompter.
type Option func(*SurveyPrompter)

// WithNonInteractive makes every prompt report armparams.ErrNoTTY, as in CI.
func WithNonInteractive() Option {
	return func(p *SurveyPrompter) {
		p.interactive = func() bool { return false }
	}
}

// WithStdio routes prompts through the given streams instead of the
// process's own. The streams are treated as a terminal.
func WithStdio(in terminal.FileReader, out terminal.FileWriter, errOut terminal.FileWriter) Option {
	return func(p *SurveyPrompter) {
		p.interactive = func() bool { return true }
		p.opts = append(p.opts, survey.WithStdio(in, out, errOut))
	}
}

// NewSurveyPrompter returns a survey-based prompter.
func NewSurveyPrompter(options ...Option) *SurveyPrompter {
	p := &SurveyPrompter{interactive: IsInteractive}
	for _, o := range options {
		o(p)
	}
	return p
}

var _ armparams.Prompter = (*SurveyPrompter)(nil)

func (p *SurveyPrompter) ask(q survey.Prompt, response interface{}, extra ...survey.AskOpt) error {
	if !p.interactive() {
		return armparams.ErrNoTTY
	}
	opts := append(append([]survey.AskOpt{}, p.opts...), extra...)
	return survey.AskOne(q, response, opts...)
}

// Choose presents options and returns the chosen index.
func (p *SurveyPrompter) Choose(message, help string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, errors.New("no options to choose from")
	}
	var index int
	err := p.ask(&survey.Select{
		Message: message,
		Options: options,
		Help:    help,
	}, &index)
	if err != nil {
		return 0, err
	}
	return index, nil
}

// Secret reads a value without echoing it.
func (p *SurveyPrompter) Secret(message, help string) (string, error) {
	var value string
	if err := p.ask(&survey.Password{Message: message, Help: help}, &value); err != nil {
		return "", err
	}
	return value, nil
}

// Int reads an integer, asking again until the input parses.
func (p *SurveyPrompter) Int(message, help string) (int, error) {
	var raw string
	err := p.ask(&survey.Input{Message: message, Help: help}, &raw, survey.WithValidator(ValidateInt))
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(raw))
}

// Bool reads a yes/no answer.
func (p *SurveyPrompter) Bool(message, help string) (bool, error) {
	var value bool
	if err := p.ask(&survey.Confirm{Message: message, Help: help}, &value); err != nil {
		return false, err
	}
	return value, nil
}

// Text reads a free-text line.
func (p *SurveyPrompter) Text(message, help string) (string, error) {
	var value string
	if err := p.ask(&survey.Input{Message: message, Help: help}, &value); err != nil {
		return "", err
	}
	return value, nil
}

// Confirm asks a yes/no question with a default answer.
func (p *SurveyPrompter) Confirm(label string, defaultValue bool) (bool, error) {
	var value bool
	err := p.ask(&survey.Confirm{Message: label, Default: defaultValue}, &value)
	if err != nil {
		return false, err
	}
	return value, nil
}

// ValidateInt accepts anything strconv.Atoi parses after trimming spaces.
func ValidateInt(value interface{}) error {
	s := strings.TrimSpace(fmt.Sprintf("%v", value))
	if _, err := strconv.Atoi(s); err != nil {
		return fmt.Errorf("%q is not a valid integer", s)
	}
	return nil
}
