package armparams

import "github.com/spf13/afero"

// Resolver turns raw parameter groups into the parameters object of a
// deployment request.
type Resolver struct {
	// Prompter asks for missing values. A nil Prompter behaves like one with
	// no interactive terminal.
	Prompter Prompter

	// Logger receives type warnings and prompt parse errors.
	Logger Logger

	// Fs resolves parameter file paths. Defaults to the OS filesystem.
	Fs afero.Fs

	// AcceptFallback keeps fallback values when no terminal is attached
	// instead of failing.
	AcceptFallback bool
}

// Resolve merges groups against tmpl, prompts for what is still missing and
// returns the combined parameters with prompted values wrapped as
// {"value": v}.
func (r *Resolver) Resolve(tmpl *Template, groups [][]string) (*Parameters, error) {
	var defs *Definitions
	if tmpl != nil {
		defs = tmpl.Parameters
	}

	params, err := Merge(defs, groups, MergeOptions{Fs: r.Fs, Logger: r.Logger})
	if err != nil {
		return nil, err
	}
	if err := CheckTypes(params, defs); err != nil {
		return nil, err
	}

	missing := FindMissing(params, tmpl)
	if missing.Len() == 0 {
		return params, nil
	}

	prompter := r.Prompter
	if prompter == nil {
		prompter = noTTYPrompter{}
	}
	values, err := PromptMissing(missing, prompter, PromptOptions{
		AcceptFallback: r.AcceptFallback,
		Logger:         r.Logger,
	})
	if err != nil {
		return nil, err
	}

	for _, name := range values.Names() {
		v, _ := values.Get(name)
		params.SetValue(name, v)
	}
	return params, nil
}

// noTTYPrompter answers every prompt with ErrNoTTY.
type noTTYPrompter struct{}

func (noTTYPrompter) Choose(string, string, []string) (int, error) { return 0, ErrNoTTY }
func (noTTYPrompter) Secret(string, string) (string, error) { return "", ErrNoTTY }
func (noTTYPrompter) Int(string, string) (int, error) { return 0, ErrNoTTY }
func (noTTYPrompter) Bool(string, string) (bool, error) { return false, ErrNoTTY }
func (noTTYPrompter) Text(string, string) (string, error) { return "", ErrNoTTY }
