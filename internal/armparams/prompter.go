package armparams

import (
	"errors"
	"fmt"
	"strings"
)

// Prompter asks an operator for a single value. Implementations return
// ErrNoTTY when no interactive terminal is attached; any other error aborts
// resolution.
type Prompter interface {
	// Choose presents options and returns the index picked.
	Choose(message, help string, options []string) (int, error)
	// Secret reads a line without echoing it.
	Secret(message, help string) (string, error)
	// Int reads an integer, asking again until the input parses.
	Int(message, help string) (int, error)
	// Bool reads a yes/no answer.
	Bool(message, help string) (bool, error)
	// Text reads a free-text line.
	Text(message, help string) (string, error)
}

// PromptOptions configures PromptMissing.
type PromptOptions struct {
	// AcceptFallback keeps fallback values instead of failing when no
	// interactive terminal is attached.
	AcceptFallback bool

	// Logger receives malformed object and array input before the key is
	// asked again.
	Logger Logger
}

const defaultDescription = "Missing description"

// PromptMissing asks p for every missing parameter, in the order of missing,
// and returns one value per name.
//
// When p reports ErrNoTTY the key takes a fallback value: nil for choice and
// string parameters, false for bool, 0 for int and an empty container for
// object and array. If any fallback was used and opts.AcceptFallback is false
// the whole call fails with a *NoInteractiveTerminalError.
func PromptMissing(missing *Missing, p Prompter, opts PromptOptions) (*Values, error) {
	logger := loggerOrDiscard(opts.Logger)
	values := &Values{}
	if missing == nil {
		return values, nil
	}

	var fellBack []string
	for _, name := range missing.Names() {
		def, _ := missing.Get(name)
		value, usedFallback, err := promptOne(name, def, p, logger)
		if err != nil {
			return nil, fmt.Errorf("prompting for parameter '%s': %w", name, err)
		}
		if usedFallback {
			fellBack = append(fellBack, name)
		}
		values.Set(name, value)
	}

	if len(fellBack) > 0 && !opts.AcceptFallback {
		return nil, &NoInteractiveTerminalError{Parameters: fellBack}
	}
	return values, nil
}

// promptOne returns the value for one parameter and whether it is a fallback.
func promptOne(name string, def Definition, p Prompter, logger Logger) (any, bool, error) {
	message := fmt.Sprintf("Please provide %s value for '%s' (? for help): ", def.TypeName(), name)
	help, ok := def.Description()
	if !ok {
		help = defaultDescription
	}

	if len(def.AllowedValues) > 0 {
		options := make([]string, len(def.AllowedValues))
		for i, v := range def.AllowedValues {
			options[i] = fmt.Sprintf("%v", v)
		}
		ix, err := p.Choose(message, help, options)
		if errors.Is(err, ErrNoTTY) {
			return nil, true, nil
		}
		if err != nil {
			return nil, false, err
		}
		if ix < 0 || ix >= len(def.AllowedValues) {
			return nil, false, fmt.Errorf("choice %d out of range", ix)
		}
		return def.AllowedValues[ix], false, nil
	}

	kind := def.Kind()
	switch kind {
	case KindSecureString:
		v, err := p.Secret(message, help)
		if errors.Is(err, ErrNoTTY) {
			return nil, true, nil
		}
		if err != nil {
			return nil, false, err
		}
		return v, false, nil
	case KindInt:
		v, err := p.Int(message, help)
		if errors.Is(err, ErrNoTTY) {
			return 0, true, nil
		}
		if err != nil {
			return nil, false, err
		}
		return v, false, nil
	case KindBool:
		v, err := p.Bool(message, help)
		if errors.Is(err, ErrNoTTY) {
			return false, true, nil
		}
		if err != nil {
			return nil, false, err
		}
		return v, false, nil
	case KindObject, KindArray:
		return promptContainer(name, kind, message, help, p, logger)
	case KindString, KindOther:
		v, err := p.Text(message, help)
		if errors.Is(err, ErrNoTTY) {
			return nil, true, nil
		}
		if err != nil {
			return nil, false, err
		}
		return v, false, nil
	default:
		panic(fmt.Sprintf("armparams: unhandled kind %d", kind))
	}
}

// promptContainer asks for a JSON object or array, asking again on
// malformed input or a value of the other container kind. Empty input stands for an empty container.
func promptContainer(name string, kind Kind, message, help string, p Prompter, logger Logger) (any, bool, error) {
	for {
		raw, err := p.Text(message, help)
		usedFallback := false
		if errors.Is(err, ErrNoTTY) {
			raw, usedFallback = "", true
		} else if err != nil {
			return nil, false, err
		}

		if strings.TrimSpace(raw) == "" {
			return kind.emptyContainer(), usedFallback, nil
		}

		v, err := decodeJSON([]byte(raw))
		if err != nil {
			logger.Error(fmt.Sprintf("Invalid JSON for parameter '%s'", name), "err", err)
			continue
		}
		if !matchesKind(kind, v) {
			logger.Error(fmt.Sprintf("Parameter '%s' expects a JSON %s", name, kind))
			continue
		}
		return v, usedFallback, nil
	}
}
