package armparams

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
)

// MergeOptions configures Merge.
type MergeOptions struct {
	// Fs resolves tokens that name parameter files. Defaults to the OS
	// filesystem.
	Fs afero.Fs

	// Logger receives the warning emitted for parameters of unknown type.
	Logger Logger
}

// Merge combines parameter groups into one ordered mapping.
//
// Each token is tried as a path to a JSON parameter file, then as an inline
// JSON object, then as key=value. For file and JSON sources an enclosing
// "parameters" object is unwrapped and its entries replace any existing ones.
// A key=value token is coerced to the type defs declares for the key.
//
// Merge is all-or-nothing: on error the partial result is discarded.
func Merge(defs *Definitions, groups [][]string, opts MergeOptions) (*Parameters, error) {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	logger := loggerOrDiscard(opts.Logger)

	params := NewParameters()
	for _, group := range groups {
		for _, token := range group {
			obj, err := loadFileObject(fs, token)
			if err != nil {
				return nil, err
			}
			if obj == nil {
				obj = parseJSONObject(token)
			}
			if obj != nil {
				params.Update(obj)
				continue
			}

			ok, err := applyKeyValue(defs, params, token, logger)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, &UnparseableTokenError{Token: token}
			}
		}
	}
	return params, nil
}

// loadFileObject returns nil, nil when token does not name a regular file
// or the file is empty.
func loadFileObject(fs afero.Fs, token string) (*Parameters, error) {
	info, err := fs.Stat(token)
	if err != nil || info.IsDir() {
		return nil, nil
	}
	data, err := afero.ReadFile(fs, token)
	if err != nil {
		return nil, &ParameterFileError{Path: token, Err: err}
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, &ParameterFileError{Path: token, Err: fmt.Errorf("invalid JSON")}
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, &ParameterFileError{Path: token, Err: fmt.Errorf("expected a JSON object")}
	}
	return unwrapParameters(doc), nil
}

// parseJSONObject returns nil unless token is a JSON object.
func parseJSONObject(token string) *Parameters {
	trimmed := strings.TrimSpace(token)
	if !strings.HasPrefix(trimmed, "{") || !gjson.Valid(trimmed) {
		return nil
	}
	doc := gjson.Parse(trimmed)
	if !doc.IsObject() {
		return nil
	}
	return unwrapParameters(doc)
}

// unwrapParameters uses doc.parameters when it is an object, else doc itself.
func unwrapParameters(doc gjson.Result) *Parameters {
	if inner := doc.Get("parameters"); inner.IsObject() {
		doc = inner
	}
	params := NewParameters()
	doc.ForEach(func(key, value gjson.Result) bool {
		v, err := decodeJSON([]byte(value.Raw))
		if err != nil {
			v = value.Value()
		}
		params.Set(key.String(), v)
		return true
	})
	return params
}

// applyKeyValue reports false when token holds no '='.
func applyKeyValue(defs *Definitions, params *Parameters, token string, logger Logger) (bool, error) {
	key, raw, found := strings.Cut(token, "=")
	if !found {
		return false, nil
	}

	var def Definition
	var declared bool
	if defs != nil {
		def, declared = defs.Get(key)
	}
	if !declared {
		var allowed []string
		if defs != nil {
			allowed = defs.SortedNames()
		}
		return false, &UnrecognizedParameterError{Name: key, Allowed: allowed}
	}

	value, err := coerce(key, def, raw, logger)
	if err != nil {
		return false, err
	}
	params.SetValue(key, value)
	return true, nil
}

func coerce(name string, def Definition, raw string, logger Logger) (any, error) {
	kind := def.Kind()
	switch kind {
	case KindObject, KindArray:
		v, err := decodeJSON([]byte(raw))
		if err != nil {
			return nil, &InvalidValueError{Name: name, Kind: kind, Value: raw, Err: err}
		}
		return v, nil
	case KindString, KindSecureString:
		return raw, nil
	case KindBool:
		return strings.EqualFold(raw, "true"), nil
	case KindInt:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, &InvalidValueError{Name: name, Kind: kind, Value: raw, Err: err}
		}
		return n, nil
	case KindOther:
		logger.Warn(fmt.Sprintf("Unrecognized type '%s' for parameter '%s'. Interpreting as string.", def.Type, name))
		return raw, nil
	default:
		panic(fmt.Sprintf("armparams: unhandled kind %d", kind))
	}
}
