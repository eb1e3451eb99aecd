package armparams

import (
	"encoding/json"
	"math"
)

// CheckTypes verifies that every supplied value whose name the template
// declares matches the declared kind. Entries without a "value" key (Key
// Vault references) and null values are left to FindMissing and ARM.
func CheckTypes(params *Parameters, defs *Definitions) error {
	if params == nil || defs == nil {
		return nil
	}
	for _, name := range params.Names() {
		def, declared := defs.Get(name)
		if !declared {
			continue
		}
		v, ok := params.Value(name)
		if !ok || v == nil {
			continue
		}
		if !matchesKind(def.Kind(), v) {
			return &TypeMismatchError{Name: name, Kind: def.Kind(), Value: v, Allowed: defs.SortedNames()}
		}
	}
	return nil
}

func matchesKind(kind Kind, v any) bool {
	switch kind {
	case KindString, KindSecureString:
		_, ok := v.(string)
		return ok
	case KindInt:
		switch n := v.(type) {
		case int, int32, int64:
			return true
		case float64:
			return n == math.Trunc(n)
		case json.Number:
			if _, err := n.Int64(); err == nil {
				return true
			}
			f, err := n.Float64()
			return err == nil && f == math.Trunc(f)
		default:
			return false
		}
	case KindBool:
		_, ok := v.(bool)
		return ok
	case KindObject:
		_, ok := v.(map[string]any)
		return ok
	case KindArray:
		_, ok := v.([]any)
		return ok
	case KindOther:
		return true
	default:
		return false
	}
}
