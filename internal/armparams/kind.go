package armparams

import "strings"

// Kind is the closed set of ARM parameter types the resolver understands.
type Kind int

const (
	// KindOther covers every type name the resolver does not know, including
	// an empty one. The original name stays on Definition.Type.
	KindOther Kind = iota
	KindString
	KindSecureString
	KindInt
	KindBool
	KindObject
	KindArray
)

var kindNames = map[Kind]string{
	KindOther:        "other",
	KindString:       "string",
	KindSecureString: "securestring",
	KindInt:          "int",
	KindBool:         "bool",
	KindObject:       "object",
	KindArray:        "array",
}

// KindOf maps an ARM type name to a Kind. Matching is case-insensitive, so
// "secureString" and "SecureString" are both KindSecureString.
func KindOf(typeName string) Kind {
	switch strings.ToLower(strings.TrimSpace(typeName)) {
	case "string":
		return KindString
	case "securestring":
		return KindSecureString
	case "int":
		return KindInt
	case "bool":
		return KindBool
	case "object":
		return KindObject
	case "array":
		return KindArray
	default:
		return KindOther
	}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "other"
}

// IsContainer reports whether values of this kind are JSON objects or arrays.
func (k Kind) IsContainer() bool {
	return k == KindObject || k == KindArray
}

// emptyContainer returns the empty value an object or array parameter takes
// when the operator enters nothing.
func (k Kind) emptyContainer() any {
	if k == KindArray {
		return []any{}
	}
	return map[string]any{}
}
