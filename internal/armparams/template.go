package armparams

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Definition is one entry of a template's "parameters" section.
type Definition struct {
	Type          string                     `json:"type,omitempty"`
	DefaultValue  any                        `json:"defaultValue,omitempty"`
	AllowedValues []any                      `json:"allowedValues,omitempty"`
	Metadata      map[string]json.RawMessage `json:"metadata,omitempty"`

	// HasDefault is true when the declaration carries a defaultValue key,
	// including an explicit null.
	HasDefault bool `json:"-"`
}

// Description returns metadata.description, if the template sets one as a
// string.
func (d Definition) Description() (string, bool) {
	raw, ok := d.Metadata["description"]
	if !ok {
		return "", false
	}
	var description string
	if err := json.Unmarshal(raw, &description); err != nil {
		return "", false
	}
	return description, true
}

// Kind returns the parameter kind declared by Type.
func (d Definition) Kind() Kind {
	return KindOf(d.Type)
}

// TypeName returns the declared type as written in the template, or
// "string" when the template omits it.
func (d Definition) TypeName() string {
	if d.Type == "" {
		return "string"
	}
	return d.Type
}

// Template is a parsed ARM template as far as parameter resolution needs it.
type Template struct {
	// Parameters is nil when the template has no parameters section.
	Parameters *Definitions
}

// ParseTemplate reads the parameters section of a template document,
// keeping the order in which the parameters are declared.
func ParseTemplate(data []byte) (*Template, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("template is not valid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("template must be a JSON object")
	}

	section := doc.Get("parameters")
	if !section.Exists() || section.Type == gjson.Null {
		return &Template{}, nil
	}
	defs, err := parseDefinitions(section)
	if err != nil {
		return nil, err
	}
	return &Template{Parameters: defs}, nil
}

// TemplateFromDefinitions builds a Template around already-parsed
// declarations.
func TemplateFromDefinitions(defs *Definitions) *Template {
	return &Template{Parameters: defs}
}

func parseDefinitions(section gjson.Result) (*Definitions, error) {
	if !section.IsObject() {
		return nil, fmt.Errorf("template parameters must be a JSON object")
	}

	defs := &Definitions{}
	var parseErr error
	section.ForEach(func(key, value gjson.Result) bool {
		var def Definition
		if err := json.Unmarshal([]byte(value.Raw), &def); err != nil {
			parseErr = fmt.Errorf("parameter %q: %w", key.String(), err)
			return false
		}
		def.HasDefault = value.Get("defaultValue").Exists()
		defs.Set(key.String(), def)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return defs, nil
}
