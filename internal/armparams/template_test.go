package armparams

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTemplate = `{
  "$schema": "https://schema.management.azure.com/schemas/2015-01-01/deploymentTemplate.json#",
  "contentVersion": "1.0.0.0",
  "parameters": {
    "siteName": {"type": "string", "metadata": {"description": "Name of the site"}},
    "tier": {"type": "string", "allowedValues": ["Basic", "Standard"]},
    "count": {"type": "int"},
    "location": {"type": "string", "defaultValue": "westeurope"},
    "tags": {"type": "object", "defaultValue": null}
  },
  "resources": []
}`

func TestParseTemplate_DeclarationOrder(t *testing.T) {
	tmpl, err := ParseTemplate([]byte(sampleTemplate))
	require.NoError(t, err)
	require.NotNil(t, tmpl.Parameters)

	assert.Equal(t, []string{"siteName", "tier", "count", "location", "tags"}, tmpl.Parameters.Names())
	assert.Equal(t, []string{"count", "location", "siteName", "tags", "tier"}, tmpl.Parameters.SortedNames())
}

func TestParseTemplate_Definitions(t *testing.T) {
	tmpl, err := ParseTemplate([]byte(sampleTemplate))
	require.NoError(t, err)

	site, ok := tmpl.Parameters.Get("siteName")
	require.True(t, ok)
	assert.Equal(t, KindString, site.Kind())
	assert.False(t, site.HasDefault)
	desc, ok := site.Description()
	assert.True(t, ok)
	assert.Equal(t, "Name of the site", desc)

	tier, _ := tmpl.Parameters.Get("tier")
	assert.Equal(t, []any{"Basic", "Standard"}, tier.AllowedValues)
	_, ok = tier.Description()
	assert.False(t, ok)

	location, _ := tmpl.Parameters.Get("location")
	assert.True(t, location.HasDefault)
	assert.Equal(t, "westeurope", location.DefaultValue)

	tags, _ := tmpl.Parameters.Get("tags")
	assert.True(t, tags.HasDefault, "an explicit null default still counts as a default")
}

func TestParseTemplate_NoParameters(t *testing.T) {
	tmpl, err := ParseTemplate([]byte(`{"resources": []}`))
	require.NoError(t, err)
	assert.Nil(t, tmpl.Parameters)
}

func TestParseTemplate_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{"parameters": `},
		{"not an object", `[1, 2]`},
		{"parameters not an object", `{"parameters": []}`},
		{"definition not an object", `{"parameters": {"a": "string"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTemplate([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestDefinition_TypeName(t *testing.T) {
	assert.Equal(t, "string", Definition{}.TypeName())
	assert.Equal(t, "secureString", Definition{Type: "secureString"}.TypeName())
}

func TestParameters_MarshalJSONKeepsOrder(t *testing.T) {
	p := NewParameters()
	p.SetValue("zeta", 1)
	p.SetValue("alpha", "a")
	p.SetValue("zeta", 2)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":{"value":2},"alpha":{"value":"a"}}`, string(data))
}

func TestNewMissing_SortsKeys(t *testing.T) {
	m := NewMissing(map[string]Definition{
		"b": {Type: "string"},
		"a": {Type: "int"},
		"c": {Type: "bool"},
	})
	assert.Equal(t, []string{"a", "b", "c"}, m.Names())
}
