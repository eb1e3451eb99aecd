// Package schemas embeds the JSON Schema files and registers them with the
// template package on import. CLI entry points should import this package with
// a blank identifier: import _ "github.com/kjourdan1/meshctl/schemas"
package schemas

import (
	"embed"

	"github.com/kjourdan1/meshctl/internal/template"
)

//go:embed template-parameters.schema.json
var fs embed.FS

func init() {
	data, err := fs.ReadFile("template-parameters.schema.json")
	if err != nil {
		panic("schemas: failed to read embedded template-parameters.schema.json: " + err.Error())
	}
	template.SetSchema(data)
}
