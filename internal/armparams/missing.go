package armparams

// FindMissing returns the template parameters that have no default value and
// are absent, or explicitly null, in params. The result follows the
// template's declaration order and is empty when the template declares no
// parameters.
func FindMissing(params *Parameters, tmpl *Template) *Missing {
	missing := &Missing{}
	if tmpl == nil || tmpl.Parameters == nil {
		return missing
	}

	for _, name := range tmpl.Parameters.Names() {
		def, _ := tmpl.Parameters.Get(name)
		if def.HasDefault {
			continue
		}
		if params != nil {
			if entry, ok := params.Get(name); ok && entry != nil {
				continue
			}
		}
		missing.Set(name, def)
	}
	return missing
}
