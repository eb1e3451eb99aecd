// Package template loads ARM templates for deployment.
//
// A template comes from a local file or an HTTPS URI. File templates are sent
// to ARM inline; URI templates are sent as a template link, but are still
// downloaded so their parameters can be resolved locally.
package template

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/afero"

	"github.com/kjourdan1/meshctl/internal/armparams"
	"github.com/kjourdan1/meshctl/internal/azure"
)

// ErrNoSource is returned when neither a file nor a URI is given.
var ErrNoSource = errors.New("one of --template-file or --template-uri has to be specified")

// ErrBothSources is returned when both a file and a URI are given.
var ErrBothSources = errors.New("--template-file and --template-uri are mutually exclusive")

// Source names where a template lives. Exactly one field is set.
type Source struct {
	File string
	URI  string
}

// Validate checks that exactly one location is set.
func (s Source) Validate() error {
	switch {
	case s.File == "" && s.URI == "":
		return ErrNoSource
	case s.File != "" && s.URI != "":
		return ErrBothSources
	}
	return nil
}

// Loaded is a template ready for parameter resolution and submission.
type Loaded struct {
	Template *armparams.Template

	// Body is the document sent inline. It is nil for URI sources.
	Body map[string]any

	// Link is the template URI for URI sources.
	Link string
}

// Loader reads templates and other JSON documents.
type Loader struct {
	Fs     afero.Fs
	Client *http.Client
	Retry  azure.RetryConfig
}

// NewLoader returns a Loader over the OS filesystem and the default HTTP
// client.
func NewLoader() *Loader {
	return &Loader{
		Fs:     afero.NewOsFs(),
		Client: http.DefaultClient,
		Retry:  azure.DefaultRetryConfig(),
	}
}

// Load reads the template at src, checks its parameters section against the
// registered schema and parses its parameter declarations.
func (l *Loader) Load(ctx context.Context, src Source) (*Loaded, error) {
	data, err := l.read(ctx, src)
	if err != nil {
		return nil, err
	}

	if HasSchema() {
		result, err := Validate(data)
		if err != nil {
			return nil, err
		}
		if !result.Valid {
			return nil, result.Err()
		}
	}

	tmpl, err := armparams.ParseTemplate(data)
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}

	loaded := &Loaded{Template: tmpl}
	if src.URI != "" {
		loaded.Link = src.URI
		return loaded, nil
	}

	body, err := decodeObject(data)
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	if _, ok := body["resources"]; !ok {
		body["resources"] = []any{}
	}
	loaded.Body = body
	return loaded, nil
}

// LoadFile loads the template at path.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Loaded, error) {
	return l.Load(ctx, Source{File: path})
}

// ReadDocument reads any JSON object from src.
func (l *Loader) ReadDocument(ctx context.Context, src Source) (map[string]any, error) {
	data, err := l.read(ctx, src)
	if err != nil {
		return nil, err
	}
	doc, err := decodeObject(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", src.describe(), err)
	}
	return doc, nil
}

func (l *Loader) read(ctx context.Context, src Source) ([]byte, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if src.URI != "" {
		return l.Fetch(ctx, src.URI)
	}

	fs := l.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	data, err := afero.ReadFile(fs, src.File)
	if err != nil {
		return nil, fmt.Errorf("reading template file %s: %w", src.File, err)
	}
	return bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")), nil
}

func (s Source) describe() string {
	if s.URI != "" {
		return s.URI
	}
	return s.File
}

func decodeObject(data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("document must be a JSON object")
	}
	return doc, nil
}
