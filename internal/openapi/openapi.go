// Package openapi loads and validates the OpenAPI 3 document describing the
// evalform REST API.
package openapi

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed api.yaml
var document []byte

// Raw returns the embedded YAML document.
func Raw() []byte {
	return append([]byte(nil), document...)
}

// Load parses the embedded document and validates it.
func Load(ctx context.Context) (*openapi3.T, error) {
	return Parse(ctx, document)
}

// Parse parses and validates an OpenAPI 3 document.
func Parse(ctx context.Context, data []byte) (*openapi3.T, error) {
	if len(data) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return nil, errors.New("openapi: document does not contain any paths")
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}
	return doc, nil
}

// Operation identifies one documented route.
type Operation struct {
	ID     string
	Method string
	Path   string
}

// Operations lists every documented operation sorted by path then method.
func Operations(doc *openapi3.T) []Operation {
	if doc == nil || doc.Paths == nil {
		return nil
	}
	var out []Operation
	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			id := op.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			out = append(out, Operation{ID: id, Method: method, Path: path})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}
