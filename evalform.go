// Package evalform is the top-level entry point for the faculty evaluation
// wizard: load form definitions, run a session against a submission sink and
// render its pages.
package evalform

import (
	"bytes"
	"context"
	"io/fs"

	"github.com/goliatone/go-evalform/pkg/form"
	"github.com/goliatone/go-evalform/pkg/renderers/html"
	"github.com/goliatone/go-evalform/pkg/wizard"
)

// Definition aliases form.Definition.
type Definition = form.Definition

// Session aliases wizard.Session.
type Session = wizard.Session

// View aliases wizard.View.
type View = wizard.View

// Submission aliases wizard.Submission.
type Submission = wizard.Submission

// Sink aliases wizard.Sink.
type Sink = wizard.Sink

// LoadForms reads every definition from a JSON/YAML file or directory.
func LoadForms(path string) (*form.Catalog, error) {
	return form.LoadPath(path)
}

// NewSession starts a wizard on the first section of def.
func NewSession(def Definition, sink Sink, options ...wizard.Option) (*Session, error) {
	return wizard.New(def, sink, options...)
}

// RenderHTML renders the page for view with the embedded templates.
func RenderHTML(ctx context.Context, view View, options ...html.Option) ([]byte, error) {
	renderer, err := html.New(options...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := renderer.Render(ctx, &buf, view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EmbeddedTemplates exposes the built-in page templates so callers can copy
// and override them with html.WithTemplatesFS.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

// StaticAssetsFS exposes the stylesheet referenced by rendered pages.
func StaticAssetsFS() fs.FS {
	return html.AssetsFS()
}
