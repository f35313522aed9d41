package evalform_test

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-evalform"
	"github.com/goliatone/go-evalform/pkg/renderers/html"
	"github.com/goliatone/go-evalform/pkg/testsupport"
)

func TestRenderHTMLFromSession(t *testing.T) {
	sink := &testsupport.RecordingSink{}
	session, err := evalform.NewSession(testsupport.TwoSectionForm(), sink)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer session.Close()

	out, err := evalform.RenderHTML(context.Background(), session.View())
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if !strings.Contains(string(out), "Section 1 of 2: Teaching") {
		t.Fatalf("expected first section heading, got:\n%s", out)
	}
}

func TestEmbeddedFS(t *testing.T) {
	if _, err := fs.Stat(evalform.EmbeddedTemplates(), "section.tmpl"); err != nil {
		t.Fatalf("section template missing: %v", err)
	}
	if _, err := fs.Stat(evalform.StaticAssetsFS(), html.StylesheetName); err != nil {
		t.Fatalf("stylesheet missing: %v", err)
	}
}

func TestLoadForms(t *testing.T) {
	catalog, err := evalform.LoadForms("pkg/form/testdata/forms")
	if err != nil {
		t.Fatalf("LoadForms: %v", err)
	}
	if catalog.Len() == 0 {
		t.Fatalf("expected definitions")
	}
}
