package form_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-evalform/pkg/form"
)

func TestLoadFS_JSONAndYAML(t *testing.T) {
	catalog := loadCatalog(t, "forms")
	if got := catalog.Len(); got != 2 {
		t.Fatalf("expected 2 forms, got %d", got)
	}

	var ids []string
	for _, def := range catalog.All() {
		ids = append(ids, def.ID)
	}
	if diff := cmp.Diff([]string{"lab-safety", "cs101-midterm"}, ids); diff != "" {
		t.Fatalf("load order mismatch (-want +got):\n%s", diff)
	}

	midterm, ok := catalog.Get("cs101-midterm")
	if !ok {
		t.Fatalf("cs101-midterm not found")
	}
	if midterm.Metadata.Instructor != "Dr. Ada Byron" || midterm.Metadata.Course != "CS101" {
		t.Fatalf("metadata not parsed: %#v", midterm.Metadata)
	}
	if got := midterm.SectionCount(); got != 2 {
		t.Fatalf("expected 2 sections, got %d", got)
	}
	pace, ok := midterm.Question("pace")
	if !ok {
		t.Fatalf("pace question missing")
	}
	if pace.Type != form.QuestionTypeRating {
		t.Fatalf("question type not normalised: %q", pace.Type)
	}
	if got := len(midterm.RequiredQuestions()); got != 2 {
		t.Fatalf("expected 2 required questions, got %d", got)
	}

	lab, ok := catalog.Get("lab-safety")
	if !ok {
		t.Fatalf("lab-safety not found")
	}
	if lab.Sections[0].Questions[1].Required {
		t.Fatalf("briefing-notes should be optional")
	}
}

func TestLoadFS_DuplicateFormID(t *testing.T) {
	_, err := form.LoadFS(subDirFS(t, "invalid_duplicate"))
	if err == nil {
		t.Fatalf("expected duplicate form error")
	}
	if !strings.Contains(err.Error(), `duplicate form "dup"`) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadFS_InvalidDefinitionCarriesSource(t *testing.T) {
	_, err := form.LoadFS(subDirFS(t, "invalid_empty"))
	if !errors.Is(err, form.ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition, got %v", err)
	}
	var defErr *form.DefinitionError
	if !errors.As(err, &defErr) {
		t.Fatalf("expected *DefinitionError, got %T", err)
	}
	if defErr.Source != "empty.yaml" {
		t.Fatalf("source mismatch: %q", defErr.Source)
	}
	if len(defErr.Issues) != 1 || defErr.Issues[0].Path != "sections" {
		t.Fatalf("unexpected issues: %#v", defErr.Issues)
	}
}

func TestLoadFS_NilFS(t *testing.T) {
	catalog, err := form.LoadFS(nil)
	if err != nil {
		t.Fatalf("load nil fs: %v", err)
	}
	if catalog.Len() != 0 {
		t.Fatalf("expected empty catalog")
	}
}

func TestLoadPath_SingleFile(t *testing.T) {
	catalog, err := form.LoadPath(filepath.Join(testdataRoot(), "forms", "lab.json"))
	if err != nil {
		t.Fatalf("load path: %v", err)
	}
	if _, ok := catalog.Get("lab-safety"); !ok {
		t.Fatalf("lab-safety not loaded")
	}
	if catalog.Len() != 1 {
		t.Fatalf("expected exactly one form, got %d", catalog.Len())
	}
}

func TestParse_RejectsGarbage(t *testing.T) {
	if _, err := form.Parse([]byte("   "), "blank.yaml"); err == nil {
		t.Fatalf("expected error for blank document")
	}
	if _, err := form.Parse([]byte("{not: [valid"), "broken.yaml"); err == nil {
		t.Fatalf("expected error for malformed document")
	}
}

func TestCatalog_GetReturnsCopy(t *testing.T) {
	catalog := loadCatalog(t, "forms")
	first, _ := catalog.Get("cs101-midterm")
	first.Sections[0].Questions[0].Text = "mutated"

	second, _ := catalog.Get("cs101-midterm")
	if second.Sections[0].Questions[0].Text == "mutated" {
		t.Fatalf("catalog leaked internal state")
	}
}

func loadCatalog(t *testing.T, subdir string) *form.Catalog {
	t.Helper()
	catalog, err := form.LoadFS(subDirFS(t, subdir))
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return catalog
}

func subDirFS(t *testing.T, subdir string) fs.FS {
	t.Helper()
	base := os.DirFS(testdataRoot())
	fsys, err := fs.Sub(base, subdir)
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	return fsys
}

func testdataRoot() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "testdata"
	}
	return filepath.Join(filepath.Dir(filename), "testdata")
}
