package form

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const remoteDoc = `
id: remote
title: Remote Evaluation
sections:
  - id: only
    title: Only
    questions:
      - id: q1
        text: Rate it
        type: rating
        required: true
`

func TestLoadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forms.yaml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(remoteDoc))
	}))
	defer srv.Close()

	catalog, err := LoadURL(context.Background(), srv.Client(), srv.URL+"/forms.yaml", time.Second)
	if err != nil {
		t.Fatalf("LoadURL: %v", err)
	}
	def, ok := catalog.Get("remote")
	if !ok || def.SectionCount() != 1 {
		t.Fatalf("unexpected catalog contents: %+v", catalog.All())
	}

	_, err = LoadURL(context.Background(), srv.Client(), srv.URL+"/missing.yaml", time.Second)
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestLoadURL_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	if _, err := LoadURL(context.Background(), srv.Client(), srv.URL, 20*time.Millisecond); err == nil {
		t.Fatalf("expected timeout error")
	}
}

func TestLoadDispatch(t *testing.T) {
	if !IsURL(" https://example.edu/forms.json") || IsURL("forms/midterm.yaml") {
		t.Fatalf("IsURL misclassified sources")
	}
	catalog, err := Load(context.Background(), "testdata/forms")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if catalog.Len() == 0 {
		t.Fatalf("expected definitions from directory")
	}
}
