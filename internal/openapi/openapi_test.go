package openapi

import (
	"context"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	doc, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Info == nil || doc.Info.Title != "evalform" {
		t.Fatalf("unexpected info %+v", doc.Info)
	}

	ops := Operations(doc)
	byID := make(map[string]Operation, len(ops))
	for _, op := range ops {
		if _, dup := byID[op.ID]; dup {
			t.Fatalf("duplicate operation id %q", op.ID)
		}
		byID[op.ID] = op
	}

	want := map[string]string{
		"startSession":  "POST /v1/forms/{formId}/sessions",
		"nextSection":   "POST /v1/sessions/{sessionId}/next",
		"submitSession": "POST /v1/sessions/{sessionId}/submit",
		"setAnswer":     "PUT /v1/sessions/{sessionId}/answers/{questionId}",
	}
	for id, route := range want {
		op, ok := byID[id]
		if !ok {
			t.Fatalf("operation %q missing", id)
		}
		if got := op.Method + " " + op.Path; got != route {
			t.Fatalf("operation %q: got %q want %q", id, got, route)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := Parse(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty payload")
	}

	noPaths := []byte("openapi: 3.0.3\ninfo:\n  title: x\n  version: '1'\npaths: {}\n")
	_, err := Parse(context.Background(), noPaths)
	if err == nil || !strings.Contains(err.Error(), "paths") {
		t.Fatalf("expected missing paths error, got %v", err)
	}
}

func TestRawIsCopy(t *testing.T) {
	a := Raw()
	a[0] = 'X'
	if Raw()[0] == 'X' {
		t.Fatalf("Raw must return a copy")
	}
}
