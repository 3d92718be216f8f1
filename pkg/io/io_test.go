package io

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/hierarchytrix/solver/pkg/hierarchy"
)

func TestReadJSONRoundTrip(t *testing.T) {
	src := `{
		"nodes": [
			{"id": "root", "parent": null, "type": "root"},
			{"id": "a", "parent": "root", "type": "cluster"},
			{"id": "a1", "parent": "a", "type": "leaf"},
			{"id": "a2", "parent": "a", "type": "leaf"},
			{"id": "b1", "parent": "root", "type": "leaf"}
		],
		"edges": [
			{"source": "a1", "target": "b1"}
		]
	}`

	g, err := ReadJSON(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if g.NodeCount() != 5 {
		t.Fatalf("NodeCount() = %d, want 5", g.NodeCount())
	}
	if g.Root() != "root" {
		t.Fatalf("Root() = %q, want %q", g.Root(), "root")
	}
	if got := g.BottomEdges(); len(got) != 1 || got[0].U != "a1" || got[0].V != "b1" {
		t.Fatalf("BottomEdges() = %v, want [a1-b1]", got)
	}

	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}

	g2, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() on re-encoded document error: %v", err)
	}
	if g2.NodeCount() != g.NodeCount() {
		t.Errorf("round trip NodeCount() = %d, want %d", g2.NodeCount(), g.NodeCount())
	}
	if g2.Root() != g.Root() {
		t.Errorf("round trip Root() = %q, want %q", g2.Root(), g.Root())
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"malformed json", `{"nodes": [`},
		{"duplicate id", `{"nodes":[{"id":"a"},{"id":"a"}],"edges":[]}`},
		{"dangling parent", `{"nodes":[{"id":"a","parent":"missing"}],"edges":[]}`},
		{"unknown edge endpoint", `{"nodes":[{"id":"a"}],"edges":[{"source":"a","target":"z"}]}`},
		{"multiple roots", `{"nodes":[{"id":"a"},{"id":"b"}],"edges":[]}`},
		{"empty cluster", `{"nodes":[{"id":"root","type":"root"},{"id":"c1","parent":"root","type":"cluster"}],"edges":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadJSON(strings.NewReader(tt.src)); err == nil {
				t.Error("ReadJSON() expected error, got nil")
			}
		})
	}
}

func TestReadJSONEmptyClusterWrapsErrEmptyCluster(t *testing.T) {
	src := `{"nodes":[{"id":"root","type":"root"},{"id":"c1","parent":"root","type":"cluster"}],"edges":[]}`
	_, err := ReadJSON(strings.NewReader(src))
	if !stderrors.Is(err, hierarchy.ErrEmptyCluster) {
		t.Errorf("ReadJSON() error = %v, want wrapping hierarchy.ErrEmptyCluster", err)
	}
}

func TestWriteJSONOmitsDefaultType(t *testing.T) {
	src := `{"nodes":[{"id":"root"},{"id":"a","parent":"root"}],"edges":[]}`
	g, err := ReadJSON(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	if strings.Contains(buf.String(), `"type"`) {
		t.Errorf("WriteJSON() output should omit type for default-kind nodes: %s", buf.String())
	}
}

func TestImportExportJSON(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/instance.json"

	src := `{"nodes":[{"id":"root","type":"root"},{"id":"a","parent":"root","type":"leaf"}],"edges":[]}`
	g, err := ReadJSON(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}

	if err := ExportJSON(g, path); err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}

	g2, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON() error: %v", err)
	}
	if g2.NodeCount() != g.NodeCount() {
		t.Errorf("NodeCount() = %d, want %d", g2.NodeCount(), g.NodeCount())
	}
}

func TestImportJSONMissingFile(t *testing.T) {
	if _, err := ImportJSON("/nonexistent/path/instance.json"); err == nil {
		t.Error("ImportJSON() expected error for missing file, got nil")
	}
}
