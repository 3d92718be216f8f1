package cli

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func writeTestGraph(t *testing.T, dir, name string) {
	t.Helper()
	const doc = `{
		"nodes": [
			{"id":"root","type":"root"},
			{"id":"a","parent":"root","type":"cluster"},
			{"id":"l1","parent":"a","type":"leaf"},
			{"id":"l2","parent":"a","type":"leaf"}
		],
		"edges": []
	}`
	if err := os.WriteFile(filepath.Join(dir, name), []byte(doc), 0644); err != nil {
		t.Fatalf("write graph: %v", err)
	}
}

func TestScanInstances(t *testing.T) {
	dir := t.TempDir()
	writeTestGraph(t, dir, "demo.json")
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("not json"), 0644); err != nil {
		t.Fatalf("write broken: %v", err)
	}

	entries, err := scanInstances(dir)
	if err != nil {
		t.Fatalf("scanInstances: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("want 2 entries, got %d", len(entries))
	}

	var ok, broken bool
	for _, e := range entries {
		switch e.ID {
		case "demo":
			ok = true
			if e.Err != nil {
				t.Errorf("demo: unexpected err %v", e.Err)
			}
			if e.Leaves != 2 {
				t.Errorf("demo: want 2 leaves, got %d", e.Leaves)
			}
		case "broken":
			broken = true
			if e.Err == nil {
				t.Error("broken: want parse error, got nil")
			}
		}
	}
	if !ok || !broken {
		t.Fatalf("missing expected entries: ok=%v broken=%v", ok, broken)
	}
}

func TestScanInstancesEmptyDir(t *testing.T) {
	entries, err := scanInstances(t.TempDir())
	if err != nil {
		t.Fatalf("scanInstances: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("want 0 entries, got %d", len(entries))
	}
}

func TestInstanceListModelNavigationAndSelection(t *testing.T) {
	entries, err := scanInstances(func() string {
		dir := t.TempDir()
		writeTestGraph(t, dir, "a.json")
		writeTestGraph(t, dir, "b.json")
		return dir
	}())
	if err != nil {
		t.Fatalf("scanInstances: %v", err)
	}

	m := NewInstanceListModel(entries)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(InstanceListModel)
	if m.Cursor != 1 {
		t.Fatalf("want cursor 1 after down, got %d", m.Cursor)
	}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(InstanceListModel)
	if m.Selected == nil {
		t.Fatal("want a selected entry after enter")
	}
	if m.Selected.Path != entries[1].Path {
		t.Errorf("want selected path %s, got %s", entries[1].Path, m.Selected.Path)
	}
	if cmd == nil {
		t.Fatal("want tea.Quit command after enter")
	}
}

func TestInstanceListModelQuitWithoutSelection(t *testing.T) {
	m := NewInstanceListModel(nil)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(InstanceListModel)
	if m.Selected != nil {
		t.Fatal("want no selection on quit")
	}
	if cmd == nil {
		t.Fatal("want tea.Quit command on esc")
	}
}
