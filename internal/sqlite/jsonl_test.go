// Tests for JSONL persistence: file creation, durable writes, and the
// tolerant load path.
package sqlite

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fieldwright/formdef/pkg/types"
)

func TestJSONLFilesInitializedEmpty(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}
	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	defer b.Detach()

	for _, mapping := range jsonlTableMapping {
		info, err := os.Stat(filepath.Join(tmpDir, mapping.file))
		if err != nil {
			t.Fatalf("stat %s failed: %v", mapping.file, err)
		}
		if info.Size() != 0 {
			t.Errorf("expected empty %s, got %d bytes", mapping.file, info.Size())
		}
	}
}

func TestFormPersistedToJSONL(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}
	b.Attach(config)
	defer b.Detach()

	tbl, _ := b.GetTable(types.TableForms)

	frm := &types.Form{Title: "Feedback"}
	id, err := tbl.Set("", frm)
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, "forms.jsonl"))
	if err != nil {
		t.Fatalf("read forms.jsonl failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line in JSONL, got %d", len(lines))
	}
	if !strings.Contains(lines[0], id) {
		t.Errorf("expected line to contain ID %q", id)
	}
	if !strings.Contains(lines[0], "Feedback") {
		t.Errorf("expected line to contain 'Feedback'")
	}
}

func TestFormDeleteRemovedFromJSONL(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}
	b.Attach(config)
	defer b.Detach()

	tbl, _ := b.GetTable(types.TableForms)

	id, _ := tbl.Set("", &types.Form{Title: "Doomed"})
	if err := tbl.Delete(id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(tmpDir, "forms.jsonl"))
	if len(strings.TrimSpace(string(data))) != 0 {
		t.Errorf("expected empty JSONL after delete, got %q", string(data))
	}
}

func TestJSONLEmptyAndMalformedLinesSkipped(t *testing.T) {
	tmpDir := t.TempDir()

	content := `{"form_id":"form-1","title":"First","archived":0}

{invalid json here
{"form_id":"form-2","title":"Second","archived":0}
`
	if err := os.WriteFile(filepath.Join(tmpDir, "forms.jsonl"), []byte(content), 0o644); err != nil {
		t.Fatalf("write forms.jsonl failed: %v", err)
	}

	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}
	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	defer b.Detach()

	tbl, _ := b.GetTable(types.TableForms)
	results, err := tbl.Fetch(nil)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 forms (bad lines skipped), got %d", len(results))
	}
}

func TestWriteJSONLAtomic(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test.jsonl")

	records := []json.RawMessage{
		json.RawMessage(`{"key":"value1"}`),
		json.RawMessage(`{"key":"value2"}`),
	}
	if err := writeJSONL(path, records); err != nil {
		t.Fatalf("writeJSONL failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 2 {
		t.Errorf("expected 2 lines, got %d", len(lines))
	}
}
