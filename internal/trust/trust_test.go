package trust

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltin(t *testing.T) {
	reg := Builtin()
	trusts := reg.All()
	if len(trusts) != 21 {
		t.Fatalf("expected 21 builtin trusts, got %d", len(trusts))
	}
	for _, tr := range trusts {
		if tr.URL == "" || tr.Abbrev == "" || tr.Name == "" {
			t.Errorf("builtin trust has empty field: %+v", tr)
		}
	}
}

func TestLookup(t *testing.T) {
	reg := Builtin()

	tr := reg.Lookup("https://www.groundworkrva.org/")
	if tr.Abbrev != "RVA" {
		t.Errorf("expected RVA, got %s", tr.Abbrev)
	}

	unknown := reg.Lookup("https://example.org/")
	if unknown.Abbrev != "UNK" || unknown.Name != "Unknown" {
		t.Errorf("unknown site should map to UNK/Unknown, got %s/%s", unknown.Abbrev, unknown.Name)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trusts.yaml")

	content := `trusts:
  - url: https://www.groundworkrva.org/
    abbrev: RVA
    name: RVA
  - url: https://example.org/
  - url: "   "
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing trusts file: %v", err)
	}

	reg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	trusts := reg.All()
	if len(trusts) != 2 {
		t.Fatalf("expected 2 trusts (blank URL skipped), got %d", len(trusts))
	}
	if trusts[1].Abbrev != "UNK" || trusts[1].Name != "Unknown" {
		t.Errorf("missing abbrev/name should default to UNK/Unknown, got %s/%s",
			trusts[1].Abbrev, trusts[1].Name)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(empty, []byte("trusts: []\n"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	if _, err := LoadFile(empty); err == nil {
		t.Error("expected error for empty trust list")
	}
}
