package objpath

import (
	"path/filepath"
	"testing"
)

func TestResolveReturnsAbsolutePathAndParent(t *testing.T) {
	full, parent, err := Resolve("main.lm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !filepath.IsAbs(full) {
		t.Fatalf("expected an absolute path, got %q", full)
	}
	if parent != filepath.Dir(full) {
		t.Fatalf("parent %q does not match dir of %q", parent, full)
	}
}

func TestStem(t *testing.T) {
	if got := Stem("src/main.lm"); got != "main" {
		t.Fatalf("got %q, want %q", got, "main")
	}
}

func TestArtifactPath(t *testing.T) {
	if got := ArtifactPath("src/main.lm", "o"); got != filepath.Join("src", "main.o") {
		t.Fatalf("got %q, want %q", got, filepath.Join("src", "main.o"))
	}
}
