package console

import (
	"os"
	"path/filepath"
	"testing"

	"babynames/internal/config"
)

func tempFile(t *testing.T) *os.File {
	t.Helper()
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestEnabled(t *testing.T) {
	f := tempFile(t)
	cases := map[config.ColorMode]bool{
		config.ColorAlways: true,
		config.ColorNever:  false,
		config.ColorAuto:   false, // a regular file is not a terminal
	}
	for mode, want := range cases {
		if got := Enabled(f, mode); got != want {
			t.Errorf("Enabled(%s) = %v, want %v", mode, got, want)
		}
	}
}

func TestStdoutNeverIsPlain(t *testing.T) {
	w, pal := Stdout(tempFile(t), config.ColorNever)
	if w == nil {
		t.Fatal("expected a writer")
	}
	if got := pal.Red("hi"); got != "hi" {
		t.Fatalf("expected plain text, got %q", got)
	}
}

func TestPlain(t *testing.T) {
	if got := Plain().Bold("x"); got != "x" {
		t.Fatalf("expected plain text, got %q", got)
	}
}
