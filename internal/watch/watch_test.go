package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherFiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t.mu")
	if err := os.WriteFile(path, []byte("let x = 0\n"), 0o644); err != nil {
		t.Fatalf("WriteFile = %v", err)
	}

	fired := make(chan struct{}, 8)
	w, err := New(path, func() { fired <- struct{}{} })
	if err != nil {
		t.Fatalf("New = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("let x = 1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile = %v", err)
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("onChange was not called after file write")
	}
}
