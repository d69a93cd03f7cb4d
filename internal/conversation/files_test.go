package conversation

import (
	"testing"

	"github.com/avocarbon/kbchat/internal/models"
)

func TestFileListAddRemove(t *testing.T) {
	l := NewFileList()

	released := make(map[string]bool)
	l.Add(models.LocalFile{ID: "a", Name: "a.txt"}, func() { released["a"] = true })
	l.Add(models.LocalFile{ID: "b", Name: "b.txt"}, nil)

	if l.Len() != 2 {
		t.Fatalf("len = %d", l.Len())
	}

	l.Remove("a")
	if !released["a"] {
		t.Error("release hook did not run on remove")
	}
	if l.Len() != 1 {
		t.Errorf("len = %d", l.Len())
	}

	l.Remove("missing")
	if l.Len() != 1 {
		t.Error("removing unknown ID changed the list")
	}
}

func TestFileListClear(t *testing.T) {
	l := NewFileList()

	count := 0
	l.Add(models.LocalFile{ID: "a"}, func() { count++ })
	l.Add(models.LocalFile{ID: "b"}, func() { count++ })

	l.Clear()
	if count != 2 {
		t.Errorf("ran %d release hooks, want 2", count)
	}
	if l.Len() != 0 {
		t.Errorf("len = %d", l.Len())
	}
}

func TestFileListTake(t *testing.T) {
	l := NewFileList()

	released := false
	l.Add(models.LocalFile{ID: "a", Name: "a.txt"}, func() { released = true })

	files := l.Take()
	if len(files) != 1 || files[0].ID != "a" {
		t.Fatalf("take = %v", files)
	}
	if released {
		t.Error("Take must not run release hooks")
	}
	if l.Len() != 0 {
		t.Error("Take must clear the list")
	}

	// Hooks from before Take must not fire later either.
	l.Clear()
	if released {
		t.Error("stale hook fired after Take")
	}
}

func TestFileListFilesIsCopy(t *testing.T) {
	l := NewFileList()
	l.Add(models.LocalFile{ID: "a", Name: "a.txt"}, nil)

	files := l.Files()
	files[0].Name = "mutated"

	if l.Files()[0].Name != "a.txt" {
		t.Error("internal state leaked through Files")
	}
}
