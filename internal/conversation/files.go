package conversation

import (
	"sync"

	"github.com/avocarbon/kbchat/internal/models"
)

// FileList holds user-attached files that have not been submitted yet. Each
// entry can carry a release hook for its transient local resource (preview
// temp file, object handle); hooks run when the entry is removed or the list
// is cleared, so a long session does not accumulate orphaned resources.
type FileList struct {
	mu       sync.Mutex
	files    []models.LocalFile
	releases map[string]func()
}

// NewFileList creates an empty pending-file list
func NewFileList() *FileList {
	return &FileList{
		releases: make(map[string]func()),
	}
}

// Add appends a pending file with an optional release hook
func (l *FileList) Add(file models.LocalFile, release func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.files = append(l.files, file)
	if release != nil {
		l.releases[file.ID] = release
	}
}

// Remove drops one entry by ID and runs its release hook
func (l *FileList) Remove(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, f := range l.files {
		if f.ID == id {
			l.files = append(l.files[:i], l.files[i+1:]...)
			break
		}
	}
	if release, ok := l.releases[id]; ok {
		delete(l.releases, id)
		release()
	}
}

// Clear drops all entries and runs every outstanding release hook
func (l *FileList) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.files = nil
	for id, release := range l.releases {
		delete(l.releases, id)
		release()
	}
}

// Files returns a copy of the pending entries in attach order
func (l *FileList) Files() []models.LocalFile {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.LocalFile{}, l.files...)
}

// Len returns the number of pending entries
func (l *FileList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.files)
}

// Take returns the pending entries and clears the list without running
// release hooks; ownership of the resources moves to the submitted message.
func (l *FileList) Take() []models.LocalFile {
	l.mu.Lock()
	defer l.mu.Unlock()

	files := l.files
	l.files = nil
	l.releases = make(map[string]func())
	return files
}
