package fix

// todo: интеграция с git:
// По умолчанию создавать .bak только для незатрекинных файлов.
// Флаг --staged-only (работать по git diff --name-only --staged).

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"tagfix/internal/source"
)

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path     string
	FixCount int
	Written  bool
}

// WriteFile replaces the file's content on disk with content, atomically and keeping
// the file mode. Virtual files and unchanged content are not written.
func WriteFile(fs *source.FileSet, id source.FileID, content []byte, fixCount int, dryRun bool) (FileChange, error) {
	f := fs.Get(id)
	change := FileChange{
		Path:     f.FormatPath("relative", fs.BaseDir()),
		FixCount: fixCount,
	}
	if f.Flags&source.FileVirtual != 0 || bytes.Equal(f.Content, content) || dryRun {
		return change, nil
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(f.Path); err == nil {
		mode = info.Mode()
	}

	dir := filepath.Dir(f.Path)
	tmp, err := os.CreateTemp(dir, ".tagfix-*")
	if err != nil {
		return change, fmt.Errorf("write %s: %w", f.Path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return change, fmt.Errorf("write %s: %w", f.Path, err)
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return change, fmt.Errorf("chmod %s: %w", f.Path, err)
	}
	if err := tmp.Close(); err != nil {
		return change, fmt.Errorf("write %s: %w", f.Path, err)
	}
	if err := os.Rename(tmpName, f.Path); err != nil {
		return change, fmt.Errorf("rename %s: %w", f.Path, err)
	}
	change.Written = true
	return change, nil
}
