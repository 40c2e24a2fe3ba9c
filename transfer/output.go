package transfer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Output persists one rendered document per entity.
type Output interface {
	Save(entity string, data []byte) (string, error)
}

// DirOutput writes <Dir>/<entity>.docx, creating Dir on demand.
type DirOutput struct {
	Dir string
}

func (o DirOutput) Save(entity string, data []byte) (string, error) {
	if err := os.MkdirAll(o.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir %s: %w", o.Dir, err)
	}
	path := filepath.Join(o.Dir, FileName(entity))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// FileName is the output file name for an entity: its literal name with path
// separators replaced.
func FileName(entity string) string {
	name := strings.NewReplacer("/", "_", "\\", "_").Replace(entity)
	return name + ".docx"
}
