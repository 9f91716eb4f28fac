package filestore

import (
	"github.com/roach88/loadout/internal/domain"
	"github.com/roach88/loadout/internal/repository"
)

var _ repository.FileWriter = OutputFiles{}

// OutputFiles is the filesystem FileWriter for composed output.
type OutputFiles struct{}

// WriteFile replaces path atomically, creating parent directories.
func (OutputFiles) WriteFile(path string, data []byte) error {
	if err := writeFileAtomic(path, data, filePerm); err != nil {
		return domain.FileSystemError("write output", path, err)
	}
	return nil
}
