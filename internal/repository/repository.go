package repository

import (
	"log"

	"github.com/jaakkos/lifevault/internal/repository/filestore"
)

// NewStoreEngine returns the file-backed persistence engine for the given
// data directory. The returned *filestore.Store implements the app package's
// StoreRepository, BackupStore and Merger ports.
func NewStoreEngine(dataDir string, logger *log.Logger, opts filestore.Options) (*filestore.Store, error) {
	return filestore.New(dataDir, logger, opts)
}
