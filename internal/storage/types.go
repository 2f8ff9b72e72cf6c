package storage

import (
	"github.com/atelierhq/atelier/internal/storage/models"
)

// Re-exported model types so callers can stay on the storage package.
type (
	ImageRecord      = models.ImageRecord
	CollectionRecord = models.CollectionRecord
	ScanRecord       = models.ScanRecord
	LibraryStats     = models.LibraryStats
	CollectionCount  = models.CollectionCount
	ExtensionCount   = models.ExtensionCount
)
