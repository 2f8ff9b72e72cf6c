package gui

import (
	"context"

	"github.com/atelierhq/atelier/internal/config"
	"github.com/atelierhq/atelier/internal/library"
	"github.com/atelierhq/atelier/internal/site"
	"github.com/atelierhq/atelier/internal/storage"
	"github.com/atelierhq/atelier/internal/thumbs"
)

// LibraryScanner defines the interface for scanning the art directory.
// This interface allows for easy mocking in tests.
type LibraryScanner interface {
	Scan(ctx context.Context) (*library.Library, error)
}

// ThumbnailProvider defines the interface for resolving thumbnail files.
type ThumbnailProvider interface {
	Thumb(sourcePath string, size thumbs.Size) (string, error)
}

// Services contains all shared services needed by the views.
// This struct is passed into the App so every view reaches its dependencies
// the same way.
type Services struct {
	// Context for the application
	Context context.Context

	// Config is the loaded application configuration
	Config *config.Config

	// Storage service for the library index
	Storage *storage.Service

	// Scanner walks the art directory
	Scanner LibraryScanner

	// Thumbs resolves cached thumbnails for cards and grid cells
	Thumbs ThumbnailProvider

	// Updater rewrites the static site pages
	Updater *site.Updater
}

// AppError represents an application error with a user-friendly message.
type AppError struct {
	Message string `json:"message"`
	Err     error  `json:"-"` // Wrapped error for errors.Is/As chain
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As chain.
func (e *AppError) Unwrap() error {
	return e.Err
}
