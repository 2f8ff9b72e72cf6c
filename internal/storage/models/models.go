// Package models defines the storage row types shared by the repositories.
package models

import "time"

// ImageRecord is a row in the images table.
type ImageRecord struct {
	ID            int64
	RelPath       string
	FileName      string
	Title         string
	CollectionKey string
	SizeBytes     int64
	Width         int
	Height        int
	ModTime       time.Time
	Position      int
	FirstSeenAt   time.Time
	LastSeenAt    time.Time
	Missing       bool
}

// CollectionRecord is a row in the collections table.
type CollectionRecord struct {
	Key         string
	Name        string
	DisplayName string
	Description string
	ImageCount  int
	Position    int
	FirstSeenAt time.Time
	LastSeenAt  time.Time
}

// ScanRecord is a row in the scans table, one per library sync.
type ScanRecord struct {
	ID              int64
	StartedAt       time.Time
	FinishedAt      time.Time
	ImageCount      int
	CollectionCount int
	Added           int
	Updated         int
	Missing         int
}

// CollectionCount pairs a collection with its image count.
type CollectionCount struct {
	Key         string
	DisplayName string
	Images      int
}

// ExtensionCount pairs a file extension with its number of images.
type ExtensionCount struct {
	Ext    string
	Images int
}

// LibraryStats summarizes the indexed library.
type LibraryStats struct {
	TotalImages      int
	TotalCollections int
	TotalBytes       int64
	MissingImages    int
	ByCollection     []CollectionCount
	ByExtension      []ExtensionCount
	LastScan         *ScanRecord
}
