package gui

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// AppState represents the application's persistent state.
type AppState struct {
	mu sync.RWMutex

	// View states
	LastTab          int              `json:"last_tab"`
	GalleryState     GalleryState     `json:"gallery"`
	CollectionsState CollectionsState `json:"collections"`

	// LastArtDir remembers the art directory of the previous session.
	LastArtDir string `json:"last_art_dir"`

	// Window state
	WindowSize WindowSize `json:"window_size"`

	// Last updated timestamp
	LastUpdated time.Time `json:"last_updated"`
}

// GalleryState stores gallery view state.
type GalleryState struct {
	SortMode string `json:"sort_mode"`
}

// CollectionsState stores collections view state.
type CollectionsState struct {
	LastCollection string `json:"last_collection"`
}

// WindowSize stores window dimensions.
type WindowSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewAppState creates a new application state with defaults.
func NewAppState() *AppState {
	return &AppState{
		WindowSize: WindowSize{
			Width:  1100,
			Height: 760,
		},
		LastUpdated: time.Now(),
	}
}

// statePath returns the path to the state file.
func statePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	stateDir := filepath.Join(homeDir, ".atelier")
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return "", err
	}

	return filepath.Join(stateDir, "state.json"), nil
}

// LoadState loads the application state from disk. Any load problem falls
// back to a fresh default state.
func LoadState() (*AppState, error) {
	path, err := statePath()
	if err != nil {
		return NewAppState(), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return NewAppState(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return NewAppState(), nil
	}

	var state AppState
	if err := json.Unmarshal(data, &state); err != nil {
		return NewAppState(), nil
	}

	return &state, nil
}

// Save saves the application state to disk.
func (s *AppState) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LastUpdated = time.Now()

	path, err := statePath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// UpdateLastTab updates the selected tab index.
func (s *AppState) UpdateLastTab(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LastTab = index
}

// UpdateGalleryState updates gallery view state.
func (s *AppState) UpdateGalleryState(sortMode string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.GalleryState.SortMode = sortMode
}

// UpdateCollectionsState updates collections view state.
func (s *AppState) UpdateCollectionsState(lastCollection string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.CollectionsState.LastCollection = lastCollection
}

// UpdateLastArtDir remembers the art directory in use.
func (s *AppState) UpdateLastArtDir(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LastArtDir = dir
}

// UpdateWindowSize updates window dimensions.
func (s *AppState) UpdateWindowSize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.WindowSize.Width = width
	s.WindowSize.Height = height
}

// GetLastTab returns the selected tab index (thread-safe).
func (s *AppState) GetLastTab() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastTab
}

// GetGalleryState returns gallery view state (thread-safe).
func (s *AppState) GetGalleryState() GalleryState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.GalleryState
}

// GetCollectionsState returns collections view state (thread-safe).
func (s *AppState) GetCollectionsState() CollectionsState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.CollectionsState
}

// GetLastArtDir returns the remembered art directory (thread-safe).
func (s *AppState) GetLastArtDir() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastArtDir
}

// GetWindowSize returns window size (thread-safe).
func (s *AppState) GetWindowSize() WindowSize {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.WindowSize
}
