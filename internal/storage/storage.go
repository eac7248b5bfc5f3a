package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/maltedev/homepage-snapshot/internal/models"
)

const (
	htmlDir        = "html"
	screenshotsDir = "screenshots"
	manifestFile   = "manifest.json"
)

// SnapshotStore owns the output directory of the scraper: the html/ and
// screenshots/ subdirectories holding timestamped page captures, and a
// manifest.json indexing every run by its ID.
type SnapshotStore struct {
	mu      sync.RWMutex
	baseDir string
	runs    map[string]*models.Snapshot
}

func NewSnapshotStore(baseDir string) (*SnapshotStore, error) {
	for _, dir := range []string{baseDir, filepath.Join(baseDir, htmlDir), filepath.Join(baseDir, screenshotsDir)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	s := &SnapshotStore{
		baseDir: baseDir,
		runs:    make(map[string]*models.Snapshot),
	}

	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return s, nil
}

// WriteHTML persists page content as html/<prefix>_<timestamp>.html and
// returns the path.
func (s *SnapshotStore) WriteHTML(prefix, timestamp, content string) (string, error) {
	path := filepath.Join(s.baseDir, htmlDir, fmt.Sprintf("%s_%s.html", prefix, timestamp))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write HTML file: %w", err)
	}
	return path, nil
}

// ScreenshotPath returns screenshots/<prefix>_<timestamp>.png. The browser
// writes the image bytes itself.
func (s *SnapshotStore) ScreenshotPath(prefix, timestamp string) string {
	return filepath.Join(s.baseDir, screenshotsDir, fmt.Sprintf("%s_%s.png", prefix, timestamp))
}

// Add records a finished run in the manifest.
func (s *SnapshotStore) Add(snap *models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.RunID == "" {
		return fmt.Errorf("run ID is required")
	}

	s.runs[snap.RunID] = snap
	return s.save()
}

func (s *SnapshotStore) Get(runID string) (*models.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, exists := s.runs[runID]
	return snap, exists
}

// List returns all recorded runs, newest first.
func (s *SnapshotStore) List() []*models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snaps := make([]*models.Snapshot, 0, len(s.runs))
	for _, snap := range s.runs {
		snaps = append(snaps, snap)
	}
	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].StartedAt.After(snaps[j].StartedAt)
	})
	return snaps
}

// Stats counts recorded runs by outcome.
func (s *SnapshotStore) Stats() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]int{"total": len(s.runs), "succeeded": 0, "failed": 0}
	for _, snap := range s.runs {
		if snap.Success {
			stats["succeeded"]++
		} else {
			stats["failed"]++
		}
	}
	return stats
}

func (s *SnapshotStore) manifestPath() string {
	return filepath.Join(s.baseDir, manifestFile)
}

func (s *SnapshotStore) save() error {
	data, err := json.MarshalIndent(s.runs, "", "  ")
	if err != nil {
		return err
	}

	// Write to temp file first for atomicity
	tmpFile := s.manifestPath() + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return err
	}

	return os.Rename(tmpFile, s.manifestPath())
}

func (s *SnapshotStore) load() error {
	data, err := os.ReadFile(s.manifestPath())
	if err != nil {
		return err
	}

	return json.Unmarshal(data, &s.runs)
}
