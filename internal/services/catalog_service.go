package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"marcenapp/internal/models"
)

// catalogFile is the on-disk shape of the finish catalog.
type catalogFile struct {
	Manufacturers []models.Manufacturer `yaml:"manufacturers"`
}

// CatalogService serves the finish catalog loaded from a YAML file and keeps
// it current by watching the file for edits.
type CatalogService struct {
	path string

	mu            sync.RWMutex
	manufacturers []models.Manufacturer
	byID          map[string]models.Finish

	watcher *fsnotify.Watcher
}

// NewCatalogService loads the catalog from path. The initial load must
// succeed; later reloads that fail keep the previous catalog in place.
func NewCatalogService(path string) (*CatalogService, error) {
	s := &CatalogService{path: path}
	if err := s.reload(); err != nil {
		return nil, fmt.Errorf("failed to load finish catalog: %w", err)
	}
	return s, nil
}

// StartWatching re-reads the catalog whenever the file is written. Editors
// that replace the file on save emit Create, so both ops trigger a reload.
func (s *CatalogService) StartWatching() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create catalog watcher: %w", err)
	}

	absPath, err := filepath.Abs(s.path)
	if err != nil {
		watcher.Close()
		return fmt.Errorf("failed to resolve catalog path: %w", err)
	}

	// Watch the directory, not the file: rename-and-replace saves would
	// otherwise drop the watch.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch catalog directory: %w", err)
	}
	s.watcher = watcher

	filename := filepath.Base(absPath)
	go func() {
		var debounce *time.Timer
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != filename {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(500*time.Millisecond, func() {
					if err := s.reload(); err != nil {
						log.Printf("⚠️ Catalog reload failed, keeping previous catalog: %v", err)
						return
					}
					log.Printf("🔄 Finish catalog reloaded from %s", s.path)
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("⚠️ Catalog watcher error: %v", err)
			}
		}
	}()

	log.Printf("👀 Watching finish catalog: %s", absPath)
	return nil
}

// Close stops the file watcher, if one was started.
func (s *CatalogService) Close() error {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Close()
}

// Manufacturers returns the catalog grouped by supplier.
func (s *CatalogService) Manufacturers() []models.Manufacturer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Manufacturer, len(s.manufacturers))
	copy(out, s.manufacturers)
	return out
}

// FindFinish looks a finish up by id across all manufacturers.
func (s *CatalogService) FindFinish(id string) (models.Finish, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	finish, ok := s.byID[id]
	return finish, ok
}

func (s *CatalogService) reload() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("failed to parse catalog file: %w", err)
	}

	byID := make(map[string]models.Finish)
	for mi := range file.Manufacturers {
		m := &file.Manufacturers[mi]
		for fi := range m.Finishes {
			f := &m.Finishes[fi]
			if f.Manufacturer == "" {
				f.Manufacturer = m.Name
			}
			if f.ID != "" {
				byID[f.ID] = *f
			}
		}
	}

	s.mu.Lock()
	s.manufacturers = file.Manufacturers
	s.byID = byID
	s.mu.Unlock()
	return nil
}
