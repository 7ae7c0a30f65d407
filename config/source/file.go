package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/skekre98/fracton/config"
)

var extensions = []string{".yaml", ".yml", ".toml"}

// FileSource loads application.{yaml,yml,toml} from BasePath and, when Profile
// is set, deep-merges application.{Profile}.{ext} over it:
//
//	configs/
//	  application.yaml
//	  application.prod.toml
type FileSource struct {
	BasePath string
	// Profile overlay is optional; a missing overlay file is ignored.
	Profile string
}

func (f *FileSource) Name() string { return "file" }

// Load returns os.ErrNotExist when there is no base file.
func (f *FileSource) Load(context.Context) (map[string]any, error) {
	base := findFile(f.BasePath, "application")
	if base == "" {
		return nil, os.ErrNotExist
	}
	data, err := readFile(base)
	if err != nil {
		return nil, err
	}

	if f.Profile != "" {
		if overlay := findFile(f.BasePath, "application."+f.Profile); overlay != "" {
			prof, err := readFile(overlay)
			if err != nil {
				return nil, err
			}
			config.MergeMaps(data, prof)
		}
	}
	return data, nil
}

// Watch sends an event whenever a file in BasePath is written, created,
// renamed or removed. It blocks until ctx is done.
func (f *FileSource) Watch(ctx context.Context, ch chan<- config.Event) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch the directory, not the files: editors replace files on save.
	if err := w.Add(f.BasePath); err != nil {
		return fmt.Errorf("watch %s: %w", f.BasePath, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !f.relevant(ev.Name) || ev.Op == fsnotify.Chmod {
				continue
			}
			select {
			case ch <- config.Event{ChangedKeys: []string{filepath.Base(ev.Name)}}:
			default:
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

func (f *FileSource) exists() bool {
	return findFile(f.BasePath, "application") != ""
}

func (f *FileSource) relevant(path string) bool {
	name := filepath.Base(path)
	for _, ext := range extensions {
		if name == "application"+ext || (f.Profile != "" && name == "application."+f.Profile+ext) {
			return true
		}
	}
	return false
}

func findFile(dir, basename string) string {
	for _, ext := range extensions {
		path := filepath.Join(dir, basename+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func readFile(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if filepath.Ext(path) == ".toml" {
		err = toml.Unmarshal(b, &out)
	} else {
		err = yaml.Unmarshal(b, &out)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return out, nil
}
