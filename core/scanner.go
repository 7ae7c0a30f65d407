package core

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
)

const (
	DefaultExtension = ".so"
	DefaultNamespace = "modules/"
)

var (
	baseType   = reflect.TypeFor[Base]()
	moduleType = reflect.TypeFor[Module]()
)

// Candidate is a manifest entry that qualifies as a module.
type Candidate struct {
	Artifact   string
	Entry      string
	Class      *Class
	Descriptor Descriptor
}

// Scanner finds artifacts in a directory and filters their entries down to
// module candidates.
type Scanner struct {
	Extension string
	Namespace string
	Logger    *slog.Logger
}

// Discover lists the artifact files directly inside dir, sorted by name.
// Subdirectories and files without the artifact extension are skipped.
func (s *Scanner) Discover(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	ext := s.Extension
	if ext == "" {
		ext = DefaultExtension
	}
	var out []string
	for _, e := range ents {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	return out, nil
}

// Candidates returns the module candidates of a single artifact in manifest
// order. An artifact with none is logged and yields an empty slice.
func (s *Scanner) Candidates(a Artifact) ([]Candidate, error) {
	entries, err := a.Entries()
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", a.Path(), err)
	}
	var out []Candidate
	for _, e := range entries {
		if !s.qualifies(e) {
			continue
		}
		out = append(out, Candidate{
			Artifact:   a.Path(),
			Entry:      e.Name,
			Class:      e.Class,
			Descriptor: *e.Class.Descriptor,
		})
	}
	if len(out) == 0 && s.Logger != nil {
		s.Logger.Warn("could not find module class", "artifact", filepath.Base(a.Path()))
	}
	return out, nil
}

func (s *Scanner) qualifies(e Entry) bool {
	ns := s.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	switch {
	case e.Dir:
		return false
	case e.Class == nil || !strings.HasPrefix(e.Name, ns):
		return false
	case !IsModuleType(e.Class.Type):
		return false
	case e.Class.Descriptor == nil:
		return false
	}
	return true
}

// IsModuleType reports whether t implements Module and embeds Base at depth
// one. A type that only reaches Base through another embedded struct does not
// count.
func IsModuleType(t reflect.Type) bool {
	if t == nil || !t.Implements(moduleType) {
		return false
	}
	st := t
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	if st.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if !f.Anonymous {
			continue
		}
		if f.Type == baseType || f.Type == reflect.PointerTo(baseType) {
			return true
		}
	}
	return false
}
