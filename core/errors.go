package core

import (
	"errors"
	"fmt"
	"strings"
)

// Stage names the step of a load or unload pass that failed.
type Stage string

const (
	StageDiscovery    Stage = "discovery"
	StageMetadata     Stage = "metadata"
	StageConstruction Stage = "construction"
	StageLifecycle    Stage = "lifecycle"
	StageUnload       Stage = "unload"
)

var (
	ErrDiscovery    = errors.New("module discovery failed")
	ErrMetadata     = errors.New("module metadata invalid")
	ErrConstruction = errors.New("module construction failed")
	ErrLifecycle    = errors.New("module lifecycle hook failed")
	ErrUnload       = errors.New("module unload failed")

	// ErrAlreadyLoaded is returned by LoadModules while a previous pass is
	// still loaded.
	ErrAlreadyLoaded = errors.New("modules already loaded")
)

var stageSentinels = map[Stage]error{
	StageDiscovery:    ErrDiscovery,
	StageMetadata:     ErrMetadata,
	StageConstruction: ErrConstruction,
	StageLifecycle:    ErrLifecycle,
	StageUnload:       ErrUnload,
}

// LoadError wraps the error that aborted a pass with where it happened.
// errors.Is matches it against the sentinel for its Stage.
type LoadError struct {
	Stage    Stage
	Artifact string
	Module   string
	Phase    Phase
	Err      error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s error", e.Stage)
	if e.Module != "" {
		fmt.Fprintf(&b, " in module %s", e.Module)
	}
	if e.Phase != "" {
		fmt.Fprintf(&b, " during %s", e.Phase)
	}
	if e.Artifact != "" {
		fmt.Fprintf(&b, " (%s)", e.Artifact)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool {
	s, ok := stageSentinels[e.Stage]
	return ok && s == target
}
