package core

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Priority controls load order. Higher values load first and unload last.
type Priority int

const (
	PriorityLast    Priority = -2
	PriorityLow     Priority = -1
	PriorityNeutral Priority = 0
	PriorityHigh    Priority = 1
	PriorityFirst   Priority = 2
)

var priorityNames = map[Priority]string{
	PriorityFirst:   "FIRST",
	PriorityHigh:    "HIGH",
	PriorityNeutral: "NEUTRAL",
	PriorityLow:     "LOW",
	PriorityLast:    "LAST",
}

func (p Priority) String() string {
	if s, ok := priorityNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Priority(%d)", int(p))
}

func (p Priority) Valid() bool {
	_, ok := priorityNames[p]
	return ok
}

func (p Priority) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid priority %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Priority) UnmarshalText(b []byte) error {
	v, err := ParsePriority(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePriority accepts the level names case-insensitively.
func ParsePriority(s string) (Priority, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for p, name := range priorityNames {
		if name == want {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown priority %q", s)
}

// Descriptor is the static metadata attached to a module implementation.
type Descriptor struct {
	// Name identifies the module to the host. Uniqueness is expected but not
	// enforced.
	Name string `json:"name" validate:"required"`
	// Version is informational only.
	Version  string   `json:"version" validate:"required"`
	Priority Priority `json:"priority" validate:"min=-2,max=2"`
}

var descriptorValidator = validator.New()

// Validate reports a descriptor with missing or out-of-range fields.
func (d Descriptor) Validate() error {
	return descriptorValidator.Struct(d)
}
