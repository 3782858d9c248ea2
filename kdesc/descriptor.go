// Package kdesc describes which transformations are fused into a chain and in
// what order. Descriptors are produced by the planner and consumed, read-only,
// when a chain is built.
package kdesc

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyChain    = errors.New("kdesc: chain must contain at least one link")
	ErrInvalidName   = errors.New("kdesc: invalid link name")
	ErrDuplicateLink = errors.New("kdesc: duplicate link name")
	ErrMissingID     = errors.New("kdesc: missing transformation id")
	ErrTooManyLinks  = errors.New("kdesc: too many links")
)

// MaxLinks bounds chain length. Pushes recurse once per link, so stack depth
// grows linearly with it.
const MaxLinks = 1000

// Descriptor is an ordered list of links. Link i pushes into link i+1; the last
// link pushes into the terminal sink supplied when the chain is built.
type Descriptor struct {
	Name  string `yaml:"name"`
	Links []Link `yaml:"links"`
}

// Link configures one stage of the chain.
type Link struct {
	// Name identifies the link in faults and statistics.
	Name string `yaml:"name"`

	// Transformation is the registry identifier of the user code.
	Transformation string `yaml:"transformation"`

	// Params is the per-link configuration handed to the transformation.
	Params map[string]string `yaml:"params,omitempty"`
}

// New builds a descriptor from links and validates it.
func New(name string, links ...Link) (*Descriptor, error) {
	d := &Descriptor{Name: name, Links: links}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// MustNew is like New but panics on error.
func MustNew(name string, links ...Link) *Descriptor {
	d, err := New(name, links...)
	if err != nil {
		panic(err)
	}
	return d
}

// Validate checks structural invariants. It returns early on the first error.
func (d *Descriptor) Validate() error {
	if len(d.Links) == 0 {
		return ErrEmptyChain
	}
	if len(d.Links) > MaxLinks {
		return fmt.Errorf("%w: %d exceeds maximum %d", ErrTooManyLinks, len(d.Links), MaxLinks)
	}

	seen := make(map[string]int, len(d.Links))
	for i, l := range d.Links {
		if err := validateName(l.Name); err != nil {
			return fmt.Errorf("link %d: %w", i, err)
		}
		if prev, ok := seen[l.Name]; ok {
			return fmt.Errorf("%w: %q at positions %d and %d", ErrDuplicateLink, l.Name, prev, i)
		}
		seen[l.Name] = i
		if l.Transformation == "" {
			return fmt.Errorf("%w: link %q", ErrMissingID, l.Name)
		}
	}
	return nil
}

// Names returns the link names in chain order.
func (d *Descriptor) Names() []string {
	names := make([]string, len(d.Links))
	for i, l := range d.Links {
		names[i] = l.Name
	}
	return names
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if strings.ContainsAny(name, " \t\n\r") {
		return fmt.Errorf("%w: %q cannot contain whitespace", ErrInvalidName, name)
	}
	return nil
}
