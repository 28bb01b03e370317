package container

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
)

// ErrClosed is returned by Get and friends after Close has run.
var ErrClosed = errors.New("container: closed")

// NoSuchEntryError is returned when no descriptor matches a name or type
// lookup. Recoverable: the caller can choose a different key or register the
// missing candidate.
type NoSuchEntryError struct {
	// Name is set for name lookups.
	Name string

	// Type is set for type lookups.
	Type reflect.Type
}

// Error implements the error interface.
func (e NoSuchEntryError) Error() string {
	// Example: container: no entry named "widget"
	if e.Type != nil {
		return "container: no entry of type " + e.Type.String()
	}
	return "container: no entry named " + strconv.Quote(e.Name)
}

// AmbiguousEntryError is returned when a type lookup matches several entries
// and no single Primary winner exists. Recoverable: mark one candidate
// Primary or resolve by name instead.
type AmbiguousEntryError struct {
	Type       reflect.Type
	Candidates []string
}

// Error implements the error interface.
func (e AmbiguousEntryError) Error() string {
	// Example: container: 2 entries match app.Greeter ("english", "pirate"), none primary
	var b strings.Builder
	b.WriteString("container: ")
	b.WriteString(strconv.Itoa(len(e.Candidates)))
	b.WriteString(" entries match ")
	b.WriteString(e.Type.String())
	b.WriteString(" (")
	for i, name := range e.Candidates {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Quote(name))
	}
	b.WriteString("), none primary")
	return b.String()
}
