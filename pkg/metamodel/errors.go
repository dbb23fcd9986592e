package metamodel

import (
	"fmt"
	"strings"
)

// UnknownEntityError is returned when a name resolves to no entity and no
// unmapped supertype.
type UnknownEntityError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownEntityError) Error() string {
	msg := fmt.Sprintf("unknown entity %q", e.Name)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// LoadError reports a problem in a metamodel definition.
type LoadError struct {
	Entity  string
	Message string
}

func (e *LoadError) Error() string {
	if e.Entity == "" {
		return "metamodel: " + e.Message
	}
	return fmt.Sprintf("metamodel: entity %s: %s", e.Entity, e.Message)
}
