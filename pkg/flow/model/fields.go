package model

import (
	"strings"

	"github.com/pkg/errors"
)

// Fields is an ordered set of field names.
//
// The zero value is an empty, known set. A source that does not declare its fields
// produces the unknown set, and every operation involving an unknown set stays unknown.
type Fields struct {
	names   []string
	unknown bool
}

// NewFields returns the ordered set of the given names. Repeated names keep their first position.
func NewFields(names ...string) Fields {
	f := Fields{names: make([]string, 0, len(names))}
	for _, name := range names {
		if f.Contains(name) {
			continue
		}
		f.names = append(f.names, name)
	}

	return f
}

// UnknownFields returns the unknown field set.
func UnknownFields() Fields {
	return Fields{unknown: true}
}

func (f Fields) IsUnknown() bool {
	return f.unknown
}

func (f Fields) IsEmpty() bool {
	return !f.unknown && len(f.names) == 0
}

func (f Fields) Len() int {
	return len(f.names)
}

// Names returns a copy of the field names.
func (f Fields) Names() []string {
	res := make([]string, len(f.names))
	copy(res, f.names)

	return res
}

// Index returns the position of name, or -1.
func (f Fields) Index(name string) int {
	for i, n := range f.names {
		if n == name {
			return i
		}
	}

	return -1
}

func (f Fields) Contains(name string) bool {
	return f.Index(name) >= 0
}

// Select checks that every name of sel exists in f and returns sel.
// An unknown receiver accepts any selection.
func (f Fields) Select(sel Fields) (Fields, error) {
	if f.unknown || sel.unknown {
		return sel, nil
	}
	for _, name := range sel.names {
		if !f.Contains(name) {
			return Fields{}, errors.Wrapf(ErrFieldNotFound, "%q in %s", name, f)
		}
	}

	return sel, nil
}

// Append returns f followed by other. Any shared name is a collision.
func (f Fields) Append(other Fields) (Fields, error) {
	if f.unknown || other.unknown {
		return UnknownFields(), nil
	}
	res := Fields{names: make([]string, 0, len(f.names)+len(other.names))}
	res.names = append(res.names, f.names...)
	for _, name := range other.names {
		if res.Contains(name) {
			return Fields{}, errors.Wrapf(ErrFieldCollision, "%q appears in %s and %s", name, f, other)
		}
		res.names = append(res.names, name)
	}

	return res, nil
}

// Minus returns f without the names of other, order preserved.
func (f Fields) Minus(other Fields) Fields {
	if f.unknown {
		return UnknownFields()
	}
	res := Fields{names: make([]string, 0, len(f.names))}
	for _, name := range f.names {
		if other.Contains(name) {
			continue
		}
		res.names = append(res.names, name)
	}

	return res
}

// Replace substitutes, in place, each name of args by the name of declared at the same position.
func (f Fields) Replace(args, declared Fields) (Fields, error) {
	if f.unknown || args.unknown || declared.unknown {
		return UnknownFields(), nil
	}
	if args.Len() != declared.Len() {
		return Fields{}, errors.Wrapf(ErrFieldSize, "cannot replace %s with %s", args, declared)
	}
	res := Fields{names: f.Names()}
	for i, name := range args.names {
		idx := res.Index(name)
		if idx < 0 {
			return Fields{}, errors.Wrapf(ErrFieldNotFound, "%q in %s", name, f)
		}
		res.names[idx] = declared.names[i]
	}
	for i, name := range res.names {
		if idx := res.Index(name); idx != i {
			return Fields{}, errors.Wrapf(ErrFieldCollision, "%q after replacing %s", name, args)
		}
	}

	return res, nil
}

// Equal reports whether both sets hold the same names in the same order.
func (f Fields) Equal(other Fields) bool {
	if f.unknown || other.unknown {
		return f.unknown == other.unknown
	}
	if len(f.names) != len(other.names) {
		return false
	}
	for i := range f.names {
		if f.names[i] != other.names[i] {
			return false
		}
	}

	return true
}

func (f Fields) String() string {
	if f.unknown {
		return "UNKNOWN"
	}

	return "[" + strings.Join(f.names, ", ") + "]"
}
