package model

import "fmt"

// TapRole tells whether a tap can be read, written, or both.
type TapRole int

const (
	RoleRead TapRole = 1 << iota
	RoleWrite

	RoleReadWrite = RoleRead | RoleWrite
)

func (r TapRole) CanRead() bool {
	return r&RoleRead != 0
}

func (r TapRole) CanWrite() bool {
	return r&RoleWrite != 0
}

func (r TapRole) String() string {
	switch r {
	case RoleRead:
		return "read"
	case RoleWrite:
		return "write"
	case RoleReadWrite:
		return "read-write"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Tap is an external endpoint the planner reads from or writes to.
// The planner never opens a tap; it only routes on its identifier and role.
type Tap interface {
	// Identifier names the resource behind the tap, for example a path or a table.
	Identifier() string
	// Role tells whether the tap can be read, written, or both.
	Role() TapRole
}

// FieldsTap is implemented by taps that know the fields they produce when read.
type FieldsTap interface {
	Tap
	SourceFields() Fields
}

// SimpleTap is a plain Tap implementation holding its identifier, role and fields.
type SimpleTap struct {
	identifier string
	role       TapRole
	fields     Fields
}

// NewTap returns a tap. Without fields, the tap reads unknown fields.
func NewTap(role TapRole, identifier string, fields ...string) *SimpleTap {
	f := UnknownFields()
	if len(fields) > 0 {
		f = NewFields(fields...)
	}

	return &SimpleTap{identifier: identifier, role: role, fields: f}
}

func (t *SimpleTap) Identifier() string {
	return t.identifier
}

func (t *SimpleTap) Role() TapRole {
	return t.role
}

func (t *SimpleTap) SourceFields() Fields {
	return t.fields
}

func (t *SimpleTap) String() string {
	return fmt.Sprintf("Tap[%s](%s)", t.role, t.identifier)
}

var _ FieldsTap = (*SimpleTap)(nil)
