package model

// GroupingKey is the grouping key of one branch entering a splice.
type GroupingKey struct {
	Branch string
	Fields Fields
}

// Scope is the resolved view of the fields around one pipe: what arrives, what the
// operation consumes and declares, what is passed through untouched, and what leaves.
type Scope struct {
	// Name is the branch name the scope is resolved for.
	Name        string
	Incoming    Fields
	Arguments   Fields
	Declared    Fields
	Passthrough Fields
	Outgoing    Fields
	// Grouping holds the grouping key of every incoming branch, in splice order.
	// It is only set on scopes leaving a grouping splice or an aggregation.
	Grouping []GroupingKey
	// Key is the grouping key seen by aggregations downstream of a grouping splice.
	Key Fields
	// Values are the fields of the grouped records seen by aggregations.
	Values Fields
	// Aggregated is set once an aggregation has produced the outgoing fields.
	Aggregated bool
}

// PassThroughScope returns a scope forwarding fields unchanged.
func PassThroughScope(name string, fields Fields) Scope {
	return Scope{
		Name:        name,
		Incoming:    fields,
		Passthrough: fields,
		Outgoing:    fields,
	}
}

// Named returns a copy of s carrying the given branch name.
func (s Scope) Named(name string) Scope {
	s.Name = name
	if s.Grouping != nil {
		grouping := make([]GroupingKey, len(s.Grouping))
		copy(grouping, s.Grouping)
		s.Grouping = grouping
	}

	return s
}

// IsGrouped reports whether the records leaving this scope are grouped.
func (s Scope) IsGrouped() bool {
	return len(s.Grouping) > 0
}
