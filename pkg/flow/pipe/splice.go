package pipe

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/askiada/go-flowplan/pkg/flow/model"
)

// GroupBy groups the records of one or more branches declaring the same fields.
type GroupBy struct {
	Group   model.Fields
	Sort    model.Fields
	Reverse bool
}

func (*GroupBy) kindName() string { return "GroupBy" }

// CoGroup groups several branches on their own keys and joins the groups.
type CoGroup struct {
	// Groups holds one grouping key per previous pipe.
	Groups   []model.Fields
	Declared model.Fields
}

func (*CoGroup) kindName() string { return "CoGroup" }

// Merge interleaves branches declaring the same fields, without grouping them.
type Merge struct{}

func (*Merge) kindName() string { return "Merge" }

// HashJoin joins branches on their keys without grouping them.
type HashJoin struct {
	Groups   []model.Fields
	Declared model.Fields
}

func (*HashJoin) kindName() string { return "HashJoin" }

// spliceName joins the distinct names of the previous pipes.
func spliceName(previous []*Node) string {
	names := make([]string, 0, len(previous))
	seen := make(map[string]struct{}, len(previous))
	for _, prev := range previous {
		name := prev.Name()
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	return strings.Join(names, "+")
}

func newSplice(kind Kind, previous []*Node, minInputs int, o *options) (*Node, error) {
	if len(previous) < minInputs {
		return nil, errors.Wrapf(ErrSpliceInputs, "%s needs at least %d pipes, got %d", kind.kindName(), minInputs, len(previous))
	}
	for _, prev := range previous {
		if prev == nil {
			return nil, ErrPreviousMustBeSet
		}
	}
	if o.name == "" {
		o.name = spliceName(previous)
	}

	return newNode(kind, previous, o)
}

func spliceGroups(previous []*Node, groups [][]string) ([]model.Fields, error) {
	if len(groups) != 1 && len(groups) != len(previous) {
		return nil, errors.Wrapf(ErrGroupFieldsMustBeSet, "got %d keys for %d pipes", len(groups), len(previous))
	}
	res := make([]model.Fields, len(previous))
	for i := range previous {
		names := groups[0]
		if len(groups) > 1 {
			names = groups[i]
		}
		if len(names) == 0 {
			return nil, errors.Wrapf(ErrGroupFieldsMustBeSet, "empty key for pipe %d", i)
		}
		res[i] = model.NewFields(names...)
	}

	return res, nil
}

// NewGroupBy groups the records of previous on the group fields.
func NewGroupBy(previous []*Node, group []string, opts ...Option) (*Node, error) {
	if len(group) == 0 {
		return nil, ErrGroupFieldsMustBeSet
	}
	o := newOptions(opts)
	kind := &GroupBy{
		Group:   model.NewFields(group...),
		Sort:    o.sortFields,
		Reverse: o.reverse,
	}

	return newSplice(kind, previous, 1, o)
}

// NewCoGroup joins previous on groups, one key per pipe, or a single key shared by all pipes.
func NewCoGroup(previous []*Node, groups [][]string, opts ...Option) (*Node, error) {
	fields, err := spliceGroups(previous, groups)
	if err != nil {
		return nil, err
	}
	o := newOptions(opts)

	return newSplice(&CoGroup{Groups: fields, Declared: o.declared}, previous, 2, o)
}

// NewMerge merges previous.
func NewMerge(previous []*Node, opts ...Option) (*Node, error) {
	return newSplice(&Merge{}, previous, 2, newOptions(opts))
}

// NewHashJoin joins previous on groups, one key per pipe, or a single key shared by all pipes.
func NewHashJoin(previous []*Node, groups [][]string, opts ...Option) (*Node, error) {
	fields, err := spliceGroups(previous, groups)
	if err != nil {
		return nil, err
	}
	o := newOptions(opts)

	return newSplice(&HashJoin{Groups: fields, Declared: o.declared}, previous, 2, o)
}

// commonFields checks that every known incoming scope declares the same fields.
func commonFields(name string, incoming []model.Scope) (model.Fields, error) {
	res := model.UnknownFields()
	for _, in := range incoming {
		if in.Outgoing.IsUnknown() {
			continue
		}
		if res.IsUnknown() {
			res = in.Outgoing

			continue
		}
		if !res.Equal(in.Outgoing) {
			return model.Fields{}, errors.Wrapf(ErrMergeFields, "%s: %s and %s", name, res, in.Outgoing)
		}
	}

	return res, nil
}

func requireIncoming(name string, incoming []model.Scope) error {
	if len(incoming) == 0 {
		return errors.Wrapf(ErrResolutionContract, "%s has no incoming scope", name)
	}

	return nil
}

// OutgoingScope resolves the fields leaving the GroupBy.
func (g *GroupBy) OutgoingScope(name string, incoming []model.Scope) (model.Scope, error) {
	err := requireIncoming(name, incoming)
	if err != nil {
		return model.Scope{}, err
	}
	fields, err := commonFields(name, incoming)
	if err != nil {
		return model.Scope{}, err
	}
	grouping := make([]model.GroupingKey, len(incoming))
	for i, in := range incoming {
		_, err := in.Outgoing.Select(g.Group)
		if err != nil {
			return model.Scope{}, errors.Wrapf(err, "unable to group %s on branch %q", name, in.Name)
		}
		grouping[i] = model.GroupingKey{Branch: in.Name, Fields: g.Group}
	}
	_, err = fields.Select(g.Sort)
	if err != nil {
		return model.Scope{}, errors.Wrapf(err, "unable to sort %s", name)
	}

	return model.Scope{
		Name:        name,
		Incoming:    fields,
		Passthrough: fields,
		Outgoing:    fields,
		Grouping:    grouping,
		Key:         g.Group,
		Values:      fields,
	}, nil
}

// OutgoingScope resolves the fields leaving the Merge.
func (m *Merge) OutgoingScope(name string, incoming []model.Scope) (model.Scope, error) {
	err := requireIncoming(name, incoming)
	if err != nil {
		return model.Scope{}, err
	}
	fields, err := commonFields(name, incoming)
	if err != nil {
		return model.Scope{}, err
	}

	return model.PassThroughScope(name, fields), nil
}

// OutgoingScope resolves the fields leaving the CoGroup.
func (c *CoGroup) OutgoingScope(name string, incoming []model.Scope) (model.Scope, error) {
	scope, err := joinScope(name, c.Groups, c.Declared, incoming)
	if err != nil {
		return model.Scope{}, err
	}
	scope.Key = joinedKey(c.Groups[0], incoming[0].Outgoing, scope.Outgoing)
	scope.Values = scope.Outgoing

	return scope, nil
}

// OutgoingScope resolves the fields leaving the HashJoin. Joined records are not grouped.
func (h *HashJoin) OutgoingScope(name string, incoming []model.Scope) (model.Scope, error) {
	scope, err := joinScope(name, h.Groups, h.Declared, incoming)
	if err != nil {
		return model.Scope{}, err
	}
	scope.Grouping = nil

	return scope, nil
}

func joinScope(name string, groups []model.Fields, declared model.Fields, incoming []model.Scope) (model.Scope, error) {
	if len(incoming) != len(groups) {
		return model.Scope{}, errors.Wrapf(ErrResolutionContract, "%s expects %d incoming scopes, got %d", name, len(groups), len(incoming))
	}
	var names []string
	unknown := false
	grouping := make([]model.GroupingKey, len(incoming))
	for i, in := range incoming {
		if groups[i].Len() != groups[0].Len() {
			return model.Scope{}, errors.Wrapf(model.ErrFieldSize, "%s: keys %s and %s", name, groups[0], groups[i])
		}
		_, err := in.Outgoing.Select(groups[i])
		if err != nil {
			return model.Scope{}, errors.Wrapf(err, "unable to join %s on branch %q", name, in.Name)
		}
		grouping[i] = model.GroupingKey{Branch: in.Name, Fields: groups[i]}
		if in.Outgoing.IsUnknown() {
			unknown = true

			continue
		}
		names = append(names, in.Outgoing.Names()...)
	}

	joined := model.NewFields(names...)
	collides := joined.Len() != len(names)
	if unknown {
		joined = model.UnknownFields()
	}
	outgoing := joined
	switch {
	case declared.Len() > 0:
		if !unknown && len(names) != declared.Len() {
			return model.Scope{}, errors.Wrapf(model.ErrFieldSize, "%s declares %s for %d joined fields", name, declared, len(names))
		}
		outgoing = declared
	case unknown:
	case collides:
		return model.Scope{}, errors.Wrapf(model.ErrFieldCollision, "%s must declare its fields", name)
	}

	return model.Scope{
		Name:        name,
		Incoming:    joined,
		Passthrough: outgoing,
		Outgoing:    outgoing,
		Grouping:    grouping,
	}, nil
}

// joinedKey maps the key of the first branch onto the declared output names.
func joinedKey(key, first, outgoing model.Fields) model.Fields {
	if first.IsUnknown() || outgoing.IsUnknown() {
		return key
	}
	names := outgoing.Names()
	res := make([]string, 0, key.Len())
	for _, name := range key.Names() {
		idx := first.Index(name)
		if idx < 0 || idx >= len(names) {
			return key
		}
		res = append(res, names[idx])
	}

	return model.NewFields(res...)
}
