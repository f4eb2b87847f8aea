package planner

import (
	"github.com/askiada/go-flowplan/pkg/flow/element"
	"github.com/askiada/go-flowplan/pkg/flow/model"
	"github.com/askiada/go-flowplan/pkg/flow/pipe"
)

// ProcessModel is one physical step of a plan: the sub graph running between shuffle boundaries
// and taps. A ProcessModel never changes once planned.
type ProcessModel struct {
	id             string
	ordinal        int
	name           string
	submitPriority int

	groups     []*pipe.Node
	owned      map[pipe.ID]*pipe.Node
	nodes      []*pipe.Node
	sourceTaps map[string]model.Tap
	sinkTaps   map[string]model.Tap
	trapMap    map[string]model.Tap

	sources []*element.Element
	sinks   []*element.Element

	elementGraph *element.Graph
	masked       *element.Graph

	processConfig *model.ConfigDef
}

// ID identifies the step for the lifetime of one planning run. Stats collaborators use it
// as a correlation key.
func (m *ProcessModel) ID() string {
	return m.id
}

// Ordinal is the position of the step in the plan. A step always comes after the steps it reads from.
func (m *ProcessModel) Ordinal() int {
	return m.ordinal
}

func (m *ProcessModel) Name() string {
	return m.name
}

// SubmitPriority is one plus the length of the longest chain of steps this one depends on.
// Independent steps at the same depth share a priority.
func (m *ProcessModel) SubmitPriority() int {
	return m.submitPriority
}

// Groups returns the splices reading the shuffles this step starts from.
func (m *ProcessModel) Groups() []*pipe.Node {
	return append([]*pipe.Node(nil), m.groups...)
}

// Nodes returns the pipes owned by the step, in topological order.
func (m *ProcessModel) Nodes() []*pipe.Node {
	return append([]*pipe.Node(nil), m.nodes...)
}

// Owns reports whether the step runs n. A boundary splice is owned by the step reading its shuffle.
func (m *ProcessModel) Owns(n *pipe.Node) bool {
	_, ok := m.owned[n.ID()]

	return ok
}

// SourceTaps returns the taps read by the step, by branch name.
func (m *ProcessModel) SourceTaps() map[string]model.Tap {
	return copyTaps(m.sourceTaps)
}

// SinkTaps returns the taps written by the step, by branch name.
func (m *ProcessModel) SinkTaps() map[string]model.Tap {
	return copyTaps(m.sinkTaps)
}

// TrapMap returns the trap taps of the step, by the name of the branch they catch failures of.
func (m *ProcessModel) TrapMap() map[string]model.Tap {
	return copyTaps(m.trapMap)
}

// SourceElements returns the elements the step starts from: its source taps and the splices in Groups.
func (m *ProcessModel) SourceElements() []*element.Element {
	return append([]*element.Element(nil), m.sources...)
}

// SinkElements returns the elements the step ends on: its sink taps and the splices it writes into.
func (m *ProcessModel) SinkElements() []*element.Element {
	return append([]*element.Element(nil), m.sinks...)
}

// ElementGraph returns a copy of the step graph, including the head and tail extents.
func (m *ProcessModel) ElementGraph() *element.Graph {
	return m.elementGraph.Clone()
}

// MaskedElementGraph returns a copy of the step graph without the extents.
func (m *ProcessModel) MaskedElementGraph() *element.Graph {
	return m.masked.Clone()
}

// ProcessConfig returns the plan properties overlaid with the process overlays of the owned pipes.
func (m *ProcessModel) ProcessConfig() *model.ConfigDef {
	return m.processConfig.Clone()
}

// ConfigFor returns the configuration n runs with: the process configuration overlaid with
// the local overlay of n.
func (m *ProcessModel) ConfigFor(n *pipe.Node) *model.ConfigDef {
	return model.Overlay(m.processConfig, n.ConfigDef())
}

func (m *ProcessModel) String() string {
	return m.name
}

func copyTaps(taps map[string]model.Tap) map[string]model.Tap {
	res := make(map[string]model.Tap, len(taps))
	for k, v := range taps {
		res[k] = v
	}

	return res
}
