package drawer

import (
	"io"
	"strings"
	"text/template"

	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-flowplan/pkg/flow/element"
	"github.com/askiada/go-flowplan/pkg/flow/planner"
)

const maxRGB = 240

//nolint:lll //this is a template
const dotTemplate = `digraph {
{{range $k, $v := .Attributes}}	{{$k}}="{{esc $v}}";
{{end}}{{range .Clusters}}	subgraph "cluster_{{.Ordinal}}" {
		label="{{esc .Label}}";
		color="{{.Color}}";
{{range .Vertices}}		"{{.ID}}" [label="{{esc .Label}}", shape={{.Shape}}];
{{end}}	}
{{end}}{{range .Edges}}	"{{.Source}}" -> "{{.Target}}"{{if .Label}} [label="{{esc .Label}}"]{{end}};
{{end}}}
`

type description struct {
	Attributes map[string]string
	Clusters   []cluster
	Edges      []edge
}

type cluster struct {
	Ordinal  int
	Label    string
	Color    string
	Vertices []vertex
}

type vertex struct {
	ID    string
	Label string
	Shape string
}

type edge struct {
	Source string
	Target string
	Label  string
}

// Option configures the rendering.
type Option func(d *description)

// GraphAttribute sets an attribute of the whole graph.
func GraphAttribute(key, value string) Option {
	return func(d *description) {
		d.Attributes[key] = value
	}
}

// Write renders plan to w.
func Write(w io.Writer, plan *planner.Plan, opts ...Option) error {
	desc, err := describe(plan, opts...)
	if err != nil {
		return errors.Wrap(err, "unable to describe plan")
	}

	tpl, err := template.New("dotTemplate").Funcs(template.FuncMap{"esc": escape}).Parse(dotTemplate)
	if err != nil {
		return errors.Wrap(err, "unable to parse template")
	}
	err = tpl.Execute(w, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

func describe(plan *planner.Plan, opts ...Option) (description, error) {
	desc := description{Attributes: map[string]string{"rankdir": "TB"}}
	for _, opt := range opts {
		opt(&desc)
	}

	steps := plan.Steps()
	for _, step := range steps {
		color, err := stepColor(step.Ordinal(), len(steps))
		if err != nil {
			return desc, err
		}
		c := cluster{Ordinal: step.Ordinal(), Label: step.Name(), Color: color}
		for _, e := range step.MaskedElementGraph().Elements() {
			if e.Kind() == element.KindPipe && !step.Owns(e.Node()) {
				continue
			}
			c.Vertices = append(c.Vertices, vertex{ID: e.Key(), Label: e.String(), Shape: shape(e)})
		}
		desc.Clusters = append(desc.Clusters, c)
	}

	for _, e := range plan.Graph().Edges() {
		var label string
		if s, ok := plan.Scopes().Edge(e.From, e.To); ok {
			label = s.Outgoing.String()
		}
		desc.Edges = append(desc.Edges, edge{Source: e.From.Key(), Target: e.To.Key(), Label: label})
	}

	return desc, nil
}

// stepColor spreads the steps from blue to red.
func stepColor(ordinal, total int) (string, error) {
	fraction := 0.0
	if total > 1 {
		fraction = float64(ordinal) / float64(total-1)
	}
	red := maxRGB * fraction
	blue := maxRGB - red

	c, err := colors.RGB(uint8(red), 0, uint8(blue)) //nolint
	if err != nil {
		return "", errors.Wrap(err, "unable to get colour")
	}

	return c.ToHEX().String(), nil
}

func shape(e *element.Element) string {
	switch {
	case e.IsTap():
		return "cylinder"
	case e.Node().IsSplice():
		return "diamond"
	default:
		return "box"
	}
}

func escape(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
