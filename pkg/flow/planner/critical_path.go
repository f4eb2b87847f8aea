package planner

import "time"

// CriticalPath returns the chain of dependent steps with the largest total cost, and
// that cost. cost is typically the elapsed time measured for each step. Ties keep
// the lowest ordinals.
func (p *Plan) CriticalPath(cost func(step *ProcessModel) time.Duration) ([]*ProcessModel, time.Duration) {
	if len(p.steps) == 0 {
		return nil, 0
	}

	// steps are in topological order, every dependency is settled before its dependents.
	total := make([]time.Duration, len(p.steps))
	via := make([]int, len(p.steps))
	for i, step := range p.steps {
		via[i] = -1
		for _, dep := range p.deps[step.id] {
			if via[i] == -1 || total[dep.ordinal] > total[via[i]] {
				via[i] = dep.ordinal
			}
		}
		total[i] = cost(step)
		if via[i] >= 0 {
			total[i] += total[via[i]]
		}
	}

	end := 0
	for i := range total {
		if total[i] > total[end] {
			end = i
		}
	}

	var path []*ProcessModel
	for i := end; i >= 0; i = via[i] {
		path = append([]*ProcessModel{p.steps[i]}, path...)
	}

	return path, total[end]
}
