package loader

import (
	"strings"

	"github.com/sprout-sh/sprout/pkg/errors"
	"github.com/sprout-sh/sprout/pkg/plugins"
)

// mark is the visit state of one plugin during the depth-first sort.
type mark int

const (
	unvisited mark = iota
	visiting
	visited
)

// Order sorts the selected plugins so that every dependency comes before
// each of its dependents. Dependencies naming plugins outside the
// selected set contribute no edge. Plugins with no constraint between
// them keep their input order. A cycle fails with a DEPENDENCY_CYCLE
// error naming every plugin on the cycle.
func Order(selected []plugins.Plugin) ([]plugins.Plugin, error) {
	s := &sorter{
		byName: make(map[string]plugins.Plugin, len(selected)),
		marks:  make(map[string]mark, len(selected)),
		order:  make([]plugins.Plugin, 0, len(selected)),
	}
	for _, p := range selected {
		s.byName[p.Descriptor().Name] = p
	}
	for _, p := range selected {
		if err := s.visit(p.Descriptor().Name); err != nil {
			return nil, err
		}
	}
	return s.order, nil
}

type sorter struct {
	byName map[string]plugins.Plugin
	marks  map[string]mark
	stack  []string
	order  []plugins.Plugin
}

func (s *sorter) visit(name string) error {
	switch s.marks[name] {
	case visited:
		return nil
	case visiting:
		return s.cycleError(name)
	}

	s.marks[name] = visiting
	s.stack = append(s.stack, name)

	for _, dep := range s.byName[name].Descriptor().Dependencies {
		if _, ok := s.byName[dep]; !ok {
			continue
		}
		if err := s.visit(dep); err != nil {
			return err
		}
	}

	s.stack = s.stack[:len(s.stack)-1]
	s.marks[name] = visited
	s.order = append(s.order, s.byName[name])
	return nil
}

// cycleError reports the back-edge to name. The cycle members are the
// tail of the visit stack starting at name, in traversal order.
func (s *sorter) cycleError(name string) error {
	start := 0
	for i, n := range s.stack {
		if n == name {
			start = i
			break
		}
	}
	cycle := make([]string, len(s.stack)-start)
	copy(cycle, s.stack[start:])

	return errors.Newf(errors.ErrDependencyCycle,
		"dependency cycle detected: %s -> %s",
		strings.Join(cycle, " -> "), name).
		WithDetail("cycle", cycle)
}
