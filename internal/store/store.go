// Package store provides an in-memory graph.Store remembering insertion order,
// so that graphs built from the same assembly always list vertices and edges identically.
package store

import (
	"fmt"
	"sync"

	"github.com/dominikbraun/graph"
)

// OrderedStore is a graph.Store listing vertices and edges in insertion order.
type OrderedStore[K comparable, T any] interface {
	graph.Store[K, T]
	// Successors returns the targets of the edges leaving k, in insertion order.
	Successors(k K) []K
	// Predecessors returns the sources of the edges entering k, in insertion order.
	Predecessors(k K) []K
}

type edgeKey[K comparable] struct {
	source, target K
}

// MemoryStore keeps vertices and edges in maps and their order in slices.
type MemoryStore[K comparable, T any] struct {
	lock             sync.RWMutex
	order            []K
	vertices         map[K]T
	vertexProperties map[K]graph.VertexProperties

	edgeOrder []edgeKey[K]
	edges     map[edgeKey[K]]graph.Edge[K]
	outEdges  map[K][]K // source -> targets
	inEdges   map[K][]K // target -> sources
}

func NewMemoryStore[K comparable, T any]() *MemoryStore[K, T] {
	return &MemoryStore[K, T]{
		vertices:         make(map[K]T),
		vertexProperties: make(map[K]graph.VertexProperties),
		edges:            make(map[edgeKey[K]]graph.Edge[K]),
		outEdges:         make(map[K][]K),
		inEdges:          make(map[K][]K),
	}
}

func (s *MemoryStore[K, T]) AddVertex(k K, t T, p graph.VertexProperties) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.vertices[k]; ok {
		return graph.ErrVertexAlreadyExists
	}

	s.order = append(s.order, k)
	s.vertices[k] = t
	s.vertexProperties[k] = p

	return nil
}

func (s *MemoryStore[K, T]) ListVertices() ([]K, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	hashes := make([]K, len(s.order))
	copy(hashes, s.order)

	return hashes, nil
}

func (s *MemoryStore[K, T]) VertexCount() (int, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return len(s.vertices), nil
}

func (s *MemoryStore[K, T]) Vertex(k K) (T, graph.VertexProperties, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	v, ok := s.vertices[k]
	if !ok {
		return v, graph.VertexProperties{}, graph.ErrVertexNotFound
	}

	return v, s.vertexProperties[k], nil
}

func (s *MemoryStore[K, T]) RemoveVertex(k K) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.vertices[k]; !ok {
		return graph.ErrVertexNotFound
	}
	if len(s.inEdges[k]) > 0 || len(s.outEdges[k]) > 0 {
		return graph.ErrVertexHasEdges
	}

	delete(s.inEdges, k)
	delete(s.outEdges, k)
	delete(s.vertices, k)
	delete(s.vertexProperties, k)
	s.order = without(s.order, k)

	return nil
}

func (s *MemoryStore[K, T]) AddEdge(sourceHash, targetHash K, edge graph.Edge[K]) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	key := edgeKey[K]{sourceHash, targetHash}
	if _, ok := s.edges[key]; ok {
		return graph.ErrEdgeAlreadyExists
	}

	s.edgeOrder = append(s.edgeOrder, key)
	s.edges[key] = edge
	s.outEdges[sourceHash] = append(s.outEdges[sourceHash], targetHash)
	s.inEdges[targetHash] = append(s.inEdges[targetHash], sourceHash)

	return nil
}

func (s *MemoryStore[K, T]) UpdateEdge(sourceHash, targetHash K, edge graph.Edge[K]) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	key := edgeKey[K]{sourceHash, targetHash}
	if _, ok := s.edges[key]; !ok {
		return graph.ErrEdgeNotFound
	}
	s.edges[key] = edge

	return nil
}

func (s *MemoryStore[K, T]) RemoveEdge(sourceHash, targetHash K) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	key := edgeKey[K]{sourceHash, targetHash}
	if _, ok := s.edges[key]; !ok {
		return nil
	}
	delete(s.edges, key)
	s.edgeOrder = without(s.edgeOrder, key)
	s.outEdges[sourceHash] = without(s.outEdges[sourceHash], targetHash)
	s.inEdges[targetHash] = without(s.inEdges[targetHash], sourceHash)

	return nil
}

func (s *MemoryStore[K, T]) Edge(sourceHash, targetHash K) (graph.Edge[K], error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	edge, ok := s.edges[edgeKey[K]{sourceHash, targetHash}]
	if !ok {
		return graph.Edge[K]{}, graph.ErrEdgeNotFound
	}

	return edge, nil
}

func (s *MemoryStore[K, T]) ListEdges() ([]graph.Edge[K], error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	res := make([]graph.Edge[K], 0, len(s.edgeOrder))
	for _, key := range s.edgeOrder {
		res = append(res, s.edges[key])
	}

	return res, nil
}

func (s *MemoryStore[K, T]) Successors(k K) []K {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return append([]K(nil), s.outEdges[k]...)
}

func (s *MemoryStore[K, T]) Predecessors(k K) []K {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return append([]K(nil), s.inEdges[k]...)
}

// CreatesCycle reports whether an edge from source to target would close a cycle,
// walking the incoming edges of source instead of building a predecessor map.
func (s *MemoryStore[K, T]) CreatesCycle(source, target K) (bool, error) {
	if _, _, err := s.Vertex(source); err != nil {
		return false, fmt.Errorf("could not get vertex with hash %v: %w", source, err)
	}

	if _, _, err := s.Vertex(target); err != nil {
		return false, fmt.Errorf("could not get vertex with hash %v: %w", target, err)
	}

	if source == target {
		return true, nil
	}

	s.lock.RLock()
	defer s.lock.RUnlock()

	stack := []K{source}
	visited := make(map[K]struct{})
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := visited[current]; ok {
			continue
		}
		// target already reaches source: the new edge would close the loop.
		if current == target {
			return true, nil
		}
		visited[current] = struct{}{}
		stack = append(stack, s.inEdges[current]...)
	}

	return false, nil
}

func without[K comparable](list []K, k K) []K {
	res := list[:0]
	for _, cur := range list {
		if cur != k {
			res = append(res, cur)
		}
	}

	return res
}

var _ OrderedStore[string, int] = (*MemoryStore[string, int])(nil)
