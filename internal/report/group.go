package report

// Grouped is a key to accumulator mapping that remembers the order in which
// keys were first seen.
type Grouped[K comparable, V any] struct {
	keys   []K
	values map[K]*V
}

func NewGrouped[K comparable, V any]() *Grouped[K, V] {
	return &Grouped[K, V]{values: make(map[K]*V)}
}

// Upsert returns the accumulator for key, creating it with init on first use.
func (g *Grouped[K, V]) Upsert(key K, init func() V) *V {
	if acc, ok := g.values[key]; ok {
		return acc
	}
	acc := new(V)
	if init != nil {
		*acc = init()
	}
	g.values[key] = acc
	g.keys = append(g.keys, key)
	return acc
}

func (g *Grouped[K, V]) Get(key K) (V, bool) {
	acc, ok := g.values[key]
	if !ok {
		var zero V
		return zero, false
	}
	return *acc, true
}

func (g *Grouped[K, V]) Len() int {
	return len(g.keys)
}

func (g *Grouped[K, V]) Keys() []K {
	return append([]K(nil), g.keys...)
}

// Values returns the accumulators in first-seen key order.
func (g *Grouped[K, V]) Values() []V {
	out := make([]V, 0, len(g.keys))
	for _, key := range g.keys {
		out = append(out, *g.values[key])
	}
	return out
}

// GroupBy folds records into per-key accumulators in one pass. Records for
// which key reports false are skipped.
func GroupBy[T any, K comparable, V any](
	records []T,
	key func(T) (K, bool),
	init func(K, T) V,
	fold func(*V, T),
) *Grouped[K, V] {
	groups := NewGrouped[K, V]()
	for _, record := range records {
		k, ok := key(record)
		if !ok {
			continue
		}
		acc := groups.Upsert(k, func() V { return init(k, record) })
		fold(acc, record)
	}
	return groups
}

// idSet is an insertion-ordered set.
type idSet[K comparable] struct {
	seen  map[K]struct{}
	items []K
}

func (s *idSet[K]) Add(id K) bool {
	if s.seen == nil {
		s.seen = make(map[K]struct{})
	}
	if _, ok := s.seen[id]; ok {
		return false
	}
	s.seen[id] = struct{}{}
	s.items = append(s.items, id)
	return true
}

func (s *idSet[K]) Items() []K {
	return append([]K(nil), s.items...)
}
