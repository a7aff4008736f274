package bracket

import "sort"

// Resolver answers "which teams could possibly occupy this slot" by
// tracing the match that produces the slot, expanding nested slots
// transitively. Candidate sets depend only on the forest, never on the
// team being traced, so results are memoized per slot name for the life
// of one forest snapshot. Build a fresh Resolver whenever the forest
// changes identity; bid changes never invalidate it.
type Resolver struct {
	forest *Forest
	memo   map[string][]string
	// inFlight guards against re-entry while a slot's own resolution is
	// still on the stack; a re-entered slot degrades to the unknown
	// placeholder instead of recursing.
	inFlight map[string]bool
}

// NewResolver creates a resolver bound to one forest snapshot
func NewResolver(forest *Forest) *Resolver {
	return &Resolver{
		forest:   forest,
		memo:     make(map[string][]string),
		inFlight: make(map[string]bool),
	}
}

// Resolve returns the sorted set of team ids that could occupy the named
// slot. Both branches of the producing match are candidates, because
// either could be the loser. A slot with no producer resolves to the
// singleton unknown placeholder rather than failing the query.
func (r *Resolver) Resolve(slot string) []string {
	if cached, ok := r.memo[slot]; ok {
		return cached
	}
	if r.inFlight[slot] {
		return []string{UnknownTeamID}
	}

	producer := r.forest.Producer(slot)
	if producer == nil {
		r.memo[slot] = []string{UnknownTeamID}
		return r.memo[slot]
	}

	r.inFlight[slot] = true
	set := make(map[string]struct{})
	r.collect(producer.Left, set)
	r.collect(producer.Right, set)
	delete(r.inFlight, slot)

	r.memo[slot] = sortedSet(set)
	return r.memo[slot]
}

// Candidates returns the sorted set of team ids reachable as occupants of
// any leaf under the node, resolving slot leaves transitively.
func (r *Resolver) Candidates(node *Node) []string {
	set := make(map[string]struct{})
	r.collect(node, set)
	return sortedSet(set)
}

func (r *Resolver) collect(node *Node, set map[string]struct{}) {
	switch node.Kind() {
	case KindTeam:
		set[node.TeamID] = struct{}{}
	case KindSlot:
		for _, id := range r.Resolve(node.SlotName) {
			set[id] = struct{}{}
		}
	case KindMatch:
		r.collect(node.Match.Left, set)
		r.collect(node.Match.Right, set)
	}
}

// CachedSlots reports how many slot resolutions are memoized
func (r *Resolver) CachedSlots() int {
	return len(r.memo)
}

func sortedSet(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
