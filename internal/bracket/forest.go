package bracket

import (
	"encoding/json"
	"fmt"
)

// StructuralError reports a malformed bracket: a slot referenced but never
// produced, produced more than once, or a production cycle. It is raised
// at load time, before any path query.
type StructuralError struct {
	Slot   string
	Reason string
}

func (e *StructuralError) Error() string {
	if e.Slot == "" {
		return fmt.Sprintf("malformed bracket: %s", e.Reason)
	}
	return fmt.Sprintf("malformed bracket: slot %s: %s", e.Slot, e.Reason)
}

// Championship describes the pairing structure over qualifier indices.
// It is a fixed table, not a free tree: the round structure is determined
// by qualifier seeding, not by slot resolution.
type Championship struct {
	NumQualifiers int      `json:"numQualifiers"`
	QuarterSeed   [][2]int `json:"quarterSeed,omitempty"`
	SemiPairs     [][2]int `json:"semiPairs"`
}

// Forest is a fixed set of named event trees for one division. It is
// immutable for the duration of an auction cycle.
type Forest struct {
	AEvent       []*Node      `json:"a_event"`
	BEvent       []*Node      `json:"b_event"`
	CEvent       *Node        `json:"c_event"`
	DEvent       *Node        `json:"d_event"`
	Championship Championship `json:"championship"`

	// producers maps each slot name to the match whose loser fills it,
	// built once at load time so cross-tree slot references are explicit
	// lookups rather than shared pointers.
	producers map[string]*Match
}

// ParseForest decodes and validates a bracket forest from its JSON wire
// form. Validation failures surface as *StructuralError.
func ParseForest(data []byte) (*Forest, error) {
	f := &Forest{}
	if err := json.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("failed to decode bracket forest: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Trees returns every event tree root in the forest, A qualifiers first.
func (f *Forest) Trees() []*Node {
	trees := make([]*Node, 0, len(f.AEvent)+len(f.BEvent)+2)
	trees = append(trees, f.AEvent...)
	trees = append(trees, f.BEvent...)
	if f.CEvent != nil {
		trees = append(trees, f.CEvent)
	}
	if f.DEvent != nil {
		trees = append(trees, f.DEvent)
	}
	return trees
}

// QualifierTrees returns the championship qualifier trees in seeding
// order: A-event qualifiers followed by B-event qualifiers.
func (f *Forest) QualifierTrees() []*Node {
	trees := make([]*Node, 0, len(f.AEvent)+len(f.BEvent))
	trees = append(trees, f.AEvent...)
	trees = append(trees, f.BEvent...)
	return trees
}

// Producer returns the match whose loser fills the named slot, or nil if
// no match produces it.
func (f *Forest) Producer(slot string) *Match {
	return f.producers[slot]
}

// TeamIDs returns the ids of every team leaf across the forest
func (f *Forest) TeamIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, tree := range f.Trees() {
		for _, id := range tree.TeamLeaves() {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// Validate checks structural well-formedness: every referenced slot has
// exactly one producer and no slot's production path depends on a match
// that consumes that same slot. Slot resolution assumes these invariants,
// so they are enforced here rather than discovered lazily mid-query.
func (f *Forest) Validate() error {
	if len(f.AEvent) == 0 {
		return &StructuralError{Reason: "no A-event qualifier trees"}
	}

	producers := make(map[string]*Match)
	referenced := make(map[string]struct{})

	for _, tree := range f.Trees() {
		var walkErr error
		tree.Walk(func(n *Node) bool {
			switch n.Kind() {
			case KindSlot:
				referenced[n.SlotName] = struct{}{}
			case KindMatch:
				if n.Match.LoserSlot != "" {
					if _, dup := producers[n.Match.LoserSlot]; dup {
						walkErr = &StructuralError{Slot: n.Match.LoserSlot, Reason: "produced by more than one match"}
						return false
					}
					producers[n.Match.LoserSlot] = n.Match
				}
			}
			return true
		})
		if walkErr != nil {
			return walkErr
		}
	}

	for slot := range referenced {
		if _, ok := producers[slot]; !ok {
			return &StructuralError{Slot: slot, Reason: "referenced but never produced"}
		}
	}

	if err := f.checkCycles(producers); err != nil {
		return err
	}

	f.producers = producers
	return nil
}

// checkCycles rejects forests where a slot's producing match transitively
// consumes that same slot. DFS over the slot dependency graph with a
// three-color marking.
func (f *Forest) checkCycles(producers map[string]*Match) error {
	const (
		white = 0
		grey  = 1
		black = 2
	)
	color := make(map[string]int)

	deps := func(slot string) []string {
		m := producers[slot]
		if m == nil {
			return nil
		}
		var consumed []string
		for _, side := range []*Node{m.Left, m.Right} {
			side.Walk(func(n *Node) bool {
				if n.Kind() == KindSlot {
					consumed = append(consumed, n.SlotName)
				}
				return true
			})
		}
		return consumed
	}

	var visit func(slot string) error
	visit = func(slot string) error {
		switch color[slot] {
		case grey:
			return &StructuralError{Slot: slot, Reason: "production cycle detected"}
		case black:
			return nil
		}
		color[slot] = grey
		for _, dep := range deps(slot) {
			if err := visit(dep); err != nil {
				return err
			}
		}
		color[slot] = black
		return nil
	}

	for slot := range producers {
		if err := visit(slot); err != nil {
			return err
		}
	}
	return nil
}
