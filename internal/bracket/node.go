// Package bracket models a bonspiel draw as a forest of single-elimination
// trees whose leaves are either known teams or named loser slots filled by
// matches elsewhere in the forest.
package bracket

import (
	"encoding/json"
	"fmt"
)

// UnknownTeamID is the placeholder occupant used when a slot cannot be
// traced to a producing match. Resolution degrades to this per-slot rather
// than failing a whole query.
const UnknownTeamID = "unknown"

// NodeKind discriminates the bracket node variants
type NodeKind int

const (
	// KindTeam is a fixed, known occupant.
	KindTeam NodeKind = iota
	// KindSlot is an occupant resolved by tracing the producing match.
	KindSlot
	// KindMatch is a single elimination game.
	KindMatch
)

// Node is a tagged union over the three bracket node variants. Exactly one
// of TeamID, SlotName, or Match is set; Kind reports which.
type Node struct {
	TeamID   string
	SlotName string
	Match    *Match
}

// Match is a single elimination game. If LoserSlot is non-empty, the loser
// of this match becomes the occupant of that slot elsewhere in the forest.
type Match struct {
	Left      *Node
	Right     *Node
	LoserSlot string
}

// Kind reports the active variant
func (n *Node) Kind() NodeKind {
	switch {
	case n.Match != nil:
		return KindMatch
	case n.SlotName != "":
		return KindSlot
	default:
		return KindTeam
	}
}

// wire types matching the external JSON schema:
//
//	{"team": "id"} | {"slot": "name"} |
//	{"match": {"left": Node, "right": Node, "loserSlot": "name"}}
type nodeJSON struct {
	Team  string     `json:"team,omitempty"`
	Slot  string     `json:"slot,omitempty"`
	Match *matchJSON `json:"match,omitempty"`
}

type matchJSON struct {
	Left      *Node  `json:"left"`
	Right     *Node  `json:"right"`
	LoserSlot string `json:"loserSlot,omitempty"`
}

// UnmarshalJSON decodes the tagged wire form, rejecting nodes that carry
// zero or more than one variant key.
func (n *Node) UnmarshalJSON(data []byte) error {
	var w nodeJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	set := 0
	if w.Team != "" {
		set++
	}
	if w.Slot != "" {
		set++
	}
	if w.Match != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("bracket node must have exactly one of team, slot, match: %s", string(data))
	}

	switch {
	case w.Team != "":
		n.TeamID = w.Team
	case w.Slot != "":
		n.SlotName = w.Slot
	default:
		if w.Match.Left == nil || w.Match.Right == nil {
			return fmt.Errorf("bracket match requires both left and right nodes")
		}
		n.Match = &Match{
			Left:      w.Match.Left,
			Right:     w.Match.Right,
			LoserSlot: w.Match.LoserSlot,
		}
	}
	return nil
}

// MarshalJSON encodes the tagged wire form
func (n *Node) MarshalJSON() ([]byte, error) {
	switch n.Kind() {
	case KindTeam:
		return json.Marshal(nodeJSON{Team: n.TeamID})
	case KindSlot:
		return json.Marshal(nodeJSON{Slot: n.SlotName})
	default:
		return json.Marshal(nodeJSON{Match: &matchJSON{
			Left:      n.Match.Left,
			Right:     n.Match.Right,
			LoserSlot: n.Match.LoserSlot,
		}})
	}
}

// TeamNode builds a team leaf
func TeamNode(teamID string) *Node {
	return &Node{TeamID: teamID}
}

// SlotNode builds a slot leaf
func SlotNode(slotName string) *Node {
	return &Node{SlotName: slotName}
}

// MatchNode builds a match node; loserSlot may be empty
func MatchNode(left, right *Node, loserSlot string) *Node {
	return &Node{Match: &Match{Left: left, Right: right, LoserSlot: loserSlot}}
}

// Walk visits every node in the subtree in depth-first order. The visit
// function returns false to stop early.
func (n *Node) Walk(visit func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !visit(n) {
		return false
	}
	if n.Kind() == KindMatch {
		if !n.Match.Left.Walk(visit) {
			return false
		}
		if !n.Match.Right.Walk(visit) {
			return false
		}
	}
	return true
}

// TeamLeaves returns the team ids of every TeamLeaf in the subtree,
// without resolving slots.
func (n *Node) TeamLeaves() []string {
	var ids []string
	n.Walk(func(node *Node) bool {
		if node.Kind() == KindTeam {
			ids = append(ids, node.TeamID)
		}
		return true
	})
	return ids
}
