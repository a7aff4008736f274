package bracket

import (
	"fmt"
	"sort"
)

// Round is one game on a team's remaining path: the label shown for the
// round, the set of teams that could be the opponent, and the slot the
// loser of this game falls into, if any.
type Round struct {
	Label     string   `json:"roundLabel"`
	Opponents []string `json:"opponentTeamIds"`
	LoserSlot string   `json:"loserSlot,omitempty"`
}

// Path is a team's route to one event's title match. Applicable is false
// when the team cannot reach that event from its current position; that
// is a normal outcome, not an error.
type Path struct {
	Applicable bool    `json:"applicable"`
	Rounds     []Round `json:"rounds,omitempty"`
}

// PathSet holds a team's paths to all four payout events. Found is false
// when the team does not appear anywhere in the forest.
type PathSet struct {
	TeamID string `json:"teamId"`
	Found  bool   `json:"found"`
	A      Path   `json:"a"`
	B      Path   `json:"b"`
	C      Path   `json:"c"`
	D      Path   `json:"d"`
}

// PathFinder traces a team's remaining opponents to each event. It is
// stateless per call apart from the resolver's slot memoization.
type PathFinder struct {
	forest   *Forest
	resolver *Resolver
}

// NewPathFinder creates a path finder over one forest snapshot
func NewPathFinder(forest *Forest, resolver *Resolver) *PathFinder {
	if resolver == nil {
		resolver = NewResolver(forest)
	}
	return &PathFinder{forest: forest, resolver: resolver}
}

// spineStep records one match on the walk from a leaf up to its tree
// root: the match itself and the branch not containing the leaf.
type spineStep struct {
	match *Match
	other *Node
}

// FindPaths returns the team's paths to every event. Teams absent from
// the forest yield Found == false so callers can probe the whole roster
// without pre-filtering.
func (pf *PathFinder) FindPaths(teamID string) PathSet {
	result := PathSet{TeamID: teamID}

	aTree, aSpine, ok := pf.locateTeam(teamID)
	if !ok {
		return result
	}
	result.Found = true
	result.A = pf.aPath(teamID, aTree, aSpine)

	// The consolation chain starts from the loser slot of the team's
	// first A-event game. No slot there means no route out of the A
	// bracket, so B, C, and D all stay not-applicable.
	if len(aSpine) == 0 || aSpine[0].match.LoserSlot == "" {
		return result
	}
	entrySlot := aSpine[0].match.LoserSlot

	bTree, bSpine, ok := pf.locateSlotLeaf(pf.forest.BEvent, entrySlot)
	if !ok {
		return result
	}
	result.B = pf.bPath(teamID, bTree, bSpine)

	// C and D entries hang off the first B-path losses routed into the
	// C and D trees respectively, one level of indirection further down.
	result.C = pf.terminalPath(teamID, pf.forest.CEvent, bSpine)
	result.D = pf.terminalPath(teamID, pf.forest.DEvent, bSpine)
	return result
}

// aPath climbs the team's A qualifier tree, then extends through the
// championship pairing table from the team's qualifier index.
func (pf *PathFinder) aPath(teamID string, treeIdx int, spine []spineStep) Path {
	rounds := pf.spineRounds(teamID, spine)
	rounds = append(rounds, pf.championshipRounds(teamID, treeIdx)...)
	return labelled(rounds)
}

// bPath climbs the consolation qualifier tree from the team's entry slot,
// then extends through the championship table from the B qualifier index:
// the consolation side mirrors the winners' side pairing structure.
func (pf *PathFinder) bPath(teamID string, treeIdx int, spine []spineStep) Path {
	rounds := pf.spineRounds(teamID, spine)
	rounds = append(rounds, pf.championshipRounds(teamID, len(pf.forest.AEvent)+treeIdx)...)
	return labelled(rounds)
}

// terminalPath finds the first loss on the B-path spine that is routed
// into the given event tree and climbs that tree to its title match.
func (pf *PathFinder) terminalPath(teamID string, tree *Node, bSpine []spineStep) Path {
	if tree == nil {
		return Path{}
	}
	for _, step := range bSpine {
		if step.match.LoserSlot == "" {
			continue
		}
		spine, ok := spineTo(tree, func(n *Node) bool {
			return n.Kind() == KindSlot && n.SlotName == step.match.LoserSlot
		})
		if !ok {
			continue
		}
		return labelled(pf.spineRounds(teamID, spine))
	}
	return Path{}
}

// spineRounds converts leaf-to-root spine steps into unlabelled rounds
func (pf *PathFinder) spineRounds(teamID string, spine []spineStep) []Round {
	rounds := make([]Round, 0, len(spine))
	for _, step := range spine {
		rounds = append(rounds, Round{
			Opponents: exclude(pf.resolver.Candidates(step.other), teamID),
			LoserSlot: step.match.LoserSlot,
		})
	}
	return rounds
}

// championshipRounds builds the pairing-table extension for the qualifier
// at the given index. With a quarterfinal seeding table the rounds are
// QF, semi, final; without one the semi pairs index qualifiers directly.
func (pf *PathFinder) championshipRounds(teamID string, qualifierIdx int) []Round {
	champ := pf.forest.Championship
	quals := pf.forest.QualifierTrees()
	if len(quals) == 0 || qualifierIdx >= len(quals) {
		return nil
	}

	oppose := func(indices ...int) Round {
		set := make(map[string]struct{})
		for _, qi := range indices {
			if qi >= 0 && qi < len(quals) {
				for _, id := range pf.resolver.Candidates(quals[qi]) {
					set[id] = struct{}{}
				}
			}
		}
		return Round{Opponents: exclude(sortedSet(set), teamID)}
	}

	if len(champ.QuarterSeed) == 0 {
		return pf.pairingRounds(champ.SemiPairs, qualifierIdx, func(indices ...int) Round {
			return oppose(indices...)
		}, func(pair [2]int) []int { return []int{pair[0], pair[1]} })
	}

	// Quarterfinal round: the table pairs qualifier indices.
	pairIdx, oppQual := findPair(champ.QuarterSeed, qualifierIdx)
	if pairIdx < 0 {
		return nil
	}
	rounds := []Round{oppose(oppQual)}

	// Semis and final pair quarterfinal winners by quarterfinal index.
	rounds = append(rounds, pf.pairingRounds(champ.SemiPairs, pairIdx, func(indices ...int) Round {
		var qualIdxs []int
		for _, qfIdx := range indices {
			if qfIdx >= 0 && qfIdx < len(champ.QuarterSeed) {
				qualIdxs = append(qualIdxs, champ.QuarterSeed[qfIdx][0], champ.QuarterSeed[qfIdx][1])
			}
		}
		return oppose(qualIdxs...)
	}, func(pair [2]int) []int { return []int{pair[0], pair[1]} })...)
	return rounds
}

// pairingRounds walks one semifinal pairing table: the round against the
// team's paired entry, then, when more than one pair exists, a final
// against everything reachable through the other pairs.
func (pf *PathFinder) pairingRounds(pairs [][2]int, idx int, oppose func(...int) Round, expand func([2]int) []int) []Round {
	pairIdx, opp := findPair(pairs, idx)
	if pairIdx < 0 {
		return nil
	}
	rounds := []Round{oppose(opp)}
	if len(pairs) > 1 {
		var others []int
		for i, pair := range pairs {
			if i != pairIdx {
				others = append(others, expand(pair)...)
			}
		}
		rounds = append(rounds, oppose(others...))
	}
	return rounds
}

// locateTeam finds the A-event tree containing the team leaf and the
// spine from that leaf to the tree root.
func (pf *PathFinder) locateTeam(teamID string) (int, []spineStep, bool) {
	for i, tree := range pf.forest.AEvent {
		if spine, ok := spineTo(tree, func(n *Node) bool {
			return n.Kind() == KindTeam && n.TeamID == teamID
		}); ok {
			return i, spine, true
		}
	}
	return 0, nil, false
}

// locateSlotLeaf finds which tree consumes the named slot as a leaf
func (pf *PathFinder) locateSlotLeaf(trees []*Node, slot string) (int, []spineStep, bool) {
	for i, tree := range trees {
		if spine, ok := spineTo(tree, func(n *Node) bool {
			return n.Kind() == KindSlot && n.SlotName == slot
		}); ok {
			return i, spine, true
		}
	}
	return 0, nil, false
}

// spineTo returns the leaf-to-root spine from the first node matching the
// predicate up to the given root.
func spineTo(root *Node, isTarget func(*Node) bool) ([]spineStep, bool) {
	if isTarget(root) {
		return nil, true
	}
	if root.Kind() != KindMatch {
		return nil, false
	}
	if spine, ok := spineTo(root.Match.Left, isTarget); ok {
		return append(spine, spineStep{match: root.Match, other: root.Match.Right}), true
	}
	if spine, ok := spineTo(root.Match.Right, isTarget); ok {
		return append(spine, spineStep{match: root.Match, other: root.Match.Left}), true
	}
	return nil, false
}

// labelled assigns round labels purely from path length: every round but
// the last is "Round n", the last is "Final".
func labelled(rounds []Round) Path {
	if len(rounds) == 0 {
		return Path{}
	}
	for i := range rounds {
		if i == len(rounds)-1 {
			rounds[i].Label = "Final"
		} else {
			rounds[i].Label = fmt.Sprintf("Round %d", i+1)
		}
	}
	return Path{Applicable: true, Rounds: rounds}
}

// findPair returns the index of the pair containing idx and the pair's
// other element, or (-1, -1) when no pair contains it.
func findPair(pairs [][2]int, idx int) (int, int) {
	for i, pair := range pairs {
		if pair[0] == idx {
			return i, pair[1]
		}
		if pair[1] == idx {
			return i, pair[0]
		}
	}
	return -1, -1
}

func exclude(ids []string, teamID string) []string {
	out := ids[:0:0]
	for _, id := range ids {
		if id != teamID {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
