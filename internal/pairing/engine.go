// internal/pairing/engine.go
//
// The draw engine. Given the roster and the history of past rounds it
// produces a new round that keeps repeat meetings to a minimum. The
// heuristic is greedy matching over a shuffled roster, retried across
// several shuffles, keeping the cheapest result. Odd rosters fold the
// leftover participant into one triple instead of leaving them out.

package pairing

import (
	"errors"
	"math/rand"

	"github.com/kingrea/coffee-roulette/internal/roster"
)

// ErrInsufficientParticipants is returned when fewer than two people
// are available to pair.
var ErrInsufficientParticipants = errors.New("pairing: need at least two participants")

// DefaultRetries is the number of shuffled greedy passes a draw runs
// when the caller does not configure its own count.
const DefaultRetries = 16

// Pair groups two participants, or three when the roster is odd. A
// round contains at most one triple.
type Pair struct {
	Members []roster.Participant
}

// IsTriple reports whether this pair absorbed the odd participant.
func (p Pair) IsTriple() bool {
	return len(p.Members) == 3
}

// emailPairs returns every unordered two-person combination inside
// the pair, normalized and sorted. A triple yields three entries.
func (p Pair) emailPairs() [][2]string {
	var out [][2]string
	for i := 0; i < len(p.Members); i++ {
		for j := i + 1; j < len(p.Members); j++ {
			out = append(out, orderedKeys(p.Members[i], p.Members[j]))
		}
	}
	return out
}

// Round is one complete pairing assignment covering the roster.
type Round struct {
	Number int
	Pairs  []Pair
}

// Size returns the number of participants covered by the round.
func (r Round) Size() int {
	total := 0
	for _, p := range r.Pairs {
		total += len(p.Members)
	}
	return total
}

// Draw produces the next round for the roster. retries <= 0 uses
// DefaultRetries. The round number is one past the history's latest.
func Draw(people []roster.Participant, hist *History, rng *rand.Rand, retries int) (Round, error) {
	if len(people) < 2 {
		return Round{}, ErrInsufficientParticipants
	}
	if retries <= 0 {
		retries = DefaultRetries
	}

	best := drawOnce(people, hist, rng)
	bestScore := hist.score(best)
	for i := 1; i < retries && bestScore > 0; i++ {
		candidate := drawOnce(people, hist, rng)
		if score := hist.score(candidate); score < bestScore {
			best, bestScore = candidate, score
		}
	}
	best.Number = hist.LastRound() + 1
	return best, nil
}

// drawOnce runs a single greedy pass over a shuffled copy of the
// roster. Each unmatched participant takes the unmatched partner they
// have met the fewest times; shuffle order breaks ties.
func drawOnce(people []roster.Participant, hist *History, rng *rand.Rand) Round {
	order := make([]roster.Participant, len(people))
	copy(order, people)
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	used := make([]bool, len(order))
	var pairs []Pair
	leftover := -1
	for i := range order {
		if used[i] {
			continue
		}
		used[i] = true
		partner := -1
		partnerCount := 0
		for j := i + 1; j < len(order); j++ {
			if used[j] {
				continue
			}
			count := hist.Count(order[i], order[j])
			if partner == -1 || count < partnerCount {
				partner, partnerCount = j, count
			}
		}
		if partner == -1 {
			leftover = i
			continue
		}
		used[partner] = true
		pairs = append(pairs, Pair{Members: []roster.Participant{order[i], order[partner]}})
	}

	if leftover >= 0 {
		pairs = foldLeftover(pairs, order[leftover], hist)
	}
	return Round{Pairs: pairs}
}

// foldLeftover turns the pair that has met the odd participant least
// into the round's single triple.
func foldLeftover(pairs []Pair, extra roster.Participant, hist *History) []Pair {
	target := 0
	targetCost := -1
	for i, p := range pairs {
		cost := 0
		for _, m := range p.Members {
			cost += hist.Count(extra, m)
		}
		if targetCost == -1 || cost < targetCost {
			target, targetCost = i, cost
		}
	}
	members := append([]roster.Participant{}, pairs[target].Members...)
	pairs[target] = Pair{Members: append(members, extra)}
	return pairs
}
