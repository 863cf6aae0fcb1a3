// internal/pairing/schedule.go
//
// Full-season scheduling via the circle method: fix one participant,
// rotate the rest. For an even roster every pair meets exactly once
// across the season. Odd rosters get a phantom seat; whoever draws the
// phantom that week is folded into one of the week's pairs as a
// triple.

package pairing

import (
	"math/rand"

	"github.com/kingrea/coffee-roulette/internal/roster"
)

// Schedule generates a season of rounds covering the whole roster each
// week. Even rosters produce len(people)-1 rounds in which every
// unordered pair occurs exactly once; odd rosters produce len(people)
// rounds, each with a single triple. The rng shuffles the seating
// order and picks which pair absorbs the weekly leftover.
func Schedule(people []roster.Participant, rng *rand.Rand) ([]Round, error) {
	if len(people) < 2 {
		return nil, ErrInsufficientParticipants
	}

	seats := make([]roster.Participant, len(people))
	copy(seats, people)
	rng.Shuffle(len(seats), func(i, j int) {
		seats[i], seats[j] = seats[j], seats[i]
	})

	odd := len(seats)%2 == 1
	phantom := -1
	n := len(seats)
	if odd {
		// The phantom seat marks who sits out before triple folding.
		phantom = n
		n++
	}

	// seats[0] (or the phantom) stays fixed; rest rotates each week.
	rest := make([]int, 0, n-1)
	for i := 1; i < n; i++ {
		rest = append(rest, i)
	}
	fixed := 0

	rounds := make([]Round, 0, n-1)
	for week := 0; week < n-1; week++ {
		var pairs []Pair
		leftover := -1

		addPair := func(a, b int) {
			switch {
			case a == phantom:
				leftover = b
			case b == phantom:
				leftover = a
			default:
				pairs = append(pairs, Pair{Members: []roster.Participant{seats[a], seats[b]}})
			}
		}

		m := len(rest)
		addPair(fixed, rest[(week)%m])
		for k := 1; k <= (n-2)/2; k++ {
			addPair(rest[(week+k)%m], rest[(week-k+m)%m])
		}

		if leftover >= 0 && len(pairs) > 0 {
			target := rng.Intn(len(pairs))
			members := append([]roster.Participant{}, pairs[target].Members...)
			pairs[target] = Pair{Members: append(members, seats[leftover])}
		}
		rounds = append(rounds, Round{Number: week + 1, Pairs: pairs})
	}
	return rounds, nil
}
