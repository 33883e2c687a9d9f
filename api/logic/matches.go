/* matches.go
 * Contains the logic for narrowing, ordering and navigating match lists
 */

package logic

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"vex-shell/api/shared"
)

// ErrNoMatch is returned when no match satisfies a navigation request
var ErrNoMatch = errors.New("no match found")

// roundOrder is the order rounds are played in. Unknown rounds sort last
var roundOrder = map[int]int{
	shared.RoundPractice:     0,
	shared.RoundQualifier:    1,
	shared.RoundOfSixteen:    2,
	shared.RoundQuarterFinal: 3,
	shared.RoundSemiFinal:    4,
	shared.RoundFinal:        5,
}

// Filter returns the matches that fall inside scope
// Preconditions: Receives a slice of matches and a scope. Empty scope fields do not filter
// Postconditions: Returns a new slice, the input is not modified
func Filter(matches []shared.Match, scope shared.Scope) []shared.Match {
	var out []shared.Match
	for _, m := range matches {
		if scope.SKU != "" && !strings.EqualFold(m.SKU, scope.SKU) {
			continue
		}
		if scope.Division != "" && !strings.EqualFold(m.Division, scope.Division) {
			continue
		}
		if scope.Round != 0 && m.Round != scope.Round {
			continue
		}
		if scope.Team != "" && !m.HasTeam(scope.Team) {
			continue
		}
		if scope.Organization != "" && len(OrganizationTeams(m, scope.Organization)) == 0 {
			continue
		}
		out = append(out, m)
	}
	return out
}

// OrganizationTeams returns the teams in m that belong to organization
func OrganizationTeams(m shared.Match, organization string) []string {
	var teams []string
	for _, t := range m.Teams() {
		if strings.EqualFold(shared.OrganizationOf(t), organization) {
			teams = append(teams, t)
		}
	}
	return teams
}

// Sort returns a copy of matches in play order: competition, division, round, instance then match number
func Sort(matches []shared.Match) []shared.Match {
	out := make([]shared.Match, len(matches))
	copy(out, matches)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.SKU != b.SKU {
			return a.SKU < b.SKU
		}
		if a.Division != b.Division {
			return a.Division < b.Division
		}
		if ra, rb := rank(a.Round), rank(b.Round); ra != rb {
			return ra < rb
		}
		if a.Instance != b.Instance {
			return a.Instance < b.Instance
		}
		return a.Number < b.Number
	})
	return out
}

func rank(round int) int {
	if r, ok := roundOrder[round]; ok {
		return r
	}
	return len(roundOrder) + round
}

// Next returns the first match, in play order, that has not been scored
func Next(matches []shared.Match) (shared.Match, error) {
	for _, m := range Sort(matches) {
		if !m.Scored {
			return m, nil
		}
	}
	return shared.Match{}, fmt.Errorf("%w: every match has been scored", ErrNoMatch)
}

// Prev returns the last match, in play order, that has been scored
func Prev(matches []shared.Match) (shared.Match, error) {
	sorted := Sort(matches)
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].Scored {
			return sorted[i], nil
		}
	}
	return shared.Match{}, fmt.Errorf("%w: no match has been scored yet", ErrNoMatch)
}

// Lookup returns the n-th match in play order
// Preconditions: n is 1-based
// Postconditions: Returns the match or ErrNoMatch when n is out of range
func Lookup(matches []shared.Match, n int) (shared.Match, error) {
	if n < 1 || n > len(matches) {
		return shared.Match{}, fmt.Errorf("%w: %d is not between 1 and %d", ErrNoMatch, n, len(matches))
	}
	return Sort(matches)[n-1], nil
}

type fixture struct {
	sku, division            string
	round, instance, number int
}

func fixtureOf(m shared.Match) fixture {
	return fixture{strings.ToLower(m.SKU), strings.ToLower(m.Division), m.Round, m.Instance, m.Number}
}

// SameMatch reports whether a and b identify the same fixture, regardless of score
func SameMatch(a, b shared.Match) bool {
	return fixtureOf(a) == fixtureOf(b)
}

// Dedupe removes repeated fixtures, keeping the first copy
func Dedupe(matches []shared.Match) []shared.Match {
	seen := make(map[fixture]bool)
	var out []shared.Match
	for _, m := range matches {
		f := fixtureOf(m)
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, m)
	}
	return out
}

// Competitions returns the distinct competition skus in matches, in order of first appearance
func Competitions(matches []shared.Match) []string {
	seen := make(map[string]bool)
	var skus []string
	for _, m := range matches {
		if m.SKU == "" || seen[m.SKU] {
			continue
		}
		seen[m.SKU] = true
		skus = append(skus, m.SKU)
	}
	return skus
}
