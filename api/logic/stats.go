/* stats.go
 * Contains the logic for building team and organization records and the text graphs shown by the stats context
 */

package logic

import (
	"fmt"
	"sort"
	"strings"

	"vex-shell/api/shared"
)

// graphWidth is the number of characters used by the longest bar
const graphWidth = 40

// Record is a team's win/loss record over a set of scored matches
type Record struct {
	Team          string
	Played        int
	Wins          int
	Losses        int
	Ties          int
	PointsFor     int
	PointsAgainst int
	HighScore     int
}

// AverageScore returns the mean alliance score over the played matches
func (r Record) AverageScore() float64 {
	if r.Played == 0 {
		return 0
	}
	return float64(r.PointsFor) / float64(r.Played)
}

func (r Record) String() string {
	if r.Played == 0 {
		return fmt.Sprintf("%s: no scored matches", r.Team)
	}
	return fmt.Sprintf("%s: %d-%d-%d (W-L-T) in %d matches, average score %.1f, high score %d",
		r.Team, r.Wins, r.Losses, r.Ties, r.Played, r.AverageScore(), r.HighScore)
}

// TeamRecord builds the record of team over the scored matches it played in
func TeamRecord(matches []shared.Match, team string) Record {
	r := Record{Team: team}
	for _, m := range matches {
		if !m.Scored {
			continue
		}
		own, opp, ok := scores(m, team)
		if !ok {
			continue
		}

		r.Played++
		r.PointsFor += own
		r.PointsAgainst += opp
		if own > r.HighScore {
			r.HighScore = own
		}
		switch {
		case own > opp:
			r.Wins++
		case own < opp:
			r.Losses++
		default:
			r.Ties++
		}
	}
	return r
}

// scores returns team's alliance score and the opposing score
func scores(m shared.Match, team string) (int, int, bool) {
	switch m.Alliance(team) {
	case "red":
		return m.RedScore, m.BlueScore, true
	case "blue":
		return m.BlueScore, m.RedScore, true
	}
	return 0, 0, false
}

// ScopeTeams returns the teams a stats request is about: the scoped team, or every team of the scoped organization
// that appears in matches, sorted
func ScopeTeams(matches []shared.Match, scope shared.Scope) []string {
	if scope.Team != "" {
		return []string{scope.Team}
	}
	if scope.Organization == "" {
		return nil
	}

	seen := make(map[string]bool)
	var teams []string
	for _, m := range matches {
		for _, t := range OrganizationTeams(m, scope.Organization) {
			t = strings.ToUpper(t)
			if !seen[t] {
				seen[t] = true
				teams = append(teams, t)
			}
		}
	}
	sort.Strings(teams)
	return teams
}

// Summary renders the records for scope
// Preconditions: matches has already been narrowed to scope
// Postconditions: Returns one line per team, plus a totals line for organizations
func Summary(matches []shared.Match, scope shared.Scope) string {
	teams := ScopeTeams(matches, scope)
	if len(teams) == 0 {
		scored := 0
		for _, m := range matches {
			if m.Scored {
				scored++
			}
		}
		return fmt.Sprintf("%s: %d matches, %d scored\n", scope, len(matches), scored)
	}

	var b strings.Builder
	total := Record{Team: "Total"}
	for _, t := range teams {
		r := TeamRecord(matches, t)
		fmt.Fprintf(&b, "%s\n", r)

		total.Played += r.Played
		total.Wins += r.Wins
		total.Losses += r.Losses
		total.Ties += r.Ties
		total.PointsFor += r.PointsFor
		total.PointsAgainst += r.PointsAgainst
		total.HighScore = max(total.HighScore, r.HighScore)
	}
	if scope.Organization != "" && len(teams) > 1 {
		fmt.Fprintf(&b, "%s\n", total)
	}
	return b.String()
}

// Graph renders a bar per scored match for a team, or a bar of average score per team for an organization
func Graph(matches []shared.Match, scope shared.Scope) string {
	type bar struct {
		label string
		value float64
	}
	var bars []bar

	if scope.Team != "" {
		for _, m := range Sort(matches) {
			if !m.Scored {
				continue
			}
			if own, _, ok := scores(m, scope.Team); ok {
				bars = append(bars, bar{m.Label(), float64(own)})
			}
		}
	} else {
		for _, t := range ScopeTeams(matches, scope) {
			r := TeamRecord(matches, t)
			if r.Played > 0 {
				bars = append(bars, bar{t, r.AverageScore()})
			}
		}
	}

	if len(bars) == 0 {
		return "Nothing to graph\n"
	}

	var peak float64
	labelWidth := 0
	for _, b := range bars {
		peak = max(peak, b.value)
		labelWidth = max(labelWidth, len(b.label))
	}

	var out strings.Builder
	for _, b := range bars {
		// negative scores (penalties) draw an empty bar
		n := 0
		if peak > 0 && b.value > 0 {
			n = int(b.value / peak * graphWidth)
		}
		fmt.Fprintf(&out, "%-*s |%-*s %g\n", labelWidth, b.label, graphWidth, strings.Repeat("#", n), b.value)
	}
	return out.String()
}
