/* models.go
 * This file contain the structs and helper functions that are shared between the shell and the api sub packages
 */

package shared

import (
	"fmt"
	"strings"
	"unicode"
)

// Round numbers used by the upstream match data
const (
	RoundPractice     = 1
	RoundQualifier    = 2
	RoundQuarterFinal = 3
	RoundSemiFinal    = 4
	RoundFinal        = 5
	RoundOfSixteen    = 6
)

// Match is a single scheduled or played match at a competition
type Match struct {
	SKU       string `bson:"sku,omitempty"`
	Division  string `bson:"division,omitempty"`
	Round     int    `bson:"round,omitempty"`
	Instance  int    `bson:"instance,omitempty"`
	Number    int    `bson:"matchnum,omitempty"`
	Red1      string `bson:"red1,omitempty"`
	Red2      string `bson:"red2,omitempty"`
	Blue1     string `bson:"blue1,omitempty"`
	Blue2     string `bson:"blue2,omitempty"`
	RedScore  int    `bson:"redscore"`
	BlueScore int    `bson:"bluescore"`
	Scored    bool   `bson:"scored"`
}

// Team is a registered team as reported by the upstream api
type Team struct {
	Number       string `bson:"number"`
	Name         string `bson:"name,omitempty"`
	Organization string `bson:"organization,omitempty"`
	City         string `bson:"city,omitempty"`
	Region       string `bson:"region,omitempty"`
	Grade        string `bson:"grade,omitempty"`
}

// Scope is the resolved set of identifiers a collaborator call is made for. Empty fields are unset.
type Scope struct {
	SKU          string
	Division     string
	Round        int
	Team         string
	Organization string
}

// String renders the scope as a short human readable label, e.g. "RE-VRC-19-1234 / 750B"
func (s Scope) String() string {
	var parts []string
	if s.SKU != "" {
		parts = append(parts, s.SKU)
	}
	if s.Division != "" {
		parts = append(parts, s.Division)
	}
	if s.Round != 0 {
		parts = append(parts, RoundName(s.Round))
	}
	if s.Team != "" {
		parts = append(parts, s.Team)
	}
	if s.Organization != "" {
		parts = append(parts, "org "+s.Organization)
	}
	if len(parts) == 0 {
		return "all"
	}
	return strings.Join(parts, " / ")
}

// OrganizationOf returns the organization code of a team number, e.g. "750B" -> "750". Anything that is not
// digits followed by letters is returned unchanged.
func OrganizationOf(team string) string {
	code := strings.TrimRightFunc(team, unicode.IsLetter)
	if code == "" || code == team || strings.IndexFunc(code, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return team
	}
	return code
}

// RoundName returns the short label for a round number
func RoundName(round int) string {
	switch round {
	case RoundPractice:
		return "P"
	case RoundQualifier:
		return "Q"
	case RoundQuarterFinal:
		return "QF"
	case RoundSemiFinal:
		return "SF"
	case RoundFinal:
		return "F"
	case RoundOfSixteen:
		return "R16"
	default:
		return fmt.Sprintf("R%d", round)
	}
}

// Label returns the match label used in listings, e.g. "Q12" or "QF 2-1"
func (m Match) Label() string {
	if m.Round == RoundPractice || m.Round == RoundQualifier || m.Instance == 0 {
		return fmt.Sprintf("%s%d", RoundName(m.Round), m.Number)
	}
	return fmt.Sprintf("%s %d-%d", RoundName(m.Round), m.Instance, m.Number)
}

// Teams returns the participating teams in slot order, skipping empty slots
func (m Match) Teams() []string {
	var teams []string
	for _, t := range []string{m.Red1, m.Red2, m.Blue1, m.Blue2} {
		if t != "" {
			teams = append(teams, t)
		}
	}
	return teams
}

// HasTeam reports whether the team plays in this match
func (m Match) HasTeam(team string) bool {
	for _, t := range m.Teams() {
		if strings.EqualFold(t, team) {
			return true
		}
	}
	return false
}

// Alliance returns "red" or "blue" for the team, or "" when it does not play in the match
func (m Match) Alliance(team string) string {
	switch {
	case strings.EqualFold(m.Red1, team), strings.EqualFold(m.Red2, team):
		return "red"
	case strings.EqualFold(m.Blue1, team), strings.EqualFold(m.Blue2, team):
		return "blue"
	}
	return ""
}

func (m Match) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s", m.Label())
	if m.Division != "" {
		fmt.Fprintf(&b, " (%s)", m.Division)
	}
	fmt.Fprintf(&b, ": red %s %s vs blue %s %s", m.Red1, m.Red2, m.Blue1, m.Blue2)
	if m.Scored {
		fmt.Fprintf(&b, " [%d-%d]", m.RedScore, m.BlueScore)
	} else {
		b.WriteString(" [unscored]")
	}
	return b.String()
}

// FormatMatches renders one match per line
func FormatMatches(matches []Match) string {
	if len(matches) == 0 {
		return "No matches"
	}
	var b strings.Builder
	for i, m := range matches {
		fmt.Fprintf(&b, "%d. %s\n", i+1, m)
	}
	return b.String()
}

// Ranking is a team's standing at one competition division
type Ranking struct {
	SKU      string
	Division string
	Team     string
	Rank     int
	Wins     int
	Losses   int
	Ties     int
	WP       int // win points
	AP       int // autonomous points
	SP       int // strength of schedule points
	MaxScore int
	OPR      float64
}

// String renders the ranking as one line, e.g. "750B: rank 3 at RE-1 (Science), 5-1-0, WP 10 AP 4 SP 120, OPR 21.5"
func (r Ranking) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: rank %d at %s", r.Team, r.Rank, r.SKU)
	if r.Division != "" {
		fmt.Fprintf(&b, " (%s)", r.Division)
	}
	fmt.Fprintf(&b, ", %d-%d-%d, WP %d AP %d SP %d, OPR %.1f", r.Wins, r.Losses, r.Ties, r.WP, r.AP, r.SP, r.OPR)
	return b.String()
}

// FormatRankings renders one ranking per line
func FormatRankings(rankings []Ranking) string {
	if len(rankings) == 0 {
		return "No rankings found"
	}
	var b strings.Builder
	for _, r := range rankings {
		b.WriteString(r.String())
		b.WriteString("\n")
	}
	return b.String()
}
