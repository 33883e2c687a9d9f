/* classify.go
 * Contains the identifier classifier that tells team numbers apart from organization codes
 */

package shell

import (
	"regexp"
	"strings"
	"unicode"
)

// Identity is the outcome of classifying an identifier token
type Identity int

const (
	Invalid Identity = iota
	TeamIdentity
	OrganizationIdentity
)

func (i Identity) String() string {
	switch i {
	case TeamIdentity:
		return "team"
	case OrganizationIdentity:
		return "organization"
	default:
		return "invalid"
	}
}

var teamPattern = regexp.MustCompile(`^[0-9]+[A-Za-z]+$`)

// Classify decides whether token names a team (digits then letters, e.g. 1234A), an organization (no letters at
// all, e.g. 1234) or neither. The returned string is the canonical form of the token: team numbers are upper-cased,
// organization codes are returned unchanged, and Invalid returns "".
//
// This is the only place team numbers are canonicalised; every command that takes a team-or-organization argument
// goes through it.
func Classify(token string) (Identity, string) {
	if token == "" {
		return Invalid, ""
	}
	if teamPattern.MatchString(token) {
		return TeamIdentity, strings.ToUpper(token)
	}
	if strings.IndexFunc(token, unicode.IsLetter) < 0 {
		return OrganizationIdentity, token
	}
	return Invalid, ""
}
