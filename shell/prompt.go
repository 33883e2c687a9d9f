/* prompt.go
 * Contains the prompt renderer
 */

package shell

import (
	"strconv"
	"strings"
)

// RootPrompt is shown when the stack is empty
const RootPrompt = "> "

// Placeholder labels for contexts that carry no printable payload
const (
	baseLabel      = "global"
	matchListLabel = "list"
	matchLabel     = "match"
)

// RenderPrompt concatenates the segment of every context on the stack, outermost first
func RenderPrompt(s *Stack) string {
	if s == nil || s.Len() == 0 {
		return RootPrompt
	}
	var b strings.Builder
	for _, c := range s.Contexts() {
		b.WriteString(Segment(c))
	}
	return b.String()
}

// Segment renders one context as "<label>> ". Every variant yields a non-empty label so the prompt always has one
// segment per stack level.
func Segment(c Context) string {
	return label(c) + "> "
}

func label(c Context) string {
	switch c := c.(type) {
	case Base:
		return baseLabel
	case Config:
		return "config"
	case Competition:
		return c.SKU
	case Division:
		return c.Name
	case Round:
		return strconv.Itoa(c.Number)
	case MatchList:
		return matchListLabel
	case Match:
		if c.Match.Number == 0 {
			return matchLabel
		}
		return strconv.Itoa(c.Match.Number)
	case Stats:
		return "stats"
	case History:
		return "history"
	case Team:
		return c.Name
	case Organization:
		return c.Name
	}
	panic("shell: unknown context type")
}
