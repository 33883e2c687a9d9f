/* context.go
 * Contains the Context variants that make up the shell's context stack
 */

package shell

import "vex-shell/api/shared"

// Context is one level of nested shell scope. The set of implementations is closed: every variant is declared in
// this file and the dispatch tables switch over all of them.
type Context interface {
	isContext()
}

// Base is the root context. It is never pushed; dispatch targets it when the stack is empty or for `global` lines.
type Base struct{}

// Config is entered with `config` and forwards get/set/update to the configuration manager
type Config struct{}

// Competition scopes commands to one event, identified by its SKU
type Competition struct {
	SKU string
}

// Division narrows a Competition to one division
type Division struct {
	Name string
}

// Round narrows a Division to one round
type Round struct {
	Number int
}

// MatchList holds the result of a `match load`
type MatchList struct {
	Matches []shared.Match
}

// Match holds a single match picked by next/prev/lookup
type Match struct {
	Match shared.Match
}

// Stats scopes commands to statistics, either for the enclosing team/organization or standalone
type Stats struct{}

// History scopes commands to the enclosing team/organization's past results
type History struct{}

// Team scopes commands to one team
type Team struct {
	Name string
}

// Organization scopes commands to one organization code
type Organization struct {
	Name string
}

func (Base) isContext()         {}
func (Config) isContext()       {}
func (Competition) isContext()  {}
func (Division) isContext()     {}
func (Round) isContext()        {}
func (MatchList) isContext()    {}
func (Match) isContext()        {}
func (Stats) isContext()        {}
func (History) isContext()      {}
func (Team) isContext()         {}
func (Organization) isContext() {}
