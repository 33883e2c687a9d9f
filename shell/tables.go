/* tables.go
 * Contains the per context command tables. Each table handles its own verbs and descends into the next context of
 * the chain when there is one, narrowing the scope as it goes
 */

package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"vex-shell/api/shared"
	"vex-shell/config"
)

var (
	baseVerbs           = []string{"config", "competition", "comp", "stats", "team", "help", "exit", "global"}
	competitionVerbs    = []string{"team", "match", "wait", "division", "help", "exit", "global"}
	divisionVerbs       = []string{"team", "match", "wait", "round", "help", "exit", "global"}
	roundVerbs          = []string{"team", "match", "wait", "help", "exit", "global"}
	matchSubcommands    = []string{"load", "next", "prev", "lookup"}
	competitionTeamVerb = []string{"load", "next", "prev", "lookup", "wait"}
	teamVerbs           = []string{"stats", "history", "help", "exit", "global"}
	organizationVerbs   = []string{"stats", "history", "list", "graph", "competition", "help", "exit", "global"}
	statsVerbs          = []string{"summary", "graph", "competition", "rank", "help", "exit", "global"}
	matchListVerbs      = []string{"show", "list", "lookup", "help", "exit", "global"}
	matchVerbs          = []string{"show", "help", "exit", "global"}
	configVerbs         = []string{"get", "set", "update", "show", "help", "exit", "global"}
)

var errNoService = errors.New("service is not available")

func scopeFor(c Context) shared.Scope {
	switch c := c.(type) {
	case Competition:
		return shared.Scope{SKU: c.SKU}
	case Team:
		return shared.Scope{Team: c.Name}
	case Organization:
		return shared.Scope{Organization: c.Name}
	}
	return shared.Scope{}
}

// identContext classifies token into a Team or Organization context
func identContext(verb, token string) (Context, error) {
	id, name := Classify(token)
	switch id {
	case TeamIdentity:
		return Team{Name: name}, nil
	case OrganizationIdentity:
		return Organization{Name: name}, nil
	}
	return nil, invalidInput(verb, "%q is not a team number or organization code", token)
}

// region Base

func (d *Dispatcher) base(l *line) (string, error) {
	switch l.verb {
	case "config":
		l.push(Config{})
		return "", nil

	case "competition", "comp":
		if len(l.args) == 0 {
			return "", missingArgument(l.raw, "competition sku")
		}
		l.push(Competition{SKU: l.args[0]})
		return "", nil

	case "stats", "team":
		if len(l.args) == 0 {
			if l.verb == "team" {
				return "", missingArgument(l.raw, "team number or organization code")
			}
			l.push(Stats{})
			return "", nil
		}
		c, err := identContext(l.raw, l.args[0])
		if err != nil {
			return "", err
		}
		l.push(c)
		if l.verb == "stats" {
			l.push(Stats{})
		}
		return "", nil

	case verbHelp:
		return help(baseVerbs), nil
	}
	return "", d.unknown(l, baseVerbs)
}

// endregion

// region Competition

// competition handles Competition, Division and Round, which share one table with a narrowing scope
func (d *Dispatcher) competition(ctx context.Context, scope shared.Scope, rest []Context, l *line) (string, error) {
	if len(rest) > 0 {
		switch c := rest[0].(type) {
		case Division:
			scope.Division = c.Name
			return d.competition(ctx, scope, rest[1:], l)
		case Round:
			scope.Round = c.Number
			return d.competition(ctx, scope, rest[1:], l)
		case Team:
			scope.Team = c.Name
			return d.competitionTeam(ctx, scope, rest[1:], l)
		case MatchList:
			return d.matchList(c, rest[1:], l)
		case Match:
			return d.match(c, l)
		}
		return "", fmt.Errorf("shell: unexpected %T below a competition", rest[0])
	}

	verbs := competitionVerbs
	switch {
	case scope.Round != 0:
		verbs = roundVerbs
	case scope.Division != "":
		verbs = divisionVerbs
	}

	switch l.verb {
	case "team":
		if len(l.args) == 0 {
			return "", missingArgument(l.raw, "team number")
		}
		id, name := Classify(l.args[0])
		if id != TeamIdentity {
			return "", invalidInput(l.raw, "%q is not a team number", l.args[0])
		}
		l.push(Team{Name: name})
		return "", nil

	case "match":
		return d.matchCommand(ctx, scope, l)

	case "wait":
		if scope.Team == "" && d.config.CurrentTeam != "" {
			c, err := identContext(l.raw, d.config.CurrentTeam)
			if err != nil {
				return "", err
			}
			current := scopeFor(c)
			scope.Team, scope.Organization = current.Team, current.Organization
		}
		return d.wait(ctx, scope, l)

	case "division":
		if scope.Division != "" {
			break
		}
		if len(l.args) == 0 {
			return "", missingArgument(l.raw, "division name")
		}
		l.push(Division{Name: strings.Join(l.args, " ")})
		return "", nil

	case "round":
		if scope.Division == "" || scope.Round != 0 {
			break
		}
		if len(l.args) == 0 {
			return "", missingArgument(l.raw, "round number")
		}
		n, err := strconv.Atoi(l.args[0])
		if err != nil || n < 1 {
			return "", invalidInput(l.raw, "%q is not a round number", l.args[0])
		}
		l.push(Round{Number: n})
		return "", nil

	case verbHelp:
		return help(verbs), nil
	}
	return "", d.unknown(l, verbs)
}

// matchCommand handles `match <load|next|prev|lookup n>` at competition level. The result is pushed so the user can
// keep working with it
func (d *Dispatcher) matchCommand(ctx context.Context, scope shared.Scope, l *line) (string, error) {
	if len(l.args) == 0 {
		return "", missingArgument(l.raw, "match command (load, next, prev, lookup)")
	}
	sub := strings.ToLower(l.args[0])
	verb := l.raw + " " + l.args[0]

	switch sub {
	case "load":
		matches, err := d.loadMatches(ctx, scope, verb)
		if err != nil {
			return "", err
		}
		l.push(MatchList{Matches: matches})
		return shared.FormatMatches(matches), nil

	case "next", "prev", "lookup":
		m, err := d.findMatch(ctx, scope, sub, l.args[1:], verb)
		if err != nil {
			return "", err
		}
		l.push(Match{Match: m})
		return m.String(), nil
	}
	return "", unknownCommand(verb, suggest(sub, matchSubcommands))
}

// competitionTeam handles a Team nested in a competition. Match verbs are answered for (sku, team) without changing
// the stack; anything else falls through to the Team table with the competition still in scope
func (d *Dispatcher) competitionTeam(ctx context.Context, scope shared.Scope, rest []Context, l *line) (string, error) {
	if len(rest) == 0 {
		switch l.verb {
		case "load":
			if d.config.MatchLoadDefaultToOrganization {
				scope.Organization = shared.OrganizationOf(scope.Team)
				scope.Team = ""
			}
			matches, err := d.loadMatches(ctx, scope, l.raw)
			if err != nil {
				return "", err
			}
			return shared.FormatMatches(matches), nil

		case "next", "prev", "lookup":
			m, err := d.findMatch(ctx, scope, l.verb, l.args, l.raw)
			if err != nil {
				return "", err
			}
			return m.String(), nil

		case "wait":
			return d.wait(ctx, scope, l)
		}
	}
	return d.team(ctx, scope, rest, l, competitionTeamVerb)
}

func (d *Dispatcher) loadMatches(ctx context.Context, scope shared.Scope, verb string) ([]shared.Match, error) {
	if d.services.Matches == nil {
		return nil, fmt.Errorf("%s: matches %w", verb, errNoService)
	}
	matches, err := d.services.Matches.Load(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", verb, err)
	}
	return matches, nil
}

// findMatch runs next, prev or lookup against the match service. lookup's argument is validated first
func (d *Dispatcher) findMatch(ctx context.Context, scope shared.Scope, sub string, args []string, verb string) (shared.Match, error) {
	n := 0
	if sub == "lookup" {
		if len(args) == 0 {
			return shared.Match{}, missingArgument(verb, "match number")
		}
		var err error
		n, err = strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return shared.Match{}, invalidInput(verb, "%q is not a match number", args[0])
		}
	}

	if d.services.Matches == nil {
		return shared.Match{}, fmt.Errorf("%s: matches %w", verb, errNoService)
	}

	var (
		m   shared.Match
		err error
	)
	switch sub {
	case "next":
		m, err = d.services.Matches.Next(ctx, scope)
	case "prev":
		m, err = d.services.Matches.Prev(ctx, scope)
	default:
		m, err = d.services.Matches.Lookup(ctx, scope, n)
	}
	if err != nil {
		return shared.Match{}, fmt.Errorf("%s: %w", verb, err)
	}
	return m, nil
}

func (d *Dispatcher) wait(ctx context.Context, scope shared.Scope, l *line) (string, error) {
	if d.services.Waiter == nil {
		return "", fmt.Errorf("%s: wait %w", l.raw, errNoService)
	}
	m, err := d.services.Waiter.Wait(ctx, scope)
	if err != nil {
		return "", fmt.Errorf("%s: %w", l.raw, err)
	}
	return "Match scored: " + m.String(), nil
}

// endregion

// region Matches

func (d *Dispatcher) matchList(list MatchList, rest []Context, l *line) (string, error) {
	if len(rest) > 0 {
		if m, ok := rest[0].(Match); ok {
			return d.match(m, l)
		}
		return "", fmt.Errorf("shell: unexpected %T below a match list", rest[0])
	}

	switch l.verb {
	case "show", "list":
		return shared.FormatMatches(list.Matches), nil

	case "lookup":
		if len(l.args) == 0 {
			return "", missingArgument(l.raw, "match number")
		}
		n, err := strconv.Atoi(l.args[0])
		if err != nil || n < 1 || n > len(list.Matches) {
			return "", invalidInput(l.raw, "%q is not between 1 and %d", l.args[0], len(list.Matches))
		}
		m := list.Matches[n-1]
		l.push(Match{Match: m})
		return m.String(), nil

	case verbHelp:
		return help(matchListVerbs), nil
	}
	return "", d.unknown(l, matchListVerbs)
}

func (d *Dispatcher) match(m Match, l *line) (string, error) {
	switch l.verb {
	case "show":
		return m.Match.String(), nil
	case verbHelp:
		return help(matchVerbs), nil
	}
	return "", d.unknown(l, matchVerbs)
}

// endregion

// region Team and Organization

// team handles Team and Organization contexts. extra lists verbs already handled by the caller, for help output
func (d *Dispatcher) team(ctx context.Context, scope shared.Scope, rest []Context, l *line, extra []string) (string, error) {
	if len(rest) > 0 {
		switch rest[0].(type) {
		case Stats:
			return d.scopedStats(ctx, scope, l)
		case History:
			return d.history(ctx, scope, l)
		}
		return "", fmt.Errorf("shell: unexpected %T below a team", rest[0])
	}

	verbs := teamVerbs
	if scope.Organization != "" {
		verbs = organizationVerbs
	}
	verbs = append(append([]string{}, extra...), verbs...)

	switch l.verb {
	case "stats":
		l.push(Stats{})
		return "", nil
	case "history":
		l.push(History{})
		return "", nil
	case verbHelp:
		return help(verbs), nil
	}

	if scope.Organization != "" {
		switch l.verb {
		case "list":
			return d.organizationTeams(ctx, scope.Organization, l)
		case "graph", "competition":
			return d.statsCommand(ctx, scope, l)
		}
	}
	return "", d.unknown(l, verbs)
}

func (d *Dispatcher) organizationTeams(ctx context.Context, organization string, l *line) (string, error) {
	if d.services.Organizations == nil {
		return "", fmt.Errorf("%s: organizations %w", l.raw, errNoService)
	}
	teams, err := d.services.Organizations.Teams(ctx, organization)
	if err != nil {
		return "", fmt.Errorf("%s: %w", l.raw, err)
	}
	if len(teams) == 0 {
		return fmt.Sprintf("No teams found for organization %s", organization), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Teams in organization %s:\n", organization)
	for _, t := range teams {
		if t.Name != "" {
			fmt.Fprintf(&b, "- %s (%s)\n", t.Number, t.Name)
			continue
		}
		fmt.Fprintf(&b, "- %s\n", t.Number)
	}
	return b.String(), nil
}

func (d *Dispatcher) history(ctx context.Context, scope shared.Scope, l *line) (string, error) {
	if d.services.History == nil {
		return "", fmt.Errorf("%s: history %w", l.raw, errNoService)
	}
	out, err := d.services.History.History(ctx, scope, l.verb, l.args)
	if err != nil {
		return "", fmt.Errorf("%s: %w", l.raw, err)
	}
	return out, nil
}

// endregion

// region Stats

func (d *Dispatcher) scopedStats(ctx context.Context, scope shared.Scope, l *line) (string, error) {
	switch l.verb {
	case "summary", "graph", "competition":
		return d.statsCommand(ctx, scope, l)
	case "rank":
		if len(l.args) > 0 {
			c, err := identContext(l.raw, l.args[0])
			if err != nil {
				return "", err
			}
			named := scopeFor(c)
			scope.Team, scope.Organization = named.Team, named.Organization
		}
		return d.rank(ctx, scope, l)
	case verbHelp:
		return help(statsVerbs), nil
	}
	return "", d.unknown(l, statsVerbs)
}

// statsCommand runs summary, graph or competition [sku] for a team or organization scope
func (d *Dispatcher) statsCommand(ctx context.Context, scope shared.Scope, l *line) (string, error) {
	if l.verb == "competition" {
		if len(l.args) > 0 {
			scope.SKU = l.args[0]
		}
		if scope.SKU == "" {
			return "", missingArgument(l.raw, "competition sku")
		}
	}

	if d.services.Stats == nil {
		return "", fmt.Errorf("%s: stats %w", l.raw, errNoService)
	}

	var (
		out string
		err error
	)
	switch l.verb {
	case "graph":
		out, err = d.services.Stats.Graph(ctx, scope)
	case "competition":
		out, err = d.services.Stats.Competition(ctx, scope)
	default:
		out, err = d.services.Stats.Summary(ctx, scope)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", l.raw, err)
	}
	return out, nil
}

// rank shows the rankings for a team or organization scope
func (d *Dispatcher) rank(ctx context.Context, scope shared.Scope, l *line) (string, error) {
	if d.services.Stats == nil {
		return "", fmt.Errorf("%s: stats %w", l.raw, errNoService)
	}
	out, err := d.services.Stats.Rank(ctx, scope)
	if err != nil {
		return "", fmt.Errorf("%s: %w", l.raw, err)
	}
	return out, nil
}

// standaloneStats treats the whole line as an identifier. An empty line falls back to the configured current team
func (d *Dispatcher) standaloneStats(ctx context.Context, l *line) (string, error) {
	if l.verb == verbHelp {
		return "Enter a team number (e.g. 750B) or organization code (e.g. 750) to show its statistics, or rank <team> " +
			"to show its rankings\n", nil
	}

	if l.verb == "rank" {
		token := d.config.CurrentTeam
		if len(l.args) > 0 {
			token = l.args[0]
		}
		if token == "" {
			return "", missingArgument(l.raw, "team number or organization code")
		}
		c, err := identContext(l.raw, token)
		if err != nil {
			return "", err
		}
		return d.rank(ctx, scopeFor(c), l)
	}

	token := l.raw
	if token == "" {
		token = d.config.CurrentTeam
		if token == "" {
			return "", missingArgument("stats", "team number or organization code")
		}
	}

	c, err := identContext("stats", token)
	if err != nil {
		return "", err
	}
	sl := &line{verb: "summary", raw: "stats " + token}
	return d.statsCommand(ctx, scopeFor(c), sl)
}

// endregion

// region Config

func (d *Dispatcher) configTable(l *line) (string, error) {
	if l.verb == verbHelp {
		return help(configVerbs), nil
	}
	switch l.verb {
	case "get", "set", "update", "show":
	default:
		return "", d.unknown(l, configVerbs)
	}

	svc := d.services.Config
	if svc == nil {
		return "", fmt.Errorf("%s: config %w", l.raw, errNoService)
	}

	switch l.verb {
	case "get":
		if len(l.args) == 0 {
			return "", missingArgument(l.raw, "key")
		}
		value, err := svc.Get(l.args[0])
		if err != nil {
			return "", configError(l.raw, err)
		}
		return fmt.Sprintf("%s = %s", l.args[0], value), nil

	case "set":
		if len(l.args) < 2 {
			return "", missingArgument(l.raw, "key and value")
		}
		if err := svc.Set(l.args[0], strings.Join(l.args[1:], " ")); err != nil {
			return "", configError(l.raw, err)
		}
		return fmt.Sprintf("%s updated, run `update` to save", l.args[0]), nil

	case "update":
		written, err := svc.Update()
		if err != nil {
			return "", fmt.Errorf("%s: %w", l.raw, err)
		}
		if !written {
			return "Nothing to update", nil
		}
		return "Configuration saved", nil
	}

	var b strings.Builder
	for _, key := range svc.Keys() {
		value, err := svc.Get(key)
		if err != nil {
			return "", configError(l.raw, err)
		}
		fmt.Fprintf(&b, "%s = %s\n", key, value)
	}
	return b.String(), nil
}

// configError maps the configuration manager's validation errors to InvalidInput
func configError(verb string, err error) error {
	if errors.Is(err, config.ErrUnknownKey) || errors.Is(err, config.ErrTypeMismatch) {
		return &CommandError{Kind: ErrInvalidInput, Verb: verb, Err: err}
	}
	return fmt.Errorf("%s: %w", verb, err)
}

// endregion
