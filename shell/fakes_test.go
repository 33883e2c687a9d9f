/* fakes_test.go
 * Contains a recording fake for every dispatcher collaborator
 */

package shell

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"vex-shell/api/shared"
	"vex-shell/config"
)

// call records one collaborator invocation
type call struct {
	Method string
	Scope  shared.Scope
	N      int
	Verb   string
	Args   []string
}

// fakeServices implements every collaborator interface and records each call
type fakeServices struct {
	Calls    []call
	Matches  []shared.Match
	TeamList []shared.Team
	Err      error
}

func newFakeServices() *fakeServices {
	return &fakeServices{
		Matches: []shared.Match{
			{SKU: "1234", Division: "Science", Round: shared.RoundQualifier, Number: 1, Red1: "56A", Red2: "750B", Blue1: "99X", Blue2: "1234A", RedScore: 20, BlueScore: 10, Scored: true},
			{SKU: "1234", Division: "Science", Round: shared.RoundQualifier, Number: 2, Red1: "56A", Red2: "99X", Blue1: "750B", Blue2: "1234A"},
		},
		TeamList: []shared.Team{{Number: "750A", Name: "Alpha"}, {Number: "750B"}},
	}
}

func (f *fakeServices) record(c call) error {
	f.Calls = append(f.Calls, c)
	return f.Err
}

// Last returns the most recent call
func (f *fakeServices) Last() call {
	if len(f.Calls) == 0 {
		return call{}
	}
	return f.Calls[len(f.Calls)-1]
}

func (f *fakeServices) Load(ctx context.Context, scope shared.Scope) ([]shared.Match, error) {
	if err := f.record(call{Method: "load", Scope: scope}); err != nil {
		return nil, err
	}
	return f.Matches, nil
}

func (f *fakeServices) Next(ctx context.Context, scope shared.Scope) (shared.Match, error) {
	if err := f.record(call{Method: "next", Scope: scope}); err != nil {
		return shared.Match{}, err
	}
	return f.Matches[1], nil
}

func (f *fakeServices) Prev(ctx context.Context, scope shared.Scope) (shared.Match, error) {
	if err := f.record(call{Method: "prev", Scope: scope}); err != nil {
		return shared.Match{}, err
	}
	return f.Matches[0], nil
}

func (f *fakeServices) Lookup(ctx context.Context, scope shared.Scope, n int) (shared.Match, error) {
	if err := f.record(call{Method: "lookup", Scope: scope, N: n}); err != nil {
		return shared.Match{}, err
	}
	if n > len(f.Matches) {
		return shared.Match{}, fmt.Errorf("no match %d", n)
	}
	return f.Matches[n-1], nil
}

func (f *fakeServices) Summary(ctx context.Context, scope shared.Scope) (string, error) {
	return "summary " + scope.String(), f.record(call{Method: "summary", Scope: scope})
}

func (f *fakeServices) Graph(ctx context.Context, scope shared.Scope) (string, error) {
	return "graph " + scope.String(), f.record(call{Method: "graph", Scope: scope})
}

func (f *fakeServices) Competition(ctx context.Context, scope shared.Scope) (string, error) {
	return "competition " + scope.String(), f.record(call{Method: "competition", Scope: scope})
}

func (f *fakeServices) Rank(ctx context.Context, scope shared.Scope) (string, error) {
	return "rank " + scope.String(), f.record(call{Method: "rank", Scope: scope})
}

func (f *fakeServices) History(ctx context.Context, scope shared.Scope, verb string, args []string) (string, error) {
	return "history " + verb, f.record(call{Method: "history", Scope: scope, Verb: verb, Args: args})
}

func (f *fakeServices) Teams(ctx context.Context, organization string) ([]shared.Team, error) {
	if err := f.record(call{Method: "teams", Scope: shared.Scope{Organization: organization}}); err != nil {
		return nil, err
	}
	return f.TeamList, nil
}

func (f *fakeServices) Wait(ctx context.Context, scope shared.Scope) (shared.Match, error) {
	if err := f.record(call{Method: "wait", Scope: scope}); err != nil {
		return shared.Match{}, err
	}
	return f.Matches[0], nil
}

// newTestDispatcher creates a Dispatcher wired to a fresh fakeServices and an in-memory config manager
func newTestDispatcher(t *testing.T, cfg config.Configuration) (*Dispatcher, *fakeServices) {
	t.Helper()
	fake := newFakeServices()
	d, err := NewDispatcher(cfg, Services{
		Matches:       fake,
		Stats:         fake,
		History:       fake,
		Organizations: fake,
		Waiter:        fake,
		Config:        config.NewManager("", cfg, nil),
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return d, fake
}

// mustDispatch dispatches each line and fails the test on any error
func mustDispatch(t *testing.T, d *Dispatcher, lines ...string) Result {
	t.Helper()
	var res Result
	for _, line := range lines {
		var err error
		res, err = d.Dispatch(context.Background(), line)
		require.NoError(t, err, "line %q", line)
	}
	return res
}
