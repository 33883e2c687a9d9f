/* stack.go
 * Contains the context Stack. Mutation is only possible at the tail
 */

package shell

import "fmt"

type entry struct {
	ctx  Context
	root bool
}

// Stack is the ordered path of contexts from the outermost scope to the innermost. The zero value is an empty stack.
//
// An entry pushed with PushRoot starts a new nesting chain: dispatch treats it as if it sat directly below Base.
// This is how `global` lines add contexts without discarding the existing ones.
type Stack struct {
	entries []entry
}

// Push appends c to the stack. Pushing Base is a programming error and panics.
func (s *Stack) Push(c Context) {
	s.push(c, false)
}

// PushRoot appends c and marks it as the start of a new chain
func (s *Stack) PushRoot(c Context) {
	s.push(c, true)
}

func (s *Stack) push(c Context, root bool) {
	if c == nil {
		panic("shell: push of nil context")
	}
	if _, ok := c.(Base); ok {
		panic(fmt.Sprintf("shell: %T cannot be pushed", c))
	}
	s.entries = append(s.entries, entry{ctx: c, root: root})
}

// Pop removes and returns the innermost context. It returns false when the stack is empty
func (s *Stack) Pop() (Context, bool) {
	if len(s.entries) == 0 {
		return nil, false
	}
	last := s.entries[len(s.entries)-1]
	s.entries[len(s.entries)-1] = entry{}
	s.entries = s.entries[:len(s.entries)-1]
	return last.ctx, true
}

// Top returns the innermost context without removing it
func (s *Stack) Top() (Context, bool) {
	if len(s.entries) == 0 {
		return nil, false
	}
	return s.entries[len(s.entries)-1].ctx, true
}

// Clear empties the stack
func (s *Stack) Clear() {
	s.entries = nil
}

// Len returns the depth of the stack
func (s *Stack) Len() int {
	return len(s.entries)
}

// Contexts returns a copy of the stack, outermost first
func (s *Stack) Contexts() []Context {
	out := make([]Context, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.ctx
	}
	return out
}

// chain returns the contexts from the most recent root entry to the top. Entry 0 is always a root.
func (s *Stack) chain() []Context {
	start := 0
	for i := len(s.entries) - 1; i > 0; i-- {
		if s.entries[i].root {
			start = i
			break
		}
	}
	out := make([]Context, 0, len(s.entries)-start)
	for _, e := range s.entries[start:] {
		out = append(out, e.ctx)
	}
	return out
}
