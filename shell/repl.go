/* repl.go
 * Contains the line-oriented read/dispatch/print loop used by the terminal front end
 */

package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Run writes the prompt, reads a line and dispatches it until the input ends, the dispatcher terminates the session
// or ctx is cancelled. Rejected lines are printed and the loop continues.
func Run(ctx context.Context, d *Dispatcher, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				errc <- nil
				return
			}
		}
		errc <- scanner.Err()
	}()

	for {
		fmt.Fprint(out, d.Prompt())

		var (
			input string
			ok    bool
		)
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case input, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(out)
			if err := <-errc; err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}
			return nil
		}

		res, err := d.Dispatch(ctx, input)
		if err != nil {
			fmt.Fprintf(out, "Error: %s\n", err)
			continue
		}
		if res.Output != "" {
			fmt.Fprintln(out, strings.TrimRight(res.Output, "\n"))
		}
		if res.Terminate {
			return nil
		}
	}
}
