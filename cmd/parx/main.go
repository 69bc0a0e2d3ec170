// Command parx runs parallel computations from the command line. It is a
// small harness for trying out thread, chunk and order settings and the
// thread pools they run on.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(newApp().run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line args and returns the process exit code.
// The pool and the logger are released before it returns.
func (a *app) run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	defer a.close()

	cmd := a.root()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}
