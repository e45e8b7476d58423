// Command genogram lays out and renders family trees.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/genogram/internal/cli"
	errs "github.com/matzehuels/genogram/pkg/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.New(os.Stderr, cli.LogInfo).RootCommand().ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err))
}

// exitCode reports err on stderr and maps it to a process exit status:
// 130 after an interrupt, 2 for bad input, 1 otherwise.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	}
	fmt.Fprintf(os.Stderr, "genogram: %s\n", errs.UserMessage(err))
	switch errs.GetCode(err) {
	case "", errs.ErrCodeStorage, errs.ErrCodeRender, errs.ErrCodeInternal:
		return 1
	}
	return 2
}
