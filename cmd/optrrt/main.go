// Package main is the optrrt command.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	optrrtcli "go.viam.com/optrrt/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := optrrtcli.NewApp(os.Stdout, os.Stderr).RunContext(ctx, os.Args)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
