// Command mutate lists, validates and runs the declared mutations from the
// command line, without the HTTP service.
//
//	mutate list
//	mutate describe favorite_band
//	mutate run signup --arg email=a@b.co --arg send_welcome_email=true
//	mutate validate schedule_digest --args-json '{"email":"a@b.co","frequency_days":40}'
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, newCLI(os.Stdout, os.Stderr), os.Args[1:]); err != nil {
		stop()
		os.Exit(1)
	}
}
