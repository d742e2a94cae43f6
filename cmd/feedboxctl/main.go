// Package main implements feedboxctl, the admin CLI for a feedback store.
// It talks to the same storage backend the server is configured with.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/valentinpelus/feedbox/internal/app"
	"github.com/valentinpelus/feedbox/internal/logging"
	"github.com/valentinpelus/feedbox/pkg/feedback"
)

// cli carries what every command needs; tests swap openStore and the streams
type cli struct {
	openStore func(ctx context.Context) (*feedback.Store, func() error, error)
	now       func() time.Time
	in        io.Reader
	out       io.Writer
}

func main() {
	c := &cli{
		openStore: openConfiguredStore,
		now:       time.Now,
		in:        os.Stdin,
		out:       os.Stdout,
	}

	err := newRootCmd(c).Execute()
	logging.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func openConfiguredStore(ctx context.Context) (*feedback.Store, func() error, error) {
	application, err := app.New(ctx)
	if err != nil {
		return nil, nil, err
	}
	return application.Store, application.Close, nil
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "feedboxctl",
		Short: "Administer stored feedback",
		Long: `Inspect, export and clear the feedback collection.

Storage is selected with the same environment variables as the server
(STORAGE_BACKEND, FEEDBACK_SLOT_KEY, ...).`,
		SilenceUsage: true,
	}
	root.SetIn(c.in)
	root.SetOut(c.out)

	root.AddCommand(
		newSubmitCmd(c),
		newListCmd(c),
		newStatsCmd(c),
		newExportCmd(c),
		newClearCmd(c),
	)
	return root
}

// withStore opens the store for the duration of fn
func (c *cli) withStore(cmd *cobra.Command, fn func(ctx context.Context, store *feedback.Store) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, closeFn, err := c.openStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open feedback store: %w", err)
	}
	if closeFn != nil {
		defer closeFn()
	}
	return fn(ctx, store)
}
