package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/lifecycle"
	"github.com/spf13/cobra"

	"github.com/aretw0/dogear"
	bridge "github.com/aretw0/dogear/pkg/adapters/lifecycle"
	"github.com/aretw0/dogear/pkg/core"
	"github.com/aretw0/dogear/pkg/host"
	"github.com/aretw0/dogear/pkg/nativemsg"
)

func newServeCmd(a *app) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve native-messaging requests on stdin/stdout",
		Long: `Serve reads length-prefixed JSON requests from stdin and writes one reply per
request to stdout until the browser closes the pipe. This is what runs when
the browser starts the host.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("watch") {
				a.cfg.Database.Watch = watch
			}
			return a.serve(cmd)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "Log commits made to the database by other programs")
	return cmd
}

func (a *app) serve(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := a.open()
	if err != nil {
		return err
	}
	defer svc.Close()

	if a.cfg.Database.Watch {
		a.logChanges(ctx, svc)
	}

	conn := nativemsg.NewConn(cmd.InOrStdin(), cmd.OutOrStdout(), a.cfg.Limits())
	h := host.New(conn, svc,
		host.WithVersion(dogear.Version),
		host.WithLogger(a.logger),
	)
	a.logger.Debug("host started", "version", dogear.Version, "adapter", a.cfg.Database.Adapter)

	done := make(chan error, 1)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		done <- h.Serve(ctx)
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		done <- err
	}))

	select {
	case err = <-done:
	case <-ctx.Done():
		a.logger.Debug("host interrupted")
	}

	state, _ := h.State().(host.HostState)
	if err != nil {
		// The browser has already dropped the port; nothing is left to answer.
		a.logger.Warn("transport failed", "error", err, "served", state.Served)
		return nil
	}
	a.logger.Debug("host stopped", "served", state.Served, "malformed", state.Malformed, "failed", state.Failed)
	return nil
}

func (a *app) logChanges(ctx context.Context, svc *core.Service) {
	events, err := svc.Watch(ctx)
	if err != nil {
		a.logger.Warn("database watch unavailable", "error", err)
		return
	}
	// Local writes are already logged per request.
	src := bridge.NewSource(events, core.EventExternal)
	if err := src.Start(ctx); err != nil {
		a.logger.Warn("database watch unavailable", "error", err)
		return
	}
	lifecycle.Go(ctx, func(ctx context.Context) error {
		for e := range src.Events() {
			a.logger.Info("database changed by another program", "event", e.String())
		}
		return nil
	})
}
