package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	bridge "github.com/aretw0/dogear/pkg/adapters/lifecycle"
	"github.com/aretw0/dogear/pkg/core"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		types  []string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print bookmark changes as they happen",
		Long: `Watch follows the database until interrupted. Changes committed by other
programs, such as buku, are reported as EXTERNAL.`,
		Example: `  dogear watch --type external --json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := bridge.ParseEventTypes(types)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.withService(ctx, func(ctx context.Context, svc *core.Service) error {
				events, err := svc.Watch(ctx)
				if err != nil {
					return fmt.Errorf("watch: %w", err)
				}
				src := bridge.NewSource(events, kinds...)
				if err := src.Start(ctx); err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				encoder := json.NewEncoder(out)
				for e := range src.Events() {
					if asJSON {
						if err := encoder.Encode(e); err != nil {
							return err
						}
						continue
					}
					fmt.Fprintln(out, e.String())
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print events as JSON lines")
	cmd.Flags().StringSliceVar(&types, "type", nil, "Only these event types: create, modify, delete, external")
	return cmd
}
