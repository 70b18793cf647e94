package main

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/aretw0/dogear"
	"github.com/aretw0/dogear/pkg/core"
)

type statusReport struct {
	Version   string `json:"version"`
	Adapter   string `json:"adapter"`
	Component string `json:"component"`
	State     any    `json:"state"`
	Bookmarks int    `json:"bookmarks"`
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the state of the bookmark store as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd.Context(), func(ctx context.Context, svc *core.Service) error {
				bookmarks, err := svc.ListBookmarks(ctx)
				if err != nil {
					return err
				}
				report := statusReport{
					Version:   dogear.Version,
					Adapter:   a.cfg.Database.Adapter,
					Component: svc.ComponentType(),
					State:     svc.State(),
					Bookmarks: len(bookmarks),
				}
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(report)
			})
		},
	}
}
