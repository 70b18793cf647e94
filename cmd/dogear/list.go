package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/dogear/pkg/core"
)

func newListCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		asYAML bool
		match  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bookmarks",
		Example: `  dogear list
  dogear list --match 'https://*.go.dev/**' --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON && asYAML {
				return fmt.Errorf("--json and --yaml are mutually exclusive")
			}
			return a.withService(cmd.Context(), func(ctx context.Context, svc *core.Service) error {
				var (
					bookmarks []core.Bookmark
					err       error
				)
				if match != "" {
					bookmarks, err = svc.SearchBookmarks(ctx, match)
				} else {
					bookmarks, err = svc.ListBookmarks(ctx)
				}
				if err != nil {
					return fmt.Errorf("list bookmarks: %w", err)
				}

				out := cmd.OutOrStdout()
				switch {
				case asJSON:
					encoder := json.NewEncoder(out)
					encoder.SetIndent("", "  ")
					return encoder.Encode(bookmarks)
				case asYAML:
					encoder := yaml.NewEncoder(out)
					encoder.SetIndent(2)
					if err := encoder.Encode(bookmarks); err != nil {
						return err
					}
					return encoder.Close()
				}

				for _, b := range bookmarks {
					fmt.Fprintf(out, "%d\t%s\t%s\t%s\n", b.ID, b.URL, b.Title, strings.Join(b.Tags, ","))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Output in YAML format")
	cmd.Flags().StringVar(&match, "match", "", "Only bookmarks whose URL matches this glob")
	return cmd
}
