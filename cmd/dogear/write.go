package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aretw0/dogear/pkg/core"
)

type bookmarkFlags struct {
	url   string
	title string
	desc  string
	tags  []string
}

func (f *bookmarkFlags) register(cmd *cobra.Command, withURL bool) {
	if withURL {
		cmd.Flags().StringVar(&f.url, "url", "", "Bookmark URL")
	}
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "Bookmark title")
	cmd.Flags().StringVarP(&f.desc, "desc", "d", "", "Bookmark description")
	cmd.Flags().StringSliceVar(&f.tags, "tag", nil, "Tag (repeatable or comma separated)")
}

func newAddCmd(a *app) *cobra.Command {
	var f bookmarkFlags

	cmd := &cobra.Command{
		Use:     "add <url>",
		Short:   "Add a bookmark",
		Example: `  dogear add https://go.dev --title "Go" --tag lang,go`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd.Context(), func(ctx context.Context, svc *core.Service) error {
				id, err := svc.AddBookmark(ctx, core.Bookmark{
					URL:   args[0],
					Title: f.title,
					Desc:  f.desc,
					Tags:  f.tags,
				})
				if err != nil {
					return fmt.Errorf("add bookmark: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Bookmark added: %d\n", id)
				return nil
			})
		},
	}
	f.register(cmd, false)
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var f bookmarkFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a bookmark",
		Long:  `Edit replaces only the fields given as flags. --tag replaces the whole tag set.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withService(cmd.Context(), func(ctx context.Context, svc *core.Service) error {
				b, err := findBookmark(ctx, svc, id)
				if err != nil {
					return err
				}

				flags := cmd.Flags()
				if flags.Changed("url") {
					b.URL = f.url
				}
				if flags.Changed("title") {
					b.Title = f.title
				}
				if flags.Changed("desc") {
					b.Desc = f.desc
				}
				if flags.Changed("tag") {
					b.Tags = f.tags
				}

				if err := svc.UpdateBookmark(ctx, b); err != nil {
					return fmt.Errorf("update bookmark: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Bookmark updated: %d\n", id)
				return nil
			})
		},
	}
	f.register(cmd, true)
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withService(cmd.Context(), func(ctx context.Context, svc *core.Service) error {
				if err := svc.DeleteBookmark(ctx, id); err != nil {
					return fmt.Errorf("delete bookmark: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Bookmark deleted: %d\n", id)
				return nil
			})
		},
	}
}

func parseID(raw string) (core.BookmarkID, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid bookmark id %q", raw)
	}
	return core.BookmarkID(n), nil
}

func findBookmark(ctx context.Context, svc *core.Service, id core.BookmarkID) (core.Bookmark, error) {
	bookmarks, err := svc.ListBookmarks(ctx)
	if err != nil {
		return core.Bookmark{}, fmt.Errorf("list bookmarks: %w", err)
	}
	for _, b := range bookmarks {
		if b.ID == id {
			return b, nil
		}
	}
	return core.Bookmark{}, fmt.Errorf("%w: %d", core.ErrNotFound, id)
}
