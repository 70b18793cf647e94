package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/dogear"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dogear",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dogear version %s\n", dogear.Version)
		},
	}
}
