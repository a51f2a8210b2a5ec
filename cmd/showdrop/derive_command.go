package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"showdrop/internal/identifier"
)

func newDeriveCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "derive <raw title>",
		Short:       "Show the canonical code derived from a raw upload title",
		Long:        "Derive runs the identifier pipeline on a filename or caption without touching the catalog, for checking how an upload will be keyed.",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := strings.Join(args, " ")
			code := identifier.Derive(raw)
			out := cmd.OutOrStdout()

			if code == "" {
				return fmt.Errorf("no identifying tokens in %q", raw)
			}

			components := identifier.Parse(code)
			fmt.Fprintf(out, "Code:    %s\n", code)
			fmt.Fprintf(out, "Slug:    %s\n", components.Slug)
			if components.Season > 0 {
				fmt.Fprintf(out, "Season:  %d\n", components.Season)
			}
			if components.Episode >= 0 {
				fmt.Fprintf(out, "Episode: %d\n", components.Episode)
			}
			fmt.Fprintf(out, "Quality: %s\n", components.Quality)
			return nil
		},
	}
}
