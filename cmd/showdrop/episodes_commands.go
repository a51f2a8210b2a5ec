package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"showdrop/internal/catalog"
	"showdrop/internal/config"
)

func newEpisodesCommand(ctx *commandContext) *cobra.Command {
	episodesCmd := &cobra.Command{
		Use:   "episodes",
		Short: "Inspect and manage the episode catalog",
	}

	episodesCmd.AddCommand(newEpisodesListCommand(ctx))
	episodesCmd.AddCommand(newEpisodesShowCommand(ctx))
	episodesCmd.AddCommand(newEpisodesUpdateCommand(ctx))
	episodesCmd.AddCommand(newEpisodesRemoveCommand(ctx))

	return episodesCmd
}

func withStore(ctx *commandContext, fn func(cfg *config.Config, store *catalog.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := catalog.Open(cfg)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()
	return fn(cfg, store)
}

func newEpisodesListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all stored episodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(_ *config.Config, store *catalog.Store) error {
				episodes, err := store.List(cmd.Context())
				if err != nil {
					return fmt.Errorf("list episodes: %w", err)
				}

				out := cmd.OutOrStdout()
				if len(episodes) == 0 {
					fmt.Fprintln(out, "No episodes stored")
					return nil
				}

				if !isTerminal(out) {
					for _, ep := range episodes {
						fmt.Fprintf(out, "%s\t%d\t%s\n", ep.Code, ep.MessageID, ep.CreatedAt.Format(time.RFC3339))
					}
					return nil
				}

				rows := make([][]string, 0, len(episodes))
				for _, ep := range episodes {
					rows = append(rows, []string{
						ep.Code,
						optionalInt(ep.Season),
						optionalInt(ep.Episode),
						ep.Quality,
						strconv.FormatInt(ep.MessageID, 10),
						ep.CreatedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Code", "Season", "Episode", "Quality", "Message", "Created"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}

func newEpisodesShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <code>",
		Short: "Show one episode record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(_ *config.Config, store *catalog.Store) error {
				code := strings.ToLower(strings.TrimSpace(args[0]))
				ep, err := store.Get(cmd.Context(), code)
				if err != nil {
					return fmt.Errorf("get episode: %w", err)
				}
				if ep == nil {
					return fmt.Errorf("no episode stored for code %q", code)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Code:         %s\n", ep.Code)
				fmt.Fprintf(out, "Source title: %s\n", ep.SourceTitle)
				fmt.Fprintf(out, "Season:       %s\n", optionalInt(ep.Season))
				fmt.Fprintf(out, "Episode:      %s\n", optionalInt(ep.Episode))
				fmt.Fprintf(out, "Quality:      %s\n", ep.Quality)
				fmt.Fprintf(out, "Message ID:   %d\n", ep.MessageID)
				fmt.Fprintf(out, "Created:      %s\n", ep.CreatedAt.Local().Format(time.RFC3339))
				return nil
			})
		},
	}
}

func newEpisodesUpdateCommand(ctx *commandContext) *cobra.Command {
	var (
		messageID int64
		title     string
		season    int
		episode   int
		quality   string
	)

	cmd := &cobra.Command{
		Use:   "update <code>",
		Short: "Update fields of a stored episode",
		Long:  "Update fields of a stored episode. Only the flags given change; everything else is kept. Useful after re-uploading a file, which gives the episode a new message id.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(_ *config.Config, store *catalog.Store) error {
				code := strings.ToLower(strings.TrimSpace(args[0]))
				ep, err := store.Get(cmd.Context(), code)
				if err != nil {
					return fmt.Errorf("get episode: %w", err)
				}
				if ep == nil {
					return fmt.Errorf("no episode stored for code %q", code)
				}

				flags := cmd.Flags()
				if !flags.Changed("message-id") && !flags.Changed("title") &&
					!flags.Changed("season") && !flags.Changed("episode") && !flags.Changed("quality") {
					return errors.New("nothing to update, pass at least one field flag")
				}
				if flags.Changed("message-id") {
					ep.MessageID = messageID
				}
				if flags.Changed("title") {
					ep.SourceTitle = title
				}
				if flags.Changed("season") {
					ep.Season = &season
				}
				if flags.Changed("episode") {
					ep.Episode = &episode
				}
				if flags.Changed("quality") {
					ep.Quality = quality
				}

				if err := store.Update(cmd.Context(), ep); err != nil {
					return fmt.Errorf("update episode: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", code)
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&messageID, "message-id", 0, "upload channel message id the code resolves to")
	cmd.Flags().StringVar(&title, "title", "", "original source title")
	cmd.Flags().IntVar(&season, "season", 0, "season number")
	cmd.Flags().IntVar(&episode, "episode", 0, "episode number")
	cmd.Flags().StringVar(&quality, "quality", "", "quality label, e.g. 1080p")
	return cmd
}

func newEpisodesRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <code>",
		Aliases: []string{"remove"},
		Short:   "Remove an episode from the catalog",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(_ *config.Config, store *catalog.Store) error {
				code := strings.ToLower(strings.TrimSpace(args[0]))
				if err := store.Delete(cmd.Context(), code); err != nil {
					if errors.Is(err, catalog.ErrNotFound) {
						return fmt.Errorf("no episode stored for code %q", code)
					}
					return fmt.Errorf("remove episode: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", code)
				return nil
			})
		},
	}
}

func optionalInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}
