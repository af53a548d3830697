package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/smartspb/mediabot/internal/store"
	"github.com/smartspb/mediabot/internal/store/sqlite"
)

type opener func() (*sqlite.Store, error)

func newStatsCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Entry and media counts per user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			defer s.Close()

			stats, err := s.UserStats(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(stats))
			var entries, media int
			for _, st := range stats {
				rows = append(rows, []string{
					strconv.FormatInt(st.UserID, 10),
					strconv.Itoa(st.Entries),
					strconv.Itoa(st.Media),
					st.LastUpload,
				})
				entries += st.Entries
				media += st.Media
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"User", "Entries", "Media", "Last upload"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignRight, alignLeft},
				out,
			))
			fmt.Fprintf(out, "%d users, %d entries, %d media files\n", len(stats), entries, media)
			return nil
		},
	}
}

func newTagsCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "Every tag with the number of entries using it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			defer s.Close()

			usage, err := s.TagUsage(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(usage))
			for _, u := range usage {
				rows = append(rows, []string{
					strconv.FormatInt(u.ID, 10),
					u.Name,
					string(u.Origin),
					strconv.Itoa(u.Entries),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Tag", "Origin", "Entries"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
				out,
			))
			return nil
		},
	}
}

func newUserCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "user <telegram-id>",
		Short: "A user's entries with their ordinals, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}

			s, err := open()
			if err != nil {
				return err
			}
			defer s.Close()

			var rows [][]string
			for page := 0; ; page++ {
				p, err := s.ListContent(cmd.Context(), userID, store.AllEntries(), page)
				if err != nil {
					return err
				}
				for _, r := range p.Rows {
					rows = append(rows, []string{
						strconv.Itoa(r.Ordinal),
						strconv.FormatInt(r.ID, 10),
						r.Timestamp,
						r.Description,
					})
				}
				if !p.HasNext() {
					break
				}
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintf(out, "user %d has no entries\n", userID)
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "ID", "Created", "Description"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft},
				out,
			))
			return nil
		},
	}
}
