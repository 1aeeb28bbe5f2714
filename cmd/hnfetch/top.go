package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samvad-hq/samvad-hn-harvester/pkg/hn"
	"github.com/spf13/cobra"
)

func newTopCommand(root *rootOptions) *cobra.Command {
	var (
		list   string
		limit  int
		titles bool
	)

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Print the ranked ids of a story list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			storyList, err := hn.ParseStoryList(list)
			if err != nil {
				return err
			}
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}

			client := root.client()
			ids, err := client.Stories(cmd.Context(), storyList)
			if err != nil {
				return err
			}
			if limit > 0 && len(ids) > limit {
				ids = ids[:limit]
			}

			if !titles {
				renderIDs(cmd.OutOrStdout(), ids)
				return nil
			}

			items := make([]hn.Item, 0, len(ids))
			for _, id := range ids {
				item, err := client.Item(cmd.Context(), id)
				if err != nil {
					return err
				}
				items = append(items, item)
			}
			renderItems(cmd.OutOrStdout(), items)
			return nil
		},
	}

	cmd.Flags().StringVar(&list, "list", string(hn.ListTop), "story list: top, new, best, ask, show or job")
	cmd.Flags().IntVar(&limit, "limit", 30, "maximum number of stories, 0 for all")
	cmd.Flags().BoolVar(&titles, "titles", false, "fetch each item and print its title")
	return cmd
}

func renderIDs(w io.Writer, ids []hn.ItemID) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Rank", "ID"})
	for i, id := range ids {
		t.AppendRow(table.Row{i + 1, id})
	}
	t.Render()
}

func renderItems(w io.Writer, items []hn.Item) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Rank", "ID", "Title", "By", "Score", "Comments"})
	for i, item := range items {
		t.AppendRow(table.Row{i + 1, item.ID, item.Title, item.By, item.Score, item.Descendants})
	}
	t.Render()
}
