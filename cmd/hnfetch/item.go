package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/samvad-hq/samvad-hn-harvester/pkg/hn"
	"github.com/spf13/cobra"
)

func newItemCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "item <id>",
		Short: "Print one item as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}

			item, err := root.client().Item(cmd.Context(), hn.ItemID(raw))
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(item, "", "  ")
			if err != nil {
				return fmt.Errorf("encode item: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
}
