package main

import (
	"fmt"

	"newsdesk/internal/domain/content"
	"newsdesk/internal/screens"

	"github.com/spf13/cobra"
)

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "List the browsable resources and their URL parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows := make([][]string, 0, len(content.Resources()))
		for _, r := range content.Resources() {
			c, err := screens.Codec(r, cfg.List.MaxItemsPerPage)
			if err != nil {
				return err
			}
			rows = append(rows, []string{
				string(r),
				fmt.Sprint(c.Defaults.ItemsPerPage),
				c.Params.ItemsPerPage,
				c.Params.Search,
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Resource", "Per page", "Size param", "Search param"}, rows, ""))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resourcesCmd)
}
