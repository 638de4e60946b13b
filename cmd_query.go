package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrops-br/catalog-storefront/internal/app/querystate"
	"github.com/mrops-br/catalog-storefront/internal/domain"
)

var (
	encodeSearch   string
	encodeCategory string
	encodeSort     string
	encodePage     int
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Convert between filter state and catalog query strings",
}

var queryEncodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Print the catalog location for a filter",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		order, ok := domain.ParseSortOrder(encodeSort)
		if !ok {
			return fmt.Errorf("unknown sort order %q", encodeSort)
		}
		f := domain.FilterState{
			SearchQuery: encodeSearch,
			Category:    encodeCategory,
			Sort:        order,
			Page:        encodePage,
		}
		fmt.Fprintln(cmd.OutOrStdout(), querystate.Location(querystate.Root, f))
		return nil
	},
}

var queryDecodeCmd = &cobra.Command{
	Use:   "decode <query>",
	Short: "Print the filter a query string decodes to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(cmd.OutOrStdout(), querystate.Decode(args[0]))
	},
}

func init() {
	queryEncodeCmd.Flags().StringVar(&encodeSearch, "search", "", "Search text")
	queryEncodeCmd.Flags().StringVar(&encodeCategory, "category", "", "Category filter")
	queryEncodeCmd.Flags().StringVar(&encodeSort, "sort", "", "Price order: asc or desc")
	queryEncodeCmd.Flags().IntVar(&encodePage, "page", 1, "Page number")

	queryCmd.AddCommand(queryEncodeCmd)
	queryCmd.AddCommand(queryDecodeCmd)
}
