package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/supplydesk/desk/internal/client"
)

func NewCmdSuppliers() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suppliers",
		Short: "Search the supplier database",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	cmd.AddCommand(NewCmdSearchSuppliers())
	return cmd
}

type SearchSuppliersOptions struct {
	GlobalOptions
}

func NewCmdSearchSuppliers() *cobra.Command {
	o := &SearchSuppliersOptions{GlobalOptions: DefaultGlobalOptions()}
	cmd := &cobra.Command{
		Use:          "search QUERY",
		Short:        "Find suppliers of an item by name",
		Example:      `suppliers search "Bearing 608"`,
		Args:         cobra.MinimumNArgs(1),
		RunE:         runE(o),
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *SearchSuppliersOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if strings.TrimSpace(strings.Join(args, " ")) == "" {
		return client.NewErrValidation("the search query must not be empty")
	}
	return nil
}

func (o *SearchSuppliersOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}
	query := strings.TrimSpace(strings.Join(args, " "))

	found, err := c.SearchSuppliers(ctx, query)
	if err != nil {
		return fmt.Errorf("searching suppliers for %q: %w", query, err)
	}
	return o.printer().print(found, func(w *tabwriter.Writer) {
		if len(found) == 0 {
			fmt.Fprintf(w, "No suppliers found for %q\n", query)
			return
		}
		printSuppliersTable(w, found...)
	})
}
