package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFinanceCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finance",
		Short: "Manage the dashboard's finance data",
	}
	cmd.AddCommand(newFinanceImportCommand(opts))
	return cmd
}

func newFinanceImportCommand(opts *rootOptions) *cobra.Command {
	var checking, savings string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the finance data with checking and savings CSV exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.openCore(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			txCount, savingsCount, err := svc.ImportFinanceFiles(cmd.Context(), checking, savings)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d transactions and %d savings balances\n", txCount, savingsCount)
			return nil
		},
	}
	cmd.Flags().StringVar(&checking, "checking", "", "categorized checking CSV")
	cmd.Flags().StringVar(&savings, "savings", "", "savings history CSV (optional)")
	_ = cmd.MarkFlagRequired("checking")
	return cmd
}
