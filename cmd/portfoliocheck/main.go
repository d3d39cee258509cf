package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "portfoliocheck",
		Short:        "Value DeFi vaults from the command line",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "config/config.yaml", "config file path")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Print the portfolio summary of one or more vaults",
		RunE:  runCheck,
	}
	checkCmd.Flags().StringSlice("vault", nil, "vault addresses (repeatable or comma-separated)")
	checkCmd.Flags().String("vaults-file", "", "vault list file: JSON array or one address per line")
	checkCmd.Flags().Bool("llm", false, "print the nested LLM view instead of the summary")
	root.AddCommand(checkCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
