// Package main provides the pivot-cli entry point.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/quocdat202/pivot/internal/version"
)

func main() {
	if err := execute(newRootCmd(os.Stdout, os.Stderr), os.Stderr); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pivot-cli",
		Short: "Group, aggregate and export tabular data as a pivot table",
		Long: `pivot-cli reads CSV, TSV, JSON, XLSX or Parquet data, groups it into a
hierarchy with a grand total, aggregates the metric columns and writes the
visible rows as text, CSV, JSON, XLSX, HTML or Parquet.`,
		Version:       version.Info().Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.PersistentFlags().String("config", "", "Engine configuration file (.json, .yaml)")

	rootCmd.AddCommand(
		newProcessCmd(),
		newInspectCmd(),
		newSettingsCmd(),
		newVersionCmd(),
	)

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w\nRun '%s --help' for usage", err, cmd.CommandPath())
	})
	return rootCmd
}

// execute runs the root command and reports a failure on errOut.
func execute(rootCmd *cobra.Command, errOut io.Writer) error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(errOut, "Error:", err)
	}
	return err
}

func newVersionCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), version.Info().Short())
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), version.Info().String())
			return nil
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print only the version and commit")
	return cmd
}
