package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/quocdat202/pivot"
)

func newInspectCmd() *cobra.Command {
	var settingsFormat string
	cmd := &cobra.Command{
		Use:   "inspect <data-file>",
		Short: "Show the columns, detected types and automatic configuration of a data file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadEngineConfig(cmd); err != nil {
				return err
			}
			ds, err := pivot.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "File: %s\nRows: %d\nColumns: %d\n\n", args[0], ds.Len(), ds.Width())

			types := pivot.DetectColumnTypes(ds)
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "COLUMN\tTYPE")
			for _, col := range ds.ColumnNames() {
				fmt.Fprintf(tw, "%s\t%s\n", col, types[col])
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			data, err := pivot.EncodeSettings(pivot.ToSettings(pivot.AutoConfigure(ds)), settingsFormat)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nAutomatic settings:\n%s", data)
			return nil
		},
	}
	cmd.Flags().StringVar(&settingsFormat, "settings-format", "yaml", "Encoding of the automatic settings: json, yaml or token")
	return cmd
}
