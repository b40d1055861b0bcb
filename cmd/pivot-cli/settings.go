package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quocdat202/pivot"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Work with saved pivot settings",
	}
	cmd.AddCommand(newSettingsConvertCmd(), newSettingsShowCmd())
	return cmd
}

func newSettingsConvertCmd() *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert a settings file between json, yaml, msgpack and token encodings",
		Long: `Convert a settings file between encodings. The input codec is taken from
the input extension; the output codec from --to, or else the output extension.`,
		Example: `  pivot-cli settings convert view.json view.yaml
  pivot-cli settings convert view.yaml view.txt --to token`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := pivot.LoadSettings(args[0])
			if err != nil {
				return err
			}
			if err := pivot.SaveSettings(args[1], s, to); err != nil {
				return fmt.Errorf("writing %s: %w", args[1], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Converted %s -> %s\n", args[0], args[1])
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Output codec: json, yaml, msgpack or token")
	return cmd
}

func newSettingsShowCmd() *cobra.Command {
	var as string
	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Decode a settings file and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := pivot.LoadSettings(args[0])
			if err != nil {
				return err
			}
			data, err := pivot.EncodeSettings(s, as)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&as, "as", "yaml", "Output encoding: json, yaml or token")
	return cmd
}
