package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed <file>",
	Short: "Import reference job titles",
	Long: `Import reference job titles from a JSON or YAML file. A plain list of titles
(or of {"Job Title": ...} objects) is sorted into tracks by keyword; a mapping
of track code to titles is imported as given. Existing titles are left alone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		st, err := a.seedFrom(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
