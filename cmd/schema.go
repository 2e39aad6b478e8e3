package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema <database>",
	Short: "Print the discovered schema of a database as JSON.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := buildService(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		s, err := svc.GetSchema(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding schema: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}
