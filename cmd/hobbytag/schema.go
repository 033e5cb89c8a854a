package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/hobbytag/pkg/hobbytag/assemble"
	"github.com/cognicore/hobbytag/pkg/hobbytag/schema"
)

func schemaCmd() *cobra.Command {
	var variant string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of an output layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := schema.JSON(assemble.Schema(variant))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	cmd.Flags().StringVar(&variant, "variant", string(assemble.SchemaFinal), "output layout (final, canon)")
	return cmd
}
