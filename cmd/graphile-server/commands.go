package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "graphile-server",
		Short: "Serve a GraphQL API in front of a relational database",
		Long: `graphile-server binds SERVER_HOST:SERVER_PORT (default localhost:3000),
mounts the GraphQL middleware on /graphql and /graphiql, and prints the
endpoint URLs once the listener is up.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(newExportSchemaCmd(), newVersionCmd())
	return root
}

func newExportSchemaCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export-schema",
		Short: "Write the GraphQL introspection result without starting the server",
		Example: `  graphile-server export-schema
  graphile-server export-schema --out schema.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExportSchema(cmd.Context(), out, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "file to write (default stdout)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "graphile-server %s (%s)\n", version, commit)
		},
	}
}
