package cli

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/suessflorian/gqlfetch"
)

func newSchemaCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Download the CMS GraphQL schema",
		Long: `Schema introspects the CMS GraphQL endpoint and writes the schema to
disk, where genqlient picks it up for query generation.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFromContext(cmd.Context())
			if err != nil {
				return err
			}
			if cfg.CMS.GraphQLEndpoint == "" {
				return fmt.Errorf("cms.graphql_endpoint is required")
			}

			headers := http.Header{}
			if cfg.CMS.APIKey != "" {
				headers.Set("X-Api-Key", cfg.CMS.APIKey)
			}

			schema, err := gqlfetch.BuildClientSchemaWithHeaders(cmd.Context(), cfg.CMS.GraphQLEndpoint, headers, false)
			if err != nil {
				return fmt.Errorf("introspect %s: %w", cfg.CMS.GraphQLEndpoint, err)
			}

			if err := os.WriteFile(out, []byte(schema), 0o644); err != nil {
				return fmt.Errorf("write schema: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)

			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "schema.graphql", "output file")

	return cmd
}
