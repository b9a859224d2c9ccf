package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newResolveCommand(a *app) *cobra.Command {
	var (
		flags  styleFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the style catalog a request resolves to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}
			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			catalog, err := orch.Resolve(cmd.Context(), req)
			if err != nil {
				return err
			}
			if format == "yaml" {
				enc := yaml.NewEncoder(a.stdout)
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(catalog)
			}
			enc := json.NewEncoder(a.stdout)
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(catalog)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or yaml")
	return cmd
}
