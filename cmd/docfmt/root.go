package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docfmt",
		Short: "Format academic drafts into institution-styled documents",
		Long: `docfmt resolves an institution's formatting rules into a style catalog,
segments a draft into typed content blocks and renders the result as DOCX
or an HTML preview.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $DOCFMT_CONFIG)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")

	cmd.AddCommand(
		newGenerateCommand(a),
		newRenderCommand(a),
		newResolveCommand(a),
		newServeCommand(a),
		newIngestCommand(a),
		newPresetCommand(a),
	)
	return cmd
}
