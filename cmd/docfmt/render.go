package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-docfmt/pkg/dsl"
	"github.com/goliatone/go-docfmt/pkg/orchestrator"
	"github.com/goliatone/go-docfmt/pkg/render"
)

func newRenderCommand(a *app) *cobra.Command {
	var (
		renderer string
		output   string
	)
	cmd := &cobra.Command{
		Use:   "render DOCUMENT.json",
		Short: "Render a saved document description without re-running extraction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var doc dsl.Document
			if err := json.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			registry, err := a.renderers()
			if err != nil {
				return err
			}
			name := renderer
			if name == "" {
				name = a.cfg.Render.DefaultRenderer
			}
			r, err := registry.Get(name)
			if err != nil {
				return err
			}
			if output == "" {
				output = orchestrator.Filename(doc.MetaValue(dsl.MetaInstitution), r.Extension())
			}
			if err := render.WriteFile(cmd.Context(), r, doc, output); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&renderer, "renderer", "r", "", "output renderer (docx or html)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default Paper_<school>.<ext>)")
	return cmd
}
