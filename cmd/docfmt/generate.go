package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-docfmt/pkg/dsl"
	"github.com/goliatone/go-docfmt/pkg/render"
)

func newGenerateCommand(a *app) *cobra.Command {
	var (
		flags    styleFlags
		renderer string
		output   string
		title    string
		dslOut   string
	)
	cmd := &cobra.Command{
		Use:   "generate DRAFT",
		Short: "Format a draft into a styled document",
		Example: `  docfmt generate thesis.txt --school nju
  docfmt generate thesis.docx --rules rules.docx -p "正文用楷体" -o out.docx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := readSource(args[0])
			if err != nil {
				return fmt.Errorf("read draft: %w", err)
			}
			req, err := flags.request()
			if err != nil {
				return err
			}
			req.Draft = draft
			req.Renderer = renderer
			if title != "" {
				req.Meta = map[string]string{dsl.MetaTitle: title}
			}

			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			result, err := orch.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}

			if dslOut != "" {
				data, err := result.DSL.MarshalJSON()
				if err != nil {
					return err
				}
				if err := render.WriteBytes(dslOut, data); err != nil {
					return err
				}
			}
			if output == "-" {
				_, err := a.stdout.Write(result.Output)
				return err
			}
			if output == "" {
				output = result.Filename
			}
			if err := render.WriteBytes(output, result.Output); err != nil {
				return err
			}
			if len(result.Degraded) > 0 {
				stages := make([]string, len(result.Degraded))
				for i, s := range result.Degraded {
					stages[i] = string(s)
				}
				fmt.Fprintf(a.stderr, "warning: degraded stages: %s\n", strings.Join(stages, ", "))
			}
			fmt.Fprintf(a.stdout, "wrote %s (%s, %d bytes)\n", output, result.Renderer, len(result.Output))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&renderer, "renderer", "r", "", "output renderer (docx or html)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path, '-' for stdout (default Paper_<school>.<ext>)")
	cmd.Flags().StringVar(&title, "title", "", "document title written to the package metadata")
	cmd.Flags().StringVar(&dslOut, "dsl", "", "also write the document description as JSON to this path")
	return cmd
}
