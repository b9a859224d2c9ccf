package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newIngestCommand(a *app) *cobra.Command {
	var school string
	cmd := &cobra.Command{
		Use:   "ingest RULES",
		Short: "Index an institution rule document for retrieval",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(school) == "" {
				return errors.New("--school is required")
			}
			text, err := readSource(args[0])
			if err != nil {
				return fmt.Errorf("read rules: %w", err)
			}
			el, err := a.retrieval()
			if err != nil {
				return err
			}
			n, err := el.Ingest(cmd.Context(), strings.TrimSpace(school), text)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "indexed %d chunks for %s into %s\n", n, school, el.Index())
			return nil
		},
	}
	cmd.Flags().StringVarP(&school, "school", "s", "", "institution id the rules belong to")
	return cmd
}
