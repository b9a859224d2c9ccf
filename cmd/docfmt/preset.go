package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-docfmt/internal/prompt"
	"github.com/goliatone/go-docfmt/pkg/orchestrator"
	"github.com/goliatone/go-docfmt/pkg/style"
)

func newPresetCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Inspect and create institution presets",
	}
	cmd.AddCommand(
		newPresetListCommand(a),
		newPresetShowCommand(a),
		newPresetInitCommand(a),
	)
	return cmd
}

func newPresetListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := a.presets()
			ids, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			t := table.NewWriter()
			t.SetOutputMirror(a.stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "Entries"})
			for _, id := range ids {
				tier, ok := store.Lookup(cmd.Context(), id)
				if !ok {
					t.AppendRow(table.Row{id, "unreadable"})
					continue
				}
				t.AppendRow(table.Row{id, strings.Join(tierKeys(tier), ", ")})
			}
			t.Render()
			return nil
		},
	}
}

func newPresetShowCommand(a *app) *cobra.Command {
	var resolved bool
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Print a preset tier, or the catalog it resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			tier, ok := a.presets().Lookup(cmd.Context(), id)
			if !ok {
				return fmt.Errorf("preset %q not found", id)
			}
			var out any = tier
			if resolved {
				orch, err := a.orchestrator()
				if err != nil {
					return err
				}
				catalog, err := orch.Resolve(cmd.Context(), orchestrator.Request{InstitutionID: id})
				if err != nil {
					return err
				}
				out = catalog
			}
			enc := yaml.NewEncoder(a.stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(out)
		},
	}
	cmd.Flags().BoolVar(&resolved, "resolved", false, "print the catalog after the cascade")
	return cmd
}

func newPresetInitCommand(a *app) *cobra.Command {
	var (
		dir   string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a preset interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dir == "" {
				dir = a.cfg.Presets.Dir
			}
			if strings.TrimSpace(dir) == "" {
				return errors.New("no preset directory: pass --dir or set presets.dir")
			}

			wizard := prompt.NewWizard(prompt.NewSurvey(a.stdout), style.DefaultCatalog())
			id, tier, err := wizard.Run(cmd.Context())
			if errors.Is(err, prompt.ErrAborted) {
				fmt.Fprintln(a.stdout, "preset not saved")
				return nil
			}
			if err != nil {
				return err
			}

			path, err := savePreset(dir, id, tier, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "directory to write the preset to (default presets.dir)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing preset file")
	return cmd
}

func savePreset(dir, id string, tier style.PartialCatalog, force bool) (string, error) {
	data, err := yaml.Marshal(tier)
	if err != nil {
		return "", fmt.Errorf("encode preset: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create preset dir: %w", err)
	}
	path := filepath.Join(dir, id+".yaml")
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if errors.Is(err, os.ErrExist) {
		return "", fmt.Errorf("preset %s already exists (use --force to overwrite)", path)
	}
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return "", err
	}
	return path, f.Close()
}

func tierKeys(tier style.PartialCatalog) []string {
	var keys []string
	for _, key := range style.Keys() {
		if _, ok := tier[key]; ok {
			keys = append(keys, string(key))
		}
	}
	return keys
}
