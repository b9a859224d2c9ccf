package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-docfmt/pkg/orchestrator"
	"github.com/goliatone/go-docfmt/pkg/source"
	"github.com/goliatone/go-docfmt/pkg/style"
)

// styleFlags are the request inputs shared by generate and resolve.
type styleFlags struct {
	school      string
	rulesPath   string
	instruction string
	override    string
}

func (f *styleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.school, "school", "s", "", "institution id used for preset lookup and retrieval")
	cmd.Flags().StringVar(&f.rulesPath, "rules", "", "institution rule document (.txt, .md or .docx)")
	cmd.Flags().StringVarP(&f.instruction, "prompt", "p", "", "free-text formatting instruction")
	cmd.Flags().StringVar(&f.override, "override", "", "style override file (.json or .yaml)")
}

func (f *styleFlags) request() (orchestrator.Request, error) {
	req := orchestrator.Request{
		InstitutionID: strings.TrimSpace(f.school),
		Instruction:   f.instruction,
	}
	if f.rulesPath != "" {
		rules, err := readSource(f.rulesPath)
		if err != nil {
			return req, fmt.Errorf("read rules: %w", err)
		}
		req.RulesText = rules
	}
	if f.override != "" {
		tier, err := readOverride(f.override)
		if err != nil {
			return req, err
		}
		req.Override = tier
	}
	return req, nil
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return source.Read(filepath.Base(path), data)
}

func readOverride(path string) (style.PartialCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read override: %w", err)
	}
	var (
		tier    style.PartialCatalog
		ignored []string
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		tier, ignored, err = style.ParseJSON(data)
	default:
		tier, ignored, err = style.ParseYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse override %s: %w", path, err)
	}
	if len(ignored) > 0 {
		return nil, fmt.Errorf("override %s: unknown keys %s", path, strings.Join(ignored, ", "))
	}
	return tier, nil
}
