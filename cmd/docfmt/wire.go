package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	es "github.com/elastic/go-elasticsearch/v8"

	"github.com/goliatone/go-docfmt/internal/config"
	"github.com/goliatone/go-docfmt/internal/llm"
	"github.com/goliatone/go-docfmt/internal/logger"
	"github.com/goliatone/go-docfmt/pkg/extract"
	"github.com/goliatone/go-docfmt/pkg/orchestrator"
	"github.com/goliatone/go-docfmt/pkg/preset"
	"github.com/goliatone/go-docfmt/pkg/render"
	"github.com/goliatone/go-docfmt/pkg/renderers/docx"
	"github.com/goliatone/go-docfmt/pkg/renderers/preview"
	"github.com/goliatone/go-docfmt/pkg/retrieval"
)

// app carries global flags and the collaborators built from configuration.
type app struct {
	configPath string
	logLevel   string

	stdout io.Writer
	stderr io.Writer

	cfg     *config.Config
	log     logger.Logger
	elastic *retrieval.Elastic
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr, log: logger.NewNop()}
}

// setup loads configuration and builds the logger. The --config flag wins
// over DOCFMT_CONFIG.
func (a *app) setup() error {
	path := a.configPath
	if path == "" {
		path = config.Path("")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if level := strings.TrimSpace(a.logLevel); level != "" {
		cfg.Logging.Level = level
	}
	log, err := logger.New(cfg.Logging)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	return nil
}

func (a *app) close() {
	_ = a.log.Sync()
}

func (a *app) presets() preset.Store {
	var chain preset.Chain
	if dir := strings.TrimSpace(a.cfg.Presets.Dir); dir != "" {
		chain = append(chain, preset.NewDirStore(dir, preset.WithLogger(a.log)))
	}
	if !a.cfg.Presets.DisableEmbedded {
		chain = append(chain, preset.Embedded(preset.WithLogger(a.log)))
	}
	return chain
}

func (a *app) renderers() (*render.Registry, error) {
	docxRenderer, err := docx.New(docx.WithLogger(a.log))
	if err != nil {
		return nil, fmt.Errorf("init docx renderer: %w", err)
	}
	opts := []preview.Option{preview.WithLang(a.cfg.Render.Lang)}
	if dir := strings.TrimSpace(a.cfg.Render.TemplatesDir); dir != "" {
		opts = append(opts, preview.WithTemplatesDir(dir))
	}
	htmlRenderer, err := preview.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("init preview renderer: %w", err)
	}
	return render.NewRegistry(docxRenderer, htmlRenderer)
}

// extractor talks to the configured model, or falls back to the offline
// heuristic when no API key is set.
func (a *app) extractor() (extract.Extractor, error) {
	if !a.cfg.LLM.Enabled() {
		a.log.Info("no LLM API key configured, using heuristic extraction")
		return extract.Heuristic{}, nil
	}
	client, err := llm.New(a.cfg.LLM)
	if err != nil {
		return nil, err
	}
	a.log.Info("LLM extraction enabled", logger.String("model", client.Model()))
	return extract.NewService(client, extract.WithServiceLogger(a.log))
}

func (a *app) retrieval() (*retrieval.Elastic, error) {
	if a.elastic != nil {
		return a.elastic, nil
	}
	esCfg := a.cfg.Elasticsearch
	if !esCfg.Enabled() {
		return nil, errors.New("elasticsearch is not configured (set elasticsearch.addresses or ELASTICSEARCH_ADDRESSES)")
	}
	client, err := es.NewClient(es.Config{
		Addresses: esCfg.Addresses,
		Username:  esCfg.Username,
		Password:  esCfg.Password,
		APIKey:    esCfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	el, err := retrieval.NewElastic(client,
		retrieval.WithIndex(esCfg.Index),
		retrieval.WithTopK(esCfg.TopK),
		retrieval.WithChunkSize(esCfg.ChunkSize),
		retrieval.WithLogger(a.log),
	)
	if err != nil {
		return nil, err
	}
	a.elastic = el
	return el, nil
}

func (a *app) orchestrator() (*orchestrator.Orchestrator, error) {
	registry, err := a.renderers()
	if err != nil {
		return nil, err
	}
	extractor, err := a.extractor()
	if err != nil {
		return nil, err
	}
	opts := []orchestrator.Option{
		orchestrator.WithLogger(a.log),
		orchestrator.WithPresets(a.presets()),
		orchestrator.WithExtractor(extractor),
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer(a.cfg.Render.DefaultRenderer),
	}
	if a.cfg.Elasticsearch.Enabled() {
		el, err := a.retrieval()
		if err != nil {
			return nil, err
		}
		opts = append(opts, orchestrator.WithRetriever(el))
		if a.cfg.Elasticsearch.Ingest {
			opts = append(opts, orchestrator.WithIngester(el))
		}
	}
	return orchestrator.New(opts...), nil
}
