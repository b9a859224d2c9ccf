package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-docfmt/internal/logger"
	"github.com/goliatone/go-docfmt/pkg/cascade"
	"github.com/goliatone/go-docfmt/pkg/dsl"
	"github.com/goliatone/go-docfmt/pkg/extract"
	"github.com/goliatone/go-docfmt/pkg/preset"
	"github.com/goliatone/go-docfmt/pkg/render"
	"github.com/goliatone/go-docfmt/pkg/renderers/docx"
	"github.com/goliatone/go-docfmt/pkg/renderers/preview"
	"github.com/goliatone/go-docfmt/pkg/retrieval"
	"github.com/goliatone/go-docfmt/pkg/style"
)

const defaultRendererName = docx.Name

// FilenamePrefix starts every download filename.
const FilenamePrefix = "Paper"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithPresets injects the institution preset store.
func WithPresets(store preset.Store) Option {
	return func(o *Orchestrator) {
		o.presets = store
	}
}

// WithResolver injects the style cascade.
func WithResolver(resolver *cascade.Resolver) Option {
	return func(o *Orchestrator) {
		o.resolver = resolver
	}
}

// WithExtractor injects the hints and content extractor.
func WithExtractor(extractor extract.Extractor) Option {
	return func(o *Orchestrator) {
		o.extractor = extractor
	}
}

// WithRetriever injects the rule context source.
func WithRetriever(retriever retrieval.Retriever) Option {
	return func(o *Orchestrator) {
		o.retriever = retriever
	}
}

// WithIngester enables storing uploaded rule text before retrieval.
func WithIngester(ingester retrieval.Ingester) Option {
	return func(o *Orchestrator) {
		o.ingester = ingester
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformer registers a Transformer applied to extracted blocks.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

func WithLogger(l logger.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger.OrNop(l)
	}
}

// Orchestrator coordinates the pipeline from draft and rules to a rendered
// artifact. Missing collaborators fall back to offline defaults: embedded
// presets, the heuristic extractor, no retrieval and the docx and html
// renderers.
type Orchestrator struct {
	presets         preset.Store
	resolver        *cascade.Resolver
	extractor       extract.Extractor
	retriever       retrieval.Retriever
	ingester        retrieval.Ingester
	registry        *render.Registry
	defaultRenderer string
	transformer     Transformer
	logger          logger.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

func (o *Orchestrator) applyDefaults() {
	if o.logger == nil {
		o.logger = logger.NewNop()
	}
	if o.presets == nil {
		o.presets = preset.Embedded(preset.WithLogger(o.logger))
	}
	if o.resolver == nil {
		o.resolver = cascade.New(cascade.WithLogger(o.logger))
	}
	if o.extractor == nil {
		o.extractor = extract.Heuristic{}
	}
	if o.retriever == nil {
		o.retriever = retrieval.Nop{}
	}
	if o.registry == nil {
		o.registry, o.initialiseErr = defaultRegistry(o.logger)
	}
}

func defaultRegistry(l logger.Logger) (*render.Registry, error) {
	docxRenderer, err := docx.New(docx.WithLogger(l))
	if err != nil {
		return nil, fmt.Errorf("orchestrator: init docx renderer: %w", err)
	}
	htmlRenderer, err := preview.New()
	if err != nil {
		return nil, fmt.Errorf("orchestrator: init preview renderer: %w", err)
	}
	return render.NewRegistry(docxRenderer, htmlRenderer)
}

// Request describes one generation job.
type Request struct {
	// Draft is the unformatted paper text. Required for Build and Generate.
	Draft string

	// RulesText is an optional institution rule document. When present it is
	// ingested (if an ingester is configured) and forces retrieval.
	RulesText string

	// InstitutionID selects the preset and scopes retrieval.
	InstitutionID string

	// Instruction is free-text user guidance extracted into the user tier.
	Instruction string

	// Override is a structured user tier laid over the extracted instruction.
	Override style.PartialCatalog

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// TaskID identifies the job in metadata. A random UUID is used when empty.
	TaskID string

	// Meta carries extra document metadata such as a title.
	Meta map[string]string
}

// Stage names a pipeline step that degraded instead of failing the request.
type Stage string

const (
	StageIngest      Stage = "ingest"
	StageRetrieval   Stage = "retrieval"
	StageHints       Stage = "hints"
	StageInstruction Stage = "instruction"
	StageContent     Stage = "content"
)

// Result is a rendered artifact plus the document it came from.
type Result struct {
	DSL         dsl.Document
	Output      []byte
	ContentType string
	Filename    string
	Renderer    string
	// Degraded lists stages that fell back without failing the request.
	Degraded []Stage
}

// Tiers are the three caller-side cascade inputs gathered for a request.
type Tiers struct {
	Preset      style.PartialCatalog
	PresetFound bool
	Hints       style.PartialCatalog
	User        style.PartialCatalog
	RuleContext string
	Degraded    []Stage
}

// Generate runs the full pipeline and returns the rendered artifact.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Result, error) {
	renderer, err := o.prepare(ctx, req.Renderer)
	if err != nil {
		return Result{}, err
	}

	doc, degraded, err := o.build(ctx, req, renderer.Name())
	if err != nil {
		return Result{}, err
	}

	result, err := o.render(ctx, renderer, doc)
	if err != nil {
		return Result{}, err
	}
	result.Degraded = degraded
	return result, nil
}

// Build runs every stage up to the assembled document without rendering.
func (o *Orchestrator) Build(ctx context.Context, req Request) (dsl.Document, error) {
	renderer, err := o.prepare(ctx, req.Renderer)
	if err != nil {
		return dsl.Document{}, err
	}
	doc, _, err := o.build(ctx, req, renderer.Name())
	return doc, err
}

// Render renders a prebuilt document with the named renderer.
func (o *Orchestrator) Render(ctx context.Context, doc dsl.Document, rendererName string) (Result, error) {
	renderer, err := o.prepare(ctx, rendererName)
	if err != nil {
		return Result{}, err
	}
	return o.render(ctx, renderer, doc)
}

// Resolve runs the style half of the pipeline and returns the validated
// catalog. The draft is not consulted.
func (o *Orchestrator) Resolve(ctx context.Context, req Request) (style.Catalog, error) {
	if err := o.ready(ctx); err != nil {
		return style.Catalog{}, err
	}
	tiers, err := o.Tiers(ctx, req)
	if err != nil {
		return style.Catalog{}, err
	}
	return o.resolve(tiers)
}

// Tiers gathers the preset, hints and user tiers for req.
func (o *Orchestrator) Tiers(ctx context.Context, req Request) (Tiers, error) {
	var tiers Tiers
	institution := strings.TrimSpace(req.InstitutionID)
	log := o.logger.With(logger.String("institution", institution))

	if institution != "" {
		tiers.Preset, tiers.PresetFound = o.presets.Lookup(ctx, institution)
	}
	if err := ctx.Err(); err != nil {
		return Tiers{}, err
	}

	rules := strings.TrimSpace(req.RulesText)
	if rules != "" && o.ingester != nil && institution != "" {
		n, err := o.ingester.Ingest(ctx, institution, rules)
		if err != nil {
			log.Warn("rule ingestion failed", logger.Error(err))
			tiers.Degraded = append(tiers.Degraded, StageIngest)
		} else {
			log.Debug("rule document ingested", logger.Int("chunks", n))
		}
	}

	if rules != "" || !tiers.PresetFound {
		tiers.RuleContext = o.ruleContext(ctx, log, institution, rules, &tiers.Degraded)
	}
	if err := ctx.Err(); err != nil {
		return Tiers{}, err
	}

	hints := o.extractor.StyleHints(ctx, tiers.RuleContext, "")
	if hints.Degraded() {
		tiers.Degraded = append(tiers.Degraded, StageHints)
	}
	tiers.Hints = hints.Hints

	user := style.PartialCatalog{}
	if strings.TrimSpace(req.Instruction) != "" {
		extracted := o.extractor.StyleHints(ctx, "", req.Instruction)
		if extracted.Degraded() {
			tiers.Degraded = append(tiers.Degraded, StageInstruction)
		}
		user = extracted.Hints
	}
	tiers.User = user.Merge(req.Override)

	if err := ctx.Err(); err != nil {
		return Tiers{}, err
	}
	return tiers, nil
}

func (o *Orchestrator) ruleContext(ctx context.Context, log logger.Logger, institution, rules string, degraded *[]Stage) string {
	var found string
	if institution != "" {
		text, err := o.retriever.Search(ctx, retrieval.DefaultQuery, institution)
		if err != nil {
			log.Warn("rule retrieval failed", logger.Error(err))
			*degraded = append(*degraded, StageRetrieval)
		}
		found = strings.TrimSpace(text)
	}
	if found == "" {
		return rules
	}
	return found
}

func (o *Orchestrator) resolve(tiers Tiers) (style.Catalog, error) {
	catalog, err := o.resolver.Resolve(tiers.User, tiers.Hints, tiers.Preset)
	if err != nil {
		return style.Catalog{}, fmt.Errorf("orchestrator: resolve styles: %w", err)
	}
	return catalog, nil
}

func (o *Orchestrator) build(ctx context.Context, req Request, rendererName string) (dsl.Document, []Stage, error) {
	if strings.TrimSpace(req.Draft) == "" {
		return dsl.Document{}, nil, errors.New("orchestrator: draft is required")
	}

	tiers, err := o.Tiers(ctx, req)
	if err != nil {
		return dsl.Document{}, nil, err
	}
	catalog, err := o.resolve(tiers)
	if err != nil {
		return dsl.Document{}, nil, err
	}

	extracted := o.extractor.ContentBlocks(ctx, req.Draft)
	degraded := tiers.Degraded
	if extracted.Fallback {
		degraded = append(degraded, StageContent)
	}
	if err := ctx.Err(); err != nil {
		return dsl.Document{}, nil, err
	}

	blocks := extracted.Blocks
	if o.transformer != nil {
		if blocks, err = o.transformer.Transform(ctx, blocks); err != nil {
			return dsl.Document{}, nil, fmt.Errorf("orchestrator: transform blocks: %w", err)
		}
	}

	meta := make(map[string]string, len(req.Meta)+3)
	for k, v := range req.Meta {
		meta[k] = v
	}
	taskID := strings.TrimSpace(req.TaskID)
	if taskID == "" {
		taskID = uuid.NewString()
	}
	meta[dsl.MetaTaskID] = taskID
	meta[dsl.MetaInstitution] = strings.TrimSpace(req.InstitutionID)
	meta[dsl.MetaRenderer] = rendererName

	doc, err := dsl.New(meta, catalog, blocks)
	if err != nil {
		return dsl.Document{}, nil, fmt.Errorf("orchestrator: build document: %w", err)
	}

	o.logger.Info("document assembled",
		logger.String("task_id", taskID),
		logger.String("institution", meta[dsl.MetaInstitution]),
		logger.Bool("preset", tiers.PresetFound),
		logger.Int("blocks", doc.Len()),
		logger.Any("degraded", degraded),
	)
	return doc, degraded, nil
}

func (o *Orchestrator) render(ctx context.Context, renderer render.Renderer, doc dsl.Document) (Result, error) {
	output, err := renderer.Render(ctx, doc)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return Result{
		DSL:         doc,
		Output:      output,
		ContentType: renderer.ContentType(),
		Filename:    Filename(doc.MetaValue(dsl.MetaInstitution), renderer.Extension()),
		Renderer:    renderer.Name(),
	}, nil
}

// Filename builds the download name Paper_<institution>.<ext>.
func Filename(institution, ext string) string {
	name := FilenamePrefix
	if id := preset.SanitizeID(institution); id != "" {
		name += "_" + id
	}
	if ext = strings.TrimPrefix(ext, "."); ext != "" {
		name += "." + ext
	}
	return name
}

func (o *Orchestrator) prepare(ctx context.Context, name string) (render.Renderer, error) {
	if err := o.ready(ctx); err != nil {
		return nil, err
	}
	return o.rendererFor(name)
}

func (o *Orchestrator) ready(ctx context.Context) error {
	if ctx == nil {
		return errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return o.initialiseErr
}

// Renderers lists the registered renderer names.
func (o *Orchestrator) Renderers() []string {
	if o.registry == nil {
		return nil
	}
	return o.registry.List()
}

// Presets exposes the configured preset store.
func (o *Orchestrator) Presets() preset.Store {
	return o.presets
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}
