package cascade

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-docfmt/internal/logger"
	"github.com/goliatone/go-docfmt/pkg/style"
	"github.com/goliatone/go-docfmt/pkg/testsupport"
)

func TestResolveWithoutTiersReturnsDefaults(t *testing.T) {
	got, err := New().Resolve(nil, nil, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if diff := cmp.Diff(style.DefaultCatalog(), got); diff != "" {
		t.Fatalf("default-only mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveEmptyTiersAreMissingTiers(t *testing.T) {
	got, err := New().Resolve(style.PartialCatalog{}, style.PartialCatalog{}, style.PartialCatalog{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if diff := cmp.Diff(style.DefaultCatalog(), got); diff != "" {
		t.Fatalf("empty tiers changed defaults (-want +got):\n%s", diff)
	}
}

func TestResolvePriorityUserOverHintsOverPreset(t *testing.T) {
	preset := style.PartialCatalog{style.KeyHeading1: {Size: style.NumberValue(14)}}
	hints := style.PartialCatalog{style.KeyHeading1: {Size: style.NumberValue(18)}}
	user := style.PartialCatalog{style.KeyHeading1: {Size: style.NumberValue(20)}}

	cases := []struct {
		name                string
		user, hints, preset style.PartialCatalog
		want                float64
	}{
		{"all tiers", user, hints, preset, 20},
		{"hints beat preset", nil, hints, preset, 18},
		{"preset beats default", nil, nil, preset, 14},
		{"user beats preset", user, nil, preset, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := New().Resolve(tc.user, tc.hints, tc.preset)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if *got.Heading1.Size != tc.want {
				t.Fatalf("heading_1 size = %v, want %v", *got.Heading1.Size, tc.want)
			}
		})
	}
}

func TestResolvePresetOverridesSingleField(t *testing.T) {
	preset := style.PartialCatalog{style.KeyHeading1: {Family: style.StringValue("KaiTi")}}

	got, err := New().Resolve(nil, nil, preset)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := style.DefaultCatalog().Heading1
	want.Family = style.Ptr("KaiTi")
	if diff := cmp.Diff(want, got.Heading1); diff != "" {
		t.Fatalf("heading_1 mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(style.DefaultCatalog().BodyText, got.BodyText); diff != "" {
		t.Fatalf("untouched entry changed (-want +got):\n%s", diff)
	}
}

func TestResolveNormalizesAlignment(t *testing.T) {
	hints := style.PartialCatalog{
		style.KeyBodyText: {Align: style.StringValue("center")},
		style.KeyCaption:  {Align: style.StringValue("Right")},
	}
	got, err := New().Resolve(nil, hints, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if *got.BodyText.Align != style.AlignCenter || *got.Caption.Align != style.AlignRight {
		t.Fatalf("alignments not normalized: %q %q", *got.BodyText.Align, *got.Caption.Align)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	tier := style.PartialCatalog{style.KeyHeading2: {Bold: style.BoolValue(false), Align: style.StringValue("justify")}}
	r := New()

	once, err := r.Resolve(tier, nil, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	twice, err := r.Resolve(tier, tier, tier)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("repeating a tier changed the result (-once +twice):\n%s", diff)
	}
}

func TestResolveNullNeverOverwrites(t *testing.T) {
	user, _, err := style.ParseJSON([]byte(`{"heading_1":{"size":null,"bold":null}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got, err := New().Resolve(user, nil, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if diff := cmp.Diff(style.DefaultCatalog(), got); diff != "" {
		t.Fatalf("null overwrote defaults (-want +got):\n%s", diff)
	}
}

func TestResolveValidationFailureIsFatal(t *testing.T) {
	hints := style.PartialCatalog{style.KeyHeading2: {Size: style.StringValue("large")}}
	_, err := New().Resolve(nil, hints, nil)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var verr *style.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *style.ValidationError in chain, got %v", err)
	}
	if verr.Key != style.KeyHeading2 || verr.Field != "size" {
		t.Fatalf("unexpected failure location %s.%s", verr.Key, verr.Field)
	}
}

func TestResolveLogsAndIgnoresUnknownKeys(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := New(WithLogger(logger.FromZap(zap.New(core))))

	user := style.PartialCatalog{"footnote": {Size: style.NumberValue(8)}}
	got, err := r.Resolve(user, nil, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if diff := cmp.Diff(style.DefaultCatalog(), got); diff != "" {
		t.Fatalf("unknown key leaked (-want +got):\n%s", diff)
	}
	if logs.FilterMessage("ignoring keys outside the style catalog").Len() != 1 {
		t.Fatalf("expected one warning, got %v", logs.All())
	}
}

func TestWithDefaultsReplacesBottomTier(t *testing.T) {
	custom := style.Catalog{GlobalDefault: style.FontStyle{Family: style.Ptr("Arial")}}
	got, err := New(WithDefaults(custom)).Resolve(nil, nil, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if diff := cmp.Diff(custom, got); diff != "" {
		t.Fatalf("custom defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestResolvedCatalogGolden(t *testing.T) {
	preset := style.PartialCatalog{
		style.KeyHeading1: {Size: style.NumberValue(18), SpaceBefore: style.NumberValue(24)},
	}
	got, err := New().Resolve(nil, nil, preset)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	testsupport.AssertJSONGolden(t, "testdata/resolved_catalog.golden.json", got)
}
