package resolver

import (
	"testing"

	"winfeatures/internal/engine/catalog"
	"winfeatures/internal/engine/diagnostics"
	"winfeatures/internal/engine/imports"
	"winfeatures/internal/shared/observability"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIndex() *catalog.Index {
	cat := &catalog.Catalog{
		NamespaceMap: []string{
			"Windows.Win32.Devices.Display",
			"Windows.Win32.UI.WindowsAndMessaging",
			"Windows.Real.Namespace",
			"Windows.Other.Namespace",
		},
		FeatureMap: []string{"Win32_Devices_Display", "Win32_UI_WindowsAndMessaging", "X", "Y"},
		Namespaces: map[string][]catalog.Entry{
			"0": {{Name: "DisplayConfigGetDeviceInfo", Features: []int{0}}},
			"1": {
				{Name: "CreateWindowExW", Features: []int{1}},
				{Name: "MessageBoxW", Features: []int{1}},
				{Name: "WNDCLASSW", Features: []int{1}},
			},
			"2": {{Name: "Foo", Features: []int{2}}},
			"3": {{Name: "Twin", Features: []int{3}}},
			"1x": {{Name: "Ignored", Features: []int{0}}},
		},
	}
	return catalog.Build(cat, nil)
}

func mustParse(t *testing.T, raw string) imports.Reference {
	t.Helper()
	ref, ok := imports.Parse(raw)
	require.True(t, ok, "parse %q", raw)
	return ref
}

func TestResolve_Exact(t *testing.T) {
	log := diagnostics.NewLog(nil)
	r := NewResolver(testIndex(), log)

	got := r.Resolve(mustParse(t, "windows::Win32::Devices::Display::DisplayConfigGetDeviceInfo;"))
	assert.Equal(t, []string{"Win32_Devices_Display"}, got.Sorted())
	assert.Empty(t, log.Entries())
}

func TestResolve_Wildcard(t *testing.T) {
	log := diagnostics.NewLog(nil)
	r := NewResolver(testIndex(), log)

	got := r.Resolve(mustParse(t, "windows::Win32::UI::WindowsAndMessaging::*;"))
	assert.Equal(t, []string{"Win32_UI_WindowsAndMessaging"}, got.Sorted())
	assert.Empty(t, log.Entries())
}

func TestResolve_WildcardEmptyNamespace(t *testing.T) {
	log := diagnostics.NewLog(nil)
	r := NewResolver(testIndex(), log)

	got := r.Resolve(mustParse(t, "windows::Win32::Nope::*;"))
	assert.Empty(t, got)
	require.Len(t, log.Entries(), 1)
	d := log.Entries()[0]
	assert.Equal(t, diagnostics.KindNamespaceEmpty, d.Kind)
	assert.Equal(t, diagnostics.SeverityWarn, d.Severity)
	assert.Contains(t, d.Message, "Windows.Win32.Nope")
}

func TestResolve_FallbackCorrection(t *testing.T) {
	log := diagnostics.NewLog(nil)
	r := NewResolver(testIndex(), log)
	before := testutil.ToFloat64(observability.ResolutionsTotal.WithLabelValues(observability.OutcomeFallback))

	got := r.Resolve(mustParse(t, "windows::Wrong::Namespace::Foo;"))
	assert.Equal(t, []string{"X"}, got.Sorted())

	require.Len(t, log.Entries(), 1)
	d := log.Entries()[0]
	assert.Equal(t, diagnostics.KindCorrected, d.Kind)
	assert.Equal(t, "Windows.Wrong.Namespace.Foo", d.Original)
	assert.Equal(t, "Windows.Real.Namespace.Foo", d.Corrected)
	assert.Contains(t, d.Message, "Windows.Wrong.Namespace")
	assert.Contains(t, d.Message, "Windows.Real.Namespace")

	after := testutil.ToFloat64(observability.ResolutionsTotal.WithLabelValues(observability.OutcomeFallback))
	assert.Equal(t, before+1, after)
}

func TestResolve_FallbackIgnoresCase(t *testing.T) {
	log := diagnostics.NewLog(nil)
	r := NewResolver(testIndex(), log)

	got := r.Resolve(mustParse(t, "windows::Win32::UI::WindowsAndMessaging::WndClassW;"))
	assert.Equal(t, []string{"Win32_UI_WindowsAndMessaging"}, got.Sorted())
	assert.Equal(t, 1, log.Count(diagnostics.KindCorrected))
}

func TestResolve_Miss(t *testing.T) {
	log := diagnostics.NewLog(nil)
	r := NewResolver(testIndex(), log)

	got := r.Resolve(mustParse(t, "windows::Win32::Foundation::DoesNotExist;"))
	assert.Empty(t, got)
	require.Len(t, log.Entries(), 1)
	assert.Equal(t, diagnostics.KindItemNotFound, log.Entries()[0].Kind)
	assert.Equal(t, "windows::Win32::Foundation::DoesNotExist;", log.Entries()[0].Import)
}

type ambiguousIndex struct{ *catalog.Index }

func (a ambiguousIndex) ByItemName(item string, caseInsensitive bool) (catalog.Match, bool) {
	m, ok := a.Index.ByItemName(item, caseInsensitive)
	if ok {
		m.Candidates = 2
	}
	return m, ok
}

func TestResolve_AmbiguousFallbackReportsInfo(t *testing.T) {
	log := diagnostics.NewLog(nil)
	r := NewResolver(ambiguousIndex{testIndex()}, log)

	got := r.Resolve(mustParse(t, "windows::Wrong::Twin;"))
	assert.Equal(t, []string{"Y"}, got.Sorted())
	assert.Equal(t, 1, log.Count(diagnostics.KindCorrected))
	assert.Equal(t, 1, log.Count(diagnostics.KindAmbiguousFallback))
}

func TestResolve_NilSink(t *testing.T) {
	r := NewResolver(testIndex(), nil)
	assert.Empty(t, r.Resolve(mustParse(t, "windows::A::Missing")))
}
