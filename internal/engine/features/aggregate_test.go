package features

import (
	"testing"

	"winfeatures/internal/engine/catalog"
	"winfeatures/internal/engine/diagnostics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		NamespaceMap: []string{
			"Windows.Win32.Devices.Display",
			"Windows.Win32.UI.WindowsAndMessaging",
			"Windows.Real.Namespace",
		},
		FeatureMap: []string{"Win32_Devices_Display", "Win32_UI_WindowsAndMessaging", "X", "Win32_Foundation"},
		Namespaces: map[string][]catalog.Entry{
			"0": {{Name: "DisplayConfigGetDeviceInfo", Features: []int{0, 3}}},
			"1": {
				{Name: "CreateWindowExW", Features: []int{1}},
				{Name: "MessageBoxW", Features: []int{1}},
			},
			"2": {{Name: "Foo", Features: []int{2}}},
			"9": {{Name: "OutOfRange", Features: []int{0}}},
		},
	}
}

var mixedImports = []string{
	"use windows::Win32::Devices::Display::DisplayConfigGetDeviceInfo;",
	"windows::Win32::UI::WindowsAndMessaging::*;",
	"windows::Wrong::Namespace::Foo;",
	"windows::Win32::Foundation::Missing;",
	"windows::Win32;",
}

func TestResolveAll(t *testing.T) {
	res := ResolveAll(mixedImports, testCatalog(), Options{})

	assert.Equal(t, []string{"Win32_Devices_Display", "Win32_Foundation", "Win32_UI_WindowsAndMessaging", "X"}, res.Features)
	assert.Equal(t, 5, res.Imports)
	assert.Equal(t, 1, res.Unparsed)
	assert.NotEmpty(t, res.RunID)

	kinds := make([]diagnostics.Kind, 0, len(res.Diagnostics))
	for _, d := range res.Diagnostics {
		kinds = append(kinds, d.Kind)
	}
	assert.Equal(t, []diagnostics.Kind{
		diagnostics.KindNamespaceIndex,
		diagnostics.KindCorrected,
		diagnostics.KindItemNotFound,
		diagnostics.KindUnparseable,
	}, kinds)
}

func TestResolveAll_Idempotent(t *testing.T) {
	once := ResolveAll(mixedImports[:1], testCatalog(), Options{})
	twice := ResolveAll([]string{mixedImports[0], mixedImports[0]}, testCatalog(), Options{})
	assert.Equal(t, once.Features, twice.Features)
}

func TestResolveAll_OrderIndependent(t *testing.T) {
	forward := ResolveAll(mixedImports, testCatalog(), Options{})

	reversed := make([]string, len(mixedImports))
	for i, raw := range mixedImports {
		reversed[len(mixedImports)-1-i] = raw
	}
	backward := ResolveAll(reversed, testCatalog(), Options{})

	assert.Equal(t, forward.Features, backward.Features)
	assert.ElementsMatch(t, forward.Diagnostics, backward.Diagnostics)
}

func TestResolveAll_MissDoesNotStopLaterImports(t *testing.T) {
	res := ResolveAll([]string{
		"windows::Nowhere::Ghost;",
		"windows::Win32;",
		"windows::Real::Namespace::Foo;",
	}, testCatalog(), Options{})

	assert.Equal(t, []string{"X"}, res.Features)
}

func TestResolveAll_Empty(t *testing.T) {
	res := ResolveAll(nil, testCatalog(), Options{})
	assert.Empty(t, res.Features)
	assert.Equal(t, 0, res.Imports)
}

func TestAggregator_ReusesIndex(t *testing.T) {
	index := catalog.Build(testCatalog(), nil)
	agg := NewAggregator(index, Options{RootLabel: "Windows"})

	first := agg.Run([]string{"windows::Win32::UI::WindowsAndMessaging::MessageBoxW"})
	second := agg.Run([]string{"windows::Win32::Devices::Display::DisplayConfigGetDeviceInfo"})

	require.Empty(t, first.Diagnostics)
	assert.Equal(t, []string{"Win32_UI_WindowsAndMessaging"}, first.Features)
	assert.Equal(t, []string{"Win32_Devices_Display", "Win32_Foundation"}, second.Features)
	assert.NotEqual(t, first.RunID, second.RunID)
}
