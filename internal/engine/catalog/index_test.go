package catalog

import (
	"strings"
	"testing"

	"winfeatures/internal/core/errors"
	"winfeatures/internal/engine/diagnostics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `{
  "namespace_map": [
    "Windows.Win32.Devices.Display",
    "Windows.Win32.UI.WindowsAndMessaging",
    "Windows.Win32.UI.WindowsAndMessagingEx",
    "Windows.Real.Namespace",
    "Windows.Win32.UI.WindowsAndMessaging.Nested"
  ],
  "feature_map": [
    "Win32_Devices_Display",
    "Win32_UI_WindowsAndMessaging",
    "Win32_Foundation",
    "X",
    "Nested_Feature",
    "Ex_Feature"
  ],
  "namespaces": {
    "0": [
      {"name": "DisplayConfigGetDeviceInfo", "features": [0]},
      {"name": "NoFeatures"}
    ],
    "1": [
      {"name": "CreateWindowExW", "features": [1, 2]},
      {"name": "MessageBoxW", "features": [1]},
      {"name": "Broken", "features": [99]}
    ],
    "2": [
      {"name": "Unrelated", "features": [5]}
    ],
    "3": [
      {"name": "Foo", "features": [3]}
    ],
    "4": [
      {"name": "Deep", "features": [4]}
    ],
    "17": [
      {"name": "Lost", "features": [0]}
    ],
    "abc": [
      {"name": "AlsoLost", "features": [0]}
    ]
  }
}`

func buildSample(t *testing.T) (*Index, *diagnostics.Log) {
	t.Helper()
	cat, err := Decode(strings.NewReader(sampleCatalog))
	require.NoError(t, err)
	log := diagnostics.NewLog(nil)
	return Build(cat, log), log
}

func TestBuild_SkipsBadIndexes(t *testing.T) {
	idx, log := buildSample(t)

	assert.Equal(t, 2, log.Count(diagnostics.KindNamespaceIndex))
	assert.Equal(t, 1, log.Count(diagnostics.KindFeatureIndex))

	_, ok := idx.Exact("Windows.Win32.UI.WindowsAndMessaging.Broken")
	assert.False(t, ok, "entry with only invalid feature indexes should behave as missing")
	_, ok = idx.Exact("Windows.Win32.Devices.Display.NoFeatures")
	assert.False(t, ok, "entry without features should behave as missing")

	assert.Equal(t, []string{
		"Windows.Real.Namespace.Foo",
		"Windows.Win32.Devices.Display.DisplayConfigGetDeviceInfo",
		"Windows.Win32.UI.WindowsAndMessaging.CreateWindowExW",
		"Windows.Win32.UI.WindowsAndMessaging.MessageBoxW",
		"Windows.Win32.UI.WindowsAndMessaging.Nested.Deep",
		"Windows.Win32.UI.WindowsAndMessagingEx.Unrelated",
	}, idx.Keys())
}

func TestIndex_Exact(t *testing.T) {
	idx, _ := buildSample(t)

	set, ok := idx.Exact("Windows.Win32.UI.WindowsAndMessaging.CreateWindowExW")
	require.True(t, ok)
	assert.Equal(t, []string{"Win32_Foundation", "Win32_UI_WindowsAndMessaging"}, set.Sorted())

	set.Add("Mutated")
	again, _ := idx.Exact("Windows.Win32.UI.WindowsAndMessaging.CreateWindowExW")
	assert.False(t, again.Contains("Mutated"), "index must not be mutated through returned sets")
}

func TestIndex_ByNamespacePrefix_SegmentBoundary(t *testing.T) {
	idx, _ := buildSample(t)

	got := idx.ByNamespacePrefix("Windows.Win32.UI.WindowsAndMessaging")
	assert.Equal(t, []string{"Nested_Feature", "Win32_Foundation", "Win32_UI_WindowsAndMessaging"}, got.Sorted())
	assert.False(t, got.Contains("Ex_Feature"))

	assert.Empty(t, idx.ByNamespacePrefix("Windows.Win32.UI.WindowsAndMess"))
	assert.Empty(t, idx.ByNamespacePrefix(""))
}

func TestIndex_ByItemName(t *testing.T) {
	idx, _ := buildSample(t)

	m, ok := idx.ByItemName("foo", true)
	require.True(t, ok)
	assert.Equal(t, "Windows.Real.Namespace.Foo", m.Key)
	assert.Equal(t, []string{"X"}, m.Features.Sorted())

	_, ok = idx.ByItemName("foo", false)
	assert.False(t, ok)

	m, ok = idx.ByItemName("Foo", false)
	require.True(t, ok)
	assert.Equal(t, 1, m.Candidates)

	_, ok = idx.ByItemName("Missing", true)
	assert.False(t, ok)
}

func TestIndex_ByItemName_TieBreak(t *testing.T) {
	cat := &Catalog{
		NamespaceMap: []string{"Windows.B", "Windows.A", "Windows.C"},
		FeatureMap:   []string{"FB", "FA", "FC"},
		Namespaces: map[string][]Entry{
			"0": {{Name: "Shared", Features: []int{0}}},
			"1": {{Name: "shared", Features: []int{1}}},
			"2": {{Name: "Shared", Features: []int{2}}},
		},
	}
	idx := Build(cat, nil)

	for i := 0; i < 5; i++ {
		m, ok := idx.ByItemName("Shared", true)
		require.True(t, ok)
		assert.Equal(t, "Windows.B.Shared", m.Key, "exact-case candidates win, then lexicographic order")
		assert.Equal(t, 3, m.Candidates)
	}

	m, ok := idx.ByItemName("SHARED", true)
	require.True(t, ok)
	assert.Equal(t, "Windows.A.shared", m.Key)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode(strings.NewReader("{not json"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))

	_, err = DecodeBytes([]byte(`{}`))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))
}

func TestFeatureSet(t *testing.T) {
	a := NewFeatureSet("b", "a", "b")
	assert.Len(t, a, 2)
	a.Union(NewFeatureSet("c"))
	assert.Equal(t, []string{"a", "b", "c"}, a.Sorted())
}
