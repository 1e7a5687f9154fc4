package scanner

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSource = `use std::collections::HashMap;
use windows::Win32::Foundation::HWND;
use windows::{
    core::PCWSTR,
    Win32::UI::{WindowsAndMessaging::*, Shell::ShellExecuteW as Exec},
    Win32::System::{self, Com::CoInitializeEx},
};
pub use ::windows::Win32::Graphics::Gdi::HDC;

fn main() {
    use windows::Win32::System::Threading::Sleep;
}
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func raws(imports []Import) []string {
	out := make([]string, 0, len(imports))
	for _, imp := range imports {
		out = append(out, imp.Raw)
	}
	return out
}

func TestExtract_ExpandsUseTrees(t *testing.T) {
	e := NewExtractor("windows")
	found, err := e.Extract("main.rs", []byte(sampleSource))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"windows::Win32::Foundation::HWND",
		"windows::core::PCWSTR",
		"windows::Win32::UI::WindowsAndMessaging::*",
		"windows::Win32::UI::Shell::ShellExecuteW",
		"windows::Win32::System::Com::CoInitializeEx",
		"windows::Win32::Graphics::Gdi::HDC",
		"windows::Win32::System::Threading::Sleep",
	}, raws(found))

	assert.Equal(t, 2, found[0].Line)
	assert.Equal(t, 3, found[1].Line)
	assert.Equal(t, "main.rs", found[0].File)
}

func TestExtract_OtherCrate(t *testing.T) {
	e := NewExtractor("windows_sys")
	found, err := e.Extract("lib.rs", []byte("use windows_sys::Win32::Foundation::BOOL;\nuse windows::A::B;\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"windows_sys::Win32::Foundation::BOOL"}, raws(found))
}

func TestExpandStatement(t *testing.T) {
	e := NewExtractor("")

	assert.Equal(t, []string{
		"windows::Win32::Foundation::HWND",
		"windows::Win32::Foundation::RECT",
	}, e.ExpandStatement("use windows::Win32::Foundation::{HWND, RECT};"))
	assert.Equal(t, []string{"windows::Win32::UI::*"}, e.ExpandStatement("windows::Win32::UI::*"))
	assert.Empty(t, e.ExpandStatement("use std::io;"))
	assert.Empty(t, e.ExpandStatement("   "))
}

func TestSplitSearchLine(t *testing.T) {
	tests := []struct {
		line     string
		wantFile string
		wantText string
		wantOK   bool
	}{
		{"src/main.rs:use windows::Win32::Foundation::HWND;", "src/main.rs", "use windows::Win32::Foundation::HWND;", true},
		{"src/main.rs:12:use windows::A::B;", "src/main.rs", "use windows::A::B;", true},
		{"use windows::A::B;", "", "use windows::A::B;", false},
		{"windows::A::B", "", "windows::A::B", false},
		{":oops", "", ":oops", false},
	}
	for _, tt := range tests {
		file, text, ok := SplitSearchLine(tt.line)
		assert.Equal(t, tt.wantOK, ok, tt.line)
		assert.Equal(t, tt.wantFile, file, tt.line)
		assert.Equal(t, tt.wantText, text, tt.line)
	}
}

func TestDedup(t *testing.T) {
	got := Dedup([]Import{{Raw: "b"}, {Raw: "a"}, {Raw: "b"}})
	assert.Equal(t, []string{"b", "a"}, got)
}

func TestScanDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "main.rs"), "use windows::Win32::Foundation::HWND;\n")
	writeFile(t, filepath.Join(root, "src", "gen.rs"), "use windows::Skipped::ByName;\n")
	writeFile(t, filepath.Join(root, "target", "debug", "build.rs"), "use windows::Skipped::ByDir;\n")
	writeFile(t, filepath.Join(root, "README.md"), "use windows::Not::Rust;\n")

	s, err := New(Options{
		Crate:        "windows",
		ExcludeDirs:  []string{"target", ".git"},
		ExcludeFiles: []string{"gen*.rs"},
	})
	require.NoError(t, err)

	found, err := s.ScanDirectories([]string{root})
	require.NoError(t, err)
	assert.Equal(t, []string{"windows::Win32::Foundation::HWND"}, raws(found))
	assert.Equal(t, filepath.Join(root, "src", "main.rs"), found[0].File)

	assert.True(t, s.Accepts(filepath.Join(root, "src", "lib.rs")))
	assert.False(t, s.Accepts(filepath.Join(root, "target", "x.rs")))
	assert.False(t, s.Accepts(filepath.Join(root, "src", "gen_bindings.rs")))
}

func TestScanDirectories_MissingRoot(t *testing.T) {
	s, err := New(Options{})
	require.NoError(t, err)
	_, err = s.ScanDirectories([]string{filepath.Join(t.TempDir(), "nope")})
	assert.Error(t, err)
}

func TestNew_InvalidGlob(t *testing.T) {
	_, err := New(Options{ExcludeDirs: []string{"[unterminated"}})
	assert.Error(t, err)
}

func TestScanFile_UsesCacheUntilFileChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.rs")
	writeFile(t, path, "use windows::A::First;\n")

	cache, err := NewCache(8)
	require.NoError(t, err)
	s, err := New(Options{Cache: cache})
	require.NoError(t, err)

	first, err := s.ScanFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"windows::A::First"}, raws(first))
	assert.Equal(t, 1, cache.Len())

	again, err := s.ScanFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	writeFile(t, path, "use windows::B::Second;\n")
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	changed, err := s.ScanFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"windows::B::Second"}, raws(changed))
}
