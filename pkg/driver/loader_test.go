package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoaderLoadsEntryAndPreludes(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib.fun")
	main := filepath.Join(dir, "main.fun")
	writeFile(t, lib, "fn sq(x) { return x * x; }\n")
	writeFile(t, main, "print sq(3);\n")

	program, err := NewLoader().Load(main, lib)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if program.Failed() {
		t.Fatalf("unexpected diagnostics: %v", program.Diagnostics)
	}
	sources := program.Sources()
	if len(sources) != 2 || sources[0].Path != lib || sources[1].Path != main {
		t.Fatalf("unexpected source order: %#v", sources)
	}
	if len(program.Entry.Statements) != 1 || len(program.Preludes[0].Statements) != 1 {
		t.Fatalf("unexpected statement counts")
	}
}

func TestLoaderCollectsDiagnosticsFromEveryFile(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib.fun")
	main := filepath.Join(dir, "main.fun")
	writeFile(t, lib, "let x = 1 @;\n")
	writeFile(t, main, "print ;\n")

	program, err := NewLoader().Load(main, lib)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(program.Diagnostics) != 2 {
		t.Fatalf("expected 2 diagnostics, got %v", program.Diagnostics)
	}
	first := program.Diagnostics[0].String()
	if first != lib+": [line 1] ERROR: Unexpected character: @" {
		t.Fatalf("unexpected lexer diagnostic %q", first)
	}
	second := program.Diagnostics[1].String()
	if second != main+": [line 1] ERROR: Expected expression." {
		t.Fatalf("unexpected parser diagnostic %q", second)
	}
}

func TestLoaderSingleFileDiagnosticsAreUntagged(t *testing.T) {
	main := filepath.Join(t.TempDir(), "main.fun")
	writeFile(t, main, "print 1\n")
	program, err := NewLoader().Load(main)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(program.Diagnostics) != 1 || program.Diagnostics[0].File != "" {
		t.Fatalf("unexpected diagnostics %#v", program.Diagnostics)
	}
}

func TestLoaderMissingFile(t *testing.T) {
	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "nope.fun"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoaderMissingPreludeNamesIt(t *testing.T) {
	dir := t.TempDir()
	main := filepath.Join(dir, "main.fun")
	writeFile(t, main, "print 1;\n")
	missing := filepath.Join(dir, "gone", "lib.fun")

	_, err := NewLoader().Load(main, missing)
	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected *ReadError, got %v", err)
	}
	if readErr.Path != missing {
		t.Fatalf("ReadError.Path = %q, want %q", readErr.Path, missing)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped not-exist error, got %v", err)
	}
}

func TestLoaderNamesSourcesOnlyWithPreludes(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib.fun")
	main := filepath.Join(dir, "main.fun")
	writeFile(t, lib, "let a = 1;\n")
	writeFile(t, main, "print a;\n")

	program, err := NewLoader().Load(main, lib)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if program.Preludes[0].Name != lib || program.Entry.Name != main {
		t.Fatalf("unexpected names %q, %q", program.Preludes[0].Name, program.Entry.Name)
	}

	program, err = NewLoader().Load(main)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if program.Entry.Name != "" {
		t.Fatalf("lone entry should be unnamed, got %q", program.Entry.Name)
	}
}

func TestPreludesFollowDependencyOrder(t *testing.T) {
	root := t.TempDir()
	base := filepath.Join(root, "base")
	top := filepath.Join(root, "top")
	writeManifestIn(t, mkdir(t, base), `
name: base
targets:
  base: { type: library, main: src/base.fun }
`)
	writeFile(t, filepath.Join(base, "src", "base.fun"), "let one = 1;\n")
	writeManifestIn(t, mkdir(t, top), `
name: top
targets:
  top: { type: library }
`)
	writeFile(t, filepath.Join(top, "lib.fun"), "let two = one + 1;\n")

	lock := NewLockfile("app", "test")
	lock.Packages = []*LockedPackage{
		{Name: "top", Source: PathSource(top), Dependencies: []string{"base"}},
		{Name: "base", Source: PathSource(base)},
	}
	// "top" sorts after "base" anyway; add a package that sorts first but depends on top.
	aardvark := filepath.Join(root, "aardvark")
	writeManifestIn(t, mkdir(t, aardvark), `
name: aardvark
targets:
  aardvark: { type: library, main: a.fun }
`)
	lock.Packages = append(lock.Packages, &LockedPackage{Name: "aardvark", Source: PathSource(aardvark), Dependencies: []string{"top"}})

	preludes, err := Preludes(lock, "")
	if err != nil {
		t.Fatalf("Preludes error: %v", err)
	}
	want := []string{
		filepath.Join(base, "src", "base.fun"),
		filepath.Join(top, "lib.fun"),
		filepath.Join(aardvark, "a.fun"),
	}
	if strings.Join(preludes, "|") != strings.Join(want, "|") {
		t.Fatalf("preludes = %v, want %v", preludes, want)
	}
}

func TestPreludeOrderDetectsCycles(t *testing.T) {
	lock := NewLockfile("app", "test")
	lock.Packages = []*LockedPackage{
		{Name: "a", Source: "path:/a", Dependencies: []string{"b"}},
		{Name: "b", Source: "path:/b", Dependencies: []string{"a"}},
	}
	if _, err := PreludeOrder(lock); !errors.Is(err, ErrDependencyCycle) {
		t.Fatalf("expected ErrDependencyCycle, got %v", err)
	}
}

func TestGitPackageDirUsesCache(t *testing.T) {
	cache := t.TempDir()
	pkg := &LockedPackage{Name: "kit", Version: "v1.0.0@abc", Source: GitSource("https://example.com/kit.git", "abc")}
	if _, err := pkg.Dir(cache); !errors.Is(err, ErrPackageNotInstalled) {
		t.Fatalf("expected ErrPackageNotInstalled, got %v", err)
	}
	want := mkdir(t, filepath.Join(cache, "pkg", "src", "kit", "v1.0.0_abc"))
	got, err := pkg.Dir(cache)
	if err != nil || got != want {
		t.Fatalf("Dir = %q, %v; want %q", got, err, want)
	}
}

func TestSanitizePathSegment(t *testing.T) {
	cases := map[string]string{
		"":             "head",
		"v1.0.0":       "v1.0.0",
		"main@abc/def": "main_abc_def",
	}
	for in, want := range cases {
		if got := SanitizePathSegment(in); got != want {
			t.Fatalf("SanitizePathSegment(%q) = %q, want %q", in, got, want)
		}
	}
}

func mkdir(t *testing.T, dir string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	return dir
}
