package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadManifestBasic(t *testing.T) {
	path := writeManifest(t, `
name: fun-app
version: "0.1.0"
authors:
  - David
  - Ada
targets:
  app: { type: executable, main: src/main.fun }
  util: { type: library, main: lib/util.fun }
dependencies:
  mathlib: { path: ../mathlib }
  strings-kit:
    git: https://example.com/strings.git
    tag: v1.0.0
`)

	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest returned error: %v", err)
	}

	if got, want := manifest.Name, "fun_app"; got != want {
		t.Fatalf("Name = %q, want %q", got, want)
	}
	if got := manifest.Version; got != "0.1.0" {
		t.Fatalf("Version = %q, want 0.1.0", got)
	}
	if len(manifest.Authors) != 2 || manifest.Authors[0] != "David" || manifest.Authors[1] != "Ada" {
		t.Fatalf("Authors unexpected: %#v", manifest.Authors)
	}

	target, ok := manifest.Targets["app"]
	if !ok {
		t.Fatalf("Targets missing app entry: %#v", manifest.Targets)
	}
	if target.Main != "src/main.fun" || target.Type != TargetTypeExecutable {
		t.Fatalf("app target unexpected: %#v", target)
	}

	mathlib := manifest.Dependencies["mathlib"]
	if mathlib == nil || mathlib.Path != "../mathlib" || mathlib.IsGit() {
		t.Fatalf("mathlib dependency not parsed: %#v", mathlib)
	}
	kit := manifest.Dependencies["strings_kit"]
	if kit == nil || !kit.IsGit() || kit.Tag != "v1.0.0" {
		t.Fatalf("git dependency not parsed: %#v", kit)
	}

	if got := strings.Join(manifest.TargetOrder, ","); got != "app,util" {
		t.Fatalf("TargetOrder unexpected: %s", got)
	}
	if manifest.Dir() != filepath.Dir(path) {
		t.Fatalf("Dir = %q, want %q", manifest.Dir(), filepath.Dir(path))
	}
}

func TestLoadManifestPathShorthand(t *testing.T) {
	path := writeManifest(t, `
name: app
dependencies:
  local: ../local
`)
	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest returned error: %v", err)
	}
	if manifest.Dependencies["local"].Path != "../local" {
		t.Fatalf("path shorthand missing: %#v", manifest.Dependencies["local"])
	}
}

func TestLoadManifestValidation(t *testing.T) {
	path := writeManifest(t, `
name: ""
targets:
  cli: { type: executable }
  odd: { type: plugin, main: x.fun }
dependencies:
  empty: {}
  both: { path: ../x, git: https://example.com/x.git, rev: abc }
  loose: { git: https://example.com/y.git }
  pinned: { path: ../z, tag: v1 }
`)

	_, err := LoadManifest(path)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	msg := err.Error()
	wantFragments := []string{
		"name must be provided",
		`target "cli" requires a main entrypoint`,
		`target "odd" has unsupported type "plugin"`,
		"dependencies.empty: must specify git or path",
		"dependencies.both: path dependencies cannot also specify git",
		"dependencies.loose: git dependencies require exactly one of rev, tag, or branch",
		"dependencies.pinned: rev, tag and branch apply only to git dependencies",
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("validation error missing fragment %q: %s", fragment, msg)
		}
	}
}

func TestLoadManifestRejectsUnknownFields(t *testing.T) {
	path := writeManifest(t, `
name: app
license: MIT
`)
	if _, err := LoadManifest(path); err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestManifestDefaultTargets(t *testing.T) {
	path := writeManifest(t, `
name: demo
targets:
  helpers: { type: library }
  app-server: { type: executable, main: src/app.fun }
  Worker: { type: executable, main: src/worker.fun }
`)

	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest error: %v", err)
	}

	target, err := manifest.DefaultExecutableTarget()
	if err != nil {
		t.Fatalf("DefaultExecutableTarget returned error: %v", err)
	}
	if target.OriginalName != "app-server" {
		t.Fatalf("DefaultExecutableTarget = %q, want app-server", target.OriginalName)
	}
	mainPath, err := manifest.ResolveMain(target)
	if err != nil || mainPath != filepath.Join(manifest.Dir(), "src", "app.fun") {
		t.Fatalf("ResolveMain = %q, %v", mainPath, err)
	}

	lib, err := manifest.LibraryTarget()
	if err != nil {
		t.Fatalf("LibraryTarget returned error: %v", err)
	}
	libPath, err := manifest.ResolveMain(lib)
	if err != nil || libPath != filepath.Join(manifest.Dir(), "lib.fun") {
		t.Fatalf("library fallback main = %q, %v", libPath, err)
	}

	wantOrder := []string{"helpers", "app_server", "Worker"}
	if got := manifest.TargetOrder; len(got) != len(wantOrder) {
		t.Fatalf("TargetOrder length = %d, want %d (%v)", len(got), len(wantOrder), wantOrder)
	} else {
		for i := range wantOrder {
			if got[i] != wantOrder[i] {
				t.Fatalf("TargetOrder[%d] = %q, want %q", i, got[i], wantOrder[i])
			}
		}
	}
}

func TestManifestWithoutTargets(t *testing.T) {
	path := writeManifest(t, `name: bare`)
	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest error: %v", err)
	}
	if _, err := manifest.DefaultExecutableTarget(); !errors.Is(err, ErrNoExecutableTarget) {
		t.Fatalf("expected ErrNoExecutableTarget, got %v", err)
	}
	if _, err := manifest.LibraryTarget(); !errors.Is(err, ErrNoLibraryTarget) {
		t.Fatalf("expected ErrNoLibraryTarget, got %v", err)
	}
}

func TestManifestFindTarget(t *testing.T) {
	path := writeManifest(t, `
name: demo
targets:
  app-server: { type: executable, main: src/app.fun }
  helper: { type: executable, main: src/helper.fun }
`)

	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest error: %v", err)
	}

	if target, ok := manifest.FindTarget("app-server"); !ok || target == nil || target.OriginalName != "app-server" {
		t.Fatalf("FindTarget app-server failed: %#v", target)
	}
	if target, ok := manifest.FindTarget("app_server"); !ok || target == nil || target.OriginalName != "app-server" {
		t.Fatalf("FindTarget sanitized app_server failed: %#v", target)
	}
	if target, ok := manifest.FindTarget("APP-SERVER"); !ok || target == nil || target.OriginalName != "app-server" {
		t.Fatalf("FindTarget case-insensitive lookup failed: %#v", target)
	}
	if target, ok := manifest.FindTarget("missing"); ok || target != nil {
		t.Fatalf("FindTarget missing should be nil, got %#v", target)
	}
}

func writeManifest(t *testing.T, contents string) string {
	t.Helper()
	return writeManifestIn(t, t.TempDir(), contents)
}

func writeManifestIn(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestFileName)
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)+"\n"), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}
