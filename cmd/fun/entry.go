package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Nirlep5252/fun/pkg/diag"
	"github.com/Nirlep5252/fun/pkg/driver"
	"github.com/Nirlep5252/fun/pkg/interpreter"
)

func runEntry(args []string) int {
	var manifest *driver.Manifest
	var manifestErr error

	if len(args) <= 1 {
		manifest, manifestErr = loadManifestFrom(".")
		if manifestErr != nil {
			switch {
			case errors.Is(manifestErr, errManifestNotFound):
				manifest = nil
			case len(args) == 1 && looksLikePathCandidate(args[0]):
				fmt.Fprintf(os.Stderr, "warning: unable to load manifest (%v); falling back to direct file execution\n", manifestErr)
				manifest = nil
			default:
				fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", manifestErr)
				return exitUsage
			}
		}
	}

	if len(args) == 0 {
		if manifest == nil {
			fmt.Fprintln(os.Stderr, "fun run requires a manifest target or source file (fun.yml not found)")
			return exitUsage
		}
		lock, err := loadLockfileForManifest(manifest)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return exitUsage
		}
		target, err := manifest.DefaultExecutableTarget()
		if err != nil {
			fmt.Fprintf(os.Stderr, "manifest error: %v\n", err)
			return exitUsage
		}
		entryPath, err := manifest.ResolveMain(target)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to resolve target entrypoint: %v\n", err)
			return exitUsage
		}
		return executeEntry(entryPath, lock)
	}

	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(args[1:], " "))
		return exitUsage
	}

	candidate := args[0]
	activeManifest := manifest
	if manifest != nil {
		if target, ok := manifest.FindTarget(candidate); ok && target != nil {
			entryPath, err := manifest.ResolveMain(target)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to resolve target %q: %v\n", target.OriginalName, err)
				return exitUsage
			}
			lock, err := loadLockfileForManifest(manifest)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
				return exitUsage
			}
			return executeEntry(entryPath, lock)
		}
	}

	if absCandidate, err := filepath.Abs(candidate); err == nil {
		if manifestPath, findErr := findManifest(filepath.Dir(absCandidate)); findErr == nil {
			if activeManifest == nil || filepath.Clean(activeManifest.Path) != filepath.Clean(manifestPath) {
				m, loadErr := driver.LoadManifest(manifestPath)
				if loadErr != nil {
					fmt.Fprintf(os.Stderr, "failed to read manifest for %s: %v\n", candidate, loadErr)
					return exitUsage
				}
				activeManifest = m
			}
		} else if errors.Is(findErr, errManifestNotFound) {
			activeManifest = nil
		} else {
			fmt.Fprintf(os.Stderr, "failed to locate manifest for %s: %v\n", candidate, findErr)
			return exitUsage
		}
	}

	lock, err := loadLockfileForManifest(activeManifest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return exitUsage
	}
	return executeEntry(candidate, lock)
}

// executeEntry runs the locked packages' library scripts and then entry in
// one interpreter. Nothing runs if any file fails to lex or parse.
func executeEntry(entry string, lock *driver.Lockfile) int {
	var preludes []string
	if lock != nil && len(lock.Packages) > 0 {
		cacheDir, err := resolveFunHome()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to resolve FUN_HOME: %v\n", err)
			return exitUsage
		}
		preludes, err = driver.Preludes(lock, cacheDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load dependencies: %v\n", err)
			return exitUsage
		}
	}

	program, err := driver.NewLoader().Load(entry, preludes...)
	if err != nil {
		reportLoadError(entry, err)
		return exitProgram
	}
	if program.Failed() {
		diag.Write(os.Stderr, program.Diagnostics...)
		return exitProgram
	}

	interp := interpreter.New(interpreter.Options{})
	for _, src := range program.Sources() {
		interp.SetSource(src.Name)
		if err := interp.Interpret(src.Statements); err != nil {
			return exitProgram
		}
	}
	return exitOK
}

func reportLoadError(entry string, err error) {
	path := entry
	var readErr *driver.ReadError
	if errors.As(err, &readErr) {
		path = readErr.Path
	}
	diag.Write(os.Stderr, diag.Diagnostic{Message: fmt.Sprintf("Could not read file %s.", path)})
}

func loadManifestFrom(start string) (*driver.Manifest, error) {
	if start == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		start = cwd
	}
	manifestPath, err := findManifest(start)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(manifestPath)
}

func looksLikePathCandidate(arg string) bool {
	if arg == "" {
		return false
	}
	if strings.ContainsAny(arg, "/\\") || strings.Contains(arg, string(os.PathSeparator)) {
		return true
	}
	return filepath.Ext(arg) == ".fun" || strings.HasPrefix(arg, ".")
}

func loadLockfileForManifest(manifest *driver.Manifest) (*driver.Lockfile, error) {
	if manifest == nil {
		return nil, nil
	}
	lockPath := filepath.Join(manifest.Dir(), driver.LockfileFileName)
	lock, err := driver.LoadLockfile(lockPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if manifestHasDependencies(manifest) {
				return nil, fmt.Errorf("fun.lock missing for %q; run `fun deps install`", manifest.Name)
			}
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read lockfile %s: %w", lockPath, err)
	}
	if lock.Root != manifest.Name {
		return nil, fmt.Errorf("lockfile root %q does not match manifest name %q", lock.Root, manifest.Name)
	}
	return lock, nil
}

func manifestHasDependencies(manifest *driver.Manifest) bool {
	return manifest != nil && len(manifest.Dependencies) > 0
}
