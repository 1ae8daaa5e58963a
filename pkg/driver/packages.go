package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	pathSourcePrefix = "path:"
	gitSourcePrefix  = "git+"
)

var (
	ErrPackageNotInstalled = errors.New("package not installed")
	ErrDependencyCycle     = errors.New("dependency cycle")
)

// PackageCacheDir is where a fetched package version lives under the cache root.
func PackageCacheDir(cacheDir, name, version string) string {
	return filepath.Join(cacheDir, "pkg", "src", sanitizeSegment(name), SanitizePathSegment(version))
}

// PathSource returns the lockfile source string for a local package directory.
func PathSource(dir string) string {
	return pathSourcePrefix + filepath.ToSlash(dir)
}

// GitSource returns the lockfile source string for a git checkout.
func GitSource(url, commit string) string {
	return fmt.Sprintf("%s%s@%s", gitSourcePrefix, url, commit)
}

// Dir locates the package contents on disk.
func (p *LockedPackage) Dir(cacheDir string) (string, error) {
	if p == nil {
		return "", fmt.Errorf("lockfile: nil package")
	}
	var dir string
	switch {
	case strings.HasPrefix(p.Source, pathSourcePrefix):
		dir = filepath.FromSlash(strings.TrimPrefix(p.Source, pathSourcePrefix))
	case strings.HasPrefix(p.Source, gitSourcePrefix):
		if cacheDir == "" {
			return "", fmt.Errorf("package %s: no cache directory for git source", p.Name)
		}
		dir = PackageCacheDir(cacheDir, p.Name, p.Version)
	default:
		return "", fmt.Errorf("package %s: unsupported source %q", p.Name, p.Source)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("package %s (%s): %w", p.Name, dir, ErrPackageNotInstalled)
	}
	return dir, nil
}

// PreludeOrder lists the locked packages so every package follows the
// packages it depends on. Independent packages keep name order.
func PreludeOrder(lock *Lockfile) ([]*LockedPackage, error) {
	if lock == nil {
		return nil, nil
	}
	byName := make(map[string]*LockedPackage, len(lock.Packages))
	for _, pkg := range lock.Packages {
		if pkg != nil {
			byName[pkg.Name] = pkg
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(byName))
	ordered := make([]*LockedPackage, 0, len(byName))

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w at %s", ErrDependencyCycle, name)
		}
		pkg, ok := byName[name]
		if !ok {
			return fmt.Errorf("lockfile: dependency %s is not locked", name)
		}
		state[name] = visiting
		deps := append([]string(nil), pkg.Dependencies...)
		sort.Strings(deps)
		for _, dep := range deps {
			if err := visit(dep); err != nil {
				return err
			}
		}
		state[name] = done
		ordered = append(ordered, pkg)
		return nil
	}

	for _, name := range sortedKeys(byName) {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return ordered, nil
}

// Preludes returns the library scripts of every locked package, dependencies
// first, ready to be passed to Loader.Load.
func Preludes(lock *Lockfile, cacheDir string) ([]string, error) {
	ordered, err := PreludeOrder(lock)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(ordered))
	for _, pkg := range ordered {
		dir, err := pkg.Dir(cacheDir)
		if err != nil {
			return nil, err
		}
		manifest, err := LoadManifest(filepath.Join(dir, ManifestFileName))
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", pkg.Name, err)
		}
		lib, err := manifest.LibraryTarget()
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", pkg.Name, err)
		}
		mainPath, err := manifest.ResolveMain(lib)
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", pkg.Name, err)
		}
		paths = append(paths, mainPath)
	}
	return paths, nil
}

// SanitizePathSegment maps a version or revision to a safe directory name.
func SanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
