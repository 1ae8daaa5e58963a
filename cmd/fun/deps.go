package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Nirlep5252/fun/pkg/driver"
)

func runDeps(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "fun deps requires a subcommand (install, update)")
		return exitUsage
	}
	switch args[0] {
	case "install":
		if len(args) > 1 {
			fmt.Fprintf(os.Stderr, "fun deps install does not take arguments (received %s)\n", strings.Join(args[1:], " "))
			return exitUsage
		}
		return runDepsInstall()
	case "update":
		return runDepsUpdate(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown deps subcommand %q\n", args[0])
		return exitUsage
	}
}

// depsContext is the state shared by install and update: the project
// manifest, the package cache and the current (or a fresh) lockfile.
type depsContext struct {
	manifest    *driver.Manifest
	cacheDir    string
	lock        *driver.Lockfile
	lockPath    string
	lockCreated bool
}

func loadDepsContext() (*depsContext, int) {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to determine working directory: %v\n", err)
		return nil, exitUsage
	}
	manifestPath, err := findManifest(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to locate %s: %v\n", driver.ManifestFileName, err)
		return nil, exitUsage
	}
	manifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read manifest: %v\n", err)
		return nil, exitUsage
	}
	cacheDir, err := resolveFunHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve FUN_HOME: %v\n", err)
		return nil, exitUsage
	}

	ctx := &depsContext{
		manifest: manifest,
		cacheDir: cacheDir,
		lockPath: filepath.Join(manifest.Dir(), driver.LockfileFileName),
	}
	lock, err := driver.LoadLockfile(ctx.lockPath)
	switch {
	case err == nil:
		if lock.Root != manifest.Name {
			fmt.Fprintf(os.Stderr, "lockfile root %q does not match manifest name %q\n", lock.Root, manifest.Name)
			return nil, exitUsage
		}
	case errors.Is(err, os.ErrNotExist):
		lock = driver.NewLockfile(manifest.Name, cliToolVersion)
		ctx.lockCreated = true
	default:
		fmt.Fprintf(os.Stderr, "failed to read lockfile: %v\n", err)
		return nil, exitUsage
	}
	lock.Path = ctx.lockPath
	lock.Tool = cliToolVersion
	ctx.lock = lock
	return ctx, exitOK
}

func runDepsInstall() int {
	ctx, code := loadDepsContext()
	if ctx == nil {
		return code
	}

	fmt.Fprintf(os.Stdout, "Manifest: %s\n", ctx.manifest.Path)
	fmt.Fprintf(os.Stdout, "Root package: %s\n", ctx.manifest.Name)
	fmt.Fprintf(os.Stdout, "Dependencies: %d\n", len(ctx.manifest.Dependencies))
	fmt.Fprintf(os.Stdout, "Cache directory: %s\n", ctx.cacheDir)

	installer := newDependencyInstaller(ctx.manifest, ctx.cacheDir)
	changed, logs, err := installer.Install(ctx.lock)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve dependencies: %v\n", err)
		return exitUsage
	}
	for _, line := range logs {
		fmt.Fprintln(os.Stdout, line)
	}

	if changed || ctx.lockCreated {
		action := "Updated"
		if ctx.lockCreated {
			action = "Created"
		}
		if err := driver.WriteLockfile(ctx.lock, ctx.lockPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write lockfile: %v\n", err)
			return exitUsage
		}
		fmt.Fprintf(os.Stdout, "%s %s: %s\n", action, driver.LockfileFileName, ctx.lock.Path)
	} else {
		fmt.Fprintf(os.Stdout, "%s already up to date: %s\n", driver.LockfileFileName, ctx.lock.Path)
	}

	fmt.Fprintln(os.Stdout, "Dependencies installed.")
	return exitOK
}

func runDepsUpdate(targets []string) int {
	ctx, code := loadDepsContext()
	if ctx == nil {
		return code
	}

	updateSet := make(map[string]struct{})
	for _, target := range targets {
		sanitized := sanitizeName(target)
		if _, ok := ctx.manifest.Dependencies[sanitized]; !ok {
			fmt.Fprintf(os.Stderr, "dependency %q not declared in manifest\n", target)
			return exitUsage
		}
		updateSet[sanitized] = struct{}{}
	}

	if len(updateSet) == 0 {
		ctx.lock.Packages = nil
		for name := range ctx.manifest.Dependencies {
			updateSet[name] = struct{}{}
		}
	} else {
		filtered := make([]*driver.LockedPackage, 0, len(ctx.lock.Packages))
		for _, pkg := range ctx.lock.Packages {
			if pkg == nil {
				continue
			}
			if _, ok := updateSet[pkg.Name]; ok {
				continue
			}
			filtered = append(filtered, pkg)
		}
		ctx.lock.Packages = filtered
	}

	installer := newDependencyInstaller(ctx.manifest, ctx.cacheDir)
	installer.refresh = updateSet
	changed, logs, err := installer.Install(ctx.lock)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to update dependencies: %v\n", err)
		return exitUsage
	}
	for _, line := range logs {
		fmt.Fprintln(os.Stdout, line)
	}

	if changed || ctx.lockCreated {
		if err := driver.WriteLockfile(ctx.lock, ctx.lockPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write lockfile: %v\n", err)
			return exitUsage
		}
		fmt.Fprintf(os.Stdout, "Updated %s: %s\n", driver.LockfileFileName, ctx.lock.Path)
	} else {
		fmt.Fprintln(os.Stdout, "Dependencies already up to date.")
	}
	return exitOK
}

type resolvedPackage struct {
	pkg      *driver.LockedPackage
	manifest *driver.Manifest
	root     string
}

// dependencyInstaller resolves the manifest's dependency graph into locked
// packages, fetching git sources into the cache as it goes.
type dependencyInstaller struct {
	manifest     *driver.Manifest
	manifestRoot string
	cacheDir     string
	logs         []string
	git          *gitFetcher
	refresh      map[string]struct{}
	resolved     map[string]*driver.LockedPackage
	aliases      map[string]string
	resolving    map[string]bool
	resolvingPkg map[string]bool
}

func newDependencyInstaller(manifest *driver.Manifest, cacheDir string) *dependencyInstaller {
	var root string
	if manifest != nil {
		root = manifest.Dir()
	}
	return &dependencyInstaller{
		manifest:     manifest,
		manifestRoot: root,
		cacheDir:     cacheDir,
		logs:         []string{},
		git:          newGitFetcher(cacheDir),
	}
}

// Install replaces lock.Packages with the resolved graph and reports whether
// anything differs from what the lockfile held before.
func (d *dependencyInstaller) Install(lock *driver.Lockfile) (bool, []string, error) {
	if d.manifest == nil {
		return false, d.logs, nil
	}

	d.resolved = make(map[string]*driver.LockedPackage)
	d.aliases = make(map[string]string)
	d.resolving = make(map[string]bool)
	d.resolvingPkg = make(map[string]bool)

	for _, name := range sortedNames(d.manifest.Dependencies) {
		spec := d.manifest.Dependencies[name]
		if spec == nil {
			return false, d.logs, fmt.Errorf("dependency %q has no descriptor", name)
		}
		spec = spec.Clone()
		if spec.Path != "" && !filepath.IsAbs(spec.Path) {
			spec.Path = filepath.Join(d.manifestRoot, spec.Path)
		}
		if err := d.installDependency(name, spec); err != nil {
			return false, d.logs, err
		}
	}

	desired := make([]*driver.LockedPackage, 0, len(d.resolved))
	for _, pkg := range d.resolved {
		desired = append(desired, pkg)
	}
	sort.SliceStable(desired, func(i, j int) bool {
		return desired[i].Name < desired[j].Name
	})

	existing := make(map[string]*driver.LockedPackage, len(lock.Packages))
	for _, pkg := range lock.Packages {
		if pkg != nil {
			existing[pkg.Name] = pkg
		}
	}

	changed := len(desired) != len(existing)
	for _, pkg := range desired {
		if current, ok := existing[pkg.Name]; !ok || !current.Equal(pkg) {
			changed = true
		}
	}

	lock.Packages = desired
	return changed, d.logs, nil
}

func (d *dependencyInstaller) installDependency(name string, spec *driver.DependencySpec) error {
	alias := sanitizeName(name)
	if canonical, ok := d.aliases[alias]; ok {
		if _, exists := d.resolved[canonical]; exists {
			return nil
		}
		if d.resolvingPkg[canonical] {
			return fmt.Errorf("dependency cycle detected at %s", canonical)
		}
	}
	if d.resolving[alias] {
		return fmt.Errorf("dependency cycle detected at %s", alias)
	}
	d.resolving[alias] = true
	defer delete(d.resolving, alias)

	resolved, err := d.resolveDependency(name, spec)
	if err != nil {
		return err
	}

	pkg := resolved.pkg
	canonical := pkg.Name
	if d.resolvingPkg[canonical] {
		return fmt.Errorf("dependency cycle detected at %s", canonical)
	}
	d.resolvingPkg[canonical] = true
	defer delete(d.resolvingPkg, canonical)

	d.aliases[alias] = canonical
	if _, exists := d.resolved[canonical]; exists {
		return nil
	}

	pkg.Dependencies = nil
	if resolved.manifest != nil {
		for _, childName := range sortedNames(resolved.manifest.Dependencies) {
			childSpec := resolved.manifest.Dependencies[childName].Clone()
			if childSpec == nil {
				return fmt.Errorf("dependency %s lists %s without descriptor", pkg.Name, childName)
			}
			if childSpec.Path != "" && !filepath.IsAbs(childSpec.Path) {
				childSpec.Path = filepath.Join(resolved.root, childSpec.Path)
			}
			if err := d.installDependency(childName, childSpec); err != nil {
				return err
			}
			childPkg, ok := d.resolved[d.aliases[sanitizeName(childName)]]
			if !ok {
				return fmt.Errorf("resolved child package %s missing", childName)
			}
			pkg.Dependencies = appendUnique(pkg.Dependencies, childPkg.Name)
		}
		sort.Strings(pkg.Dependencies)
	}

	d.resolved[canonical] = pkg
	return nil
}

func (d *dependencyInstaller) resolveDependency(name string, spec *driver.DependencySpec) (*resolvedPackage, error) {
	switch {
	case spec.Path != "":
		return d.resolvePathDependency(name, spec)
	case spec.Git != "":
		return d.resolveGitDependency(name, spec)
	default:
		return nil, fmt.Errorf("dependency %q: unsupported descriptor", name)
	}
}

// resolvePathDependency links a local package in place. spec.Path is
// absolute by the time it gets here.
func (d *dependencyInstaller) resolvePathDependency(name string, spec *driver.DependencySpec) (*resolvedPackage, error) {
	abs, err := filepath.Abs(spec.Path)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: resolve path %q: %w", name, spec.Path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: stat %s: %w", name, abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("dependency %q: expected directory at %s", name, abs)
	}

	manifestPath := filepath.Join(abs, driver.ManifestFileName)
	depManifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: load manifest %s: %w", name, manifestPath, err)
	}
	if _, err := depManifest.LibraryTarget(); err != nil {
		return nil, fmt.Errorf("dependency %q: %w", name, err)
	}

	version := depManifest.Version
	if version == "" {
		version = "0.0.0-dev"
	}
	checksum, err := dirChecksum(abs)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: checksum %s: %w", name, abs, err)
	}

	d.logs = append(d.logs, fmt.Sprintf("linked %s %s (%s)", depManifest.Name, version, displayPath(d.manifestRoot, abs)))
	return &resolvedPackage{
		pkg: &driver.LockedPackage{
			Name:     depManifest.Name,
			Version:  version,
			Source:   driver.PathSource(abs),
			Checksum: checksum,
		},
		manifest: depManifest,
		root:     abs,
	}, nil
}

func (d *dependencyInstaller) resolveGitDependency(name string, spec *driver.DependencySpec) (*resolvedPackage, error) {
	if d.git == nil {
		return nil, fmt.Errorf("dependency %q: git support unavailable", name)
	}
	if _, refresh := d.refresh[sanitizeName(name)]; refresh && strings.TrimSpace(spec.Rev) == "" {
		// Tag and branch pins are resolved again on update.
		if err := os.RemoveAll(filepath.Join(d.cacheDir, "pkg", "src", sanitizeName(name))); err != nil {
			return nil, fmt.Errorf("dependency %q: clear cache: %w", name, err)
		}
	}
	pkg, checkoutDir, err := d.git.Fetch(name, spec)
	if err != nil {
		return nil, err
	}
	d.logs = append(d.logs, fmt.Sprintf("fetched git dependency %s (%s)", pkg.Name, pkg.Version))

	manifestPath := filepath.Join(checkoutDir, driver.ManifestFileName)
	depManifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: load manifest %s: %w", name, manifestPath, err)
	}
	if _, err := depManifest.LibraryTarget(); err != nil {
		return nil, fmt.Errorf("dependency %q: %w", name, err)
	}
	return &resolvedPackage{
		pkg:      pkg,
		manifest: depManifest,
		root:     checkoutDir,
	}, nil
}

func sortedNames(deps map[string]*driver.DependencySpec) []string {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func appendUnique(items []string, item string) []string {
	for _, existing := range items {
		if existing == item {
			return items
		}
	}
	return append(items, item)
}
