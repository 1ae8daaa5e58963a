package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ManifestFileName = "fun.yml"
	LockfileFileName = "fun.lock"
)

// Manifest represents the parsed contents of fun.yml.
type Manifest struct {
	Path         string
	Name         string
	Version      string
	Authors      []string
	Targets      map[string]*TargetSpec
	TargetOrder  []string
	Dependencies map[string]*DependencySpec

	targetEntries []manifestTargetEntry
}

// TargetSpec describes a runnable or importable script from the manifest.
type TargetSpec struct {
	Name         string
	OriginalName string
	Type         TargetType
	Main         string
}

type manifestTargetEntry struct {
	sanitized string
	spec      *TargetSpec
}

// TargetType enumerates supported target kinds.
type TargetType string

const (
	TargetTypeExecutable TargetType = "executable"
	TargetTypeLibrary    TargetType = "library"
	TargetTypeTest       TargetType = "test"
)

// DependencySpec describes where a dependency package comes from: a local
// directory or a git repository pinned by rev, tag or branch.
type DependencySpec struct {
	Git    string
	Rev    string
	Tag    string
	Branch string
	Path   string
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

var (
	ErrNoExecutableTarget = errors.New("manifest: no executable targets defined")
	ErrNoLibraryTarget    = errors.New("manifest: no library target defined")
)

// LoadManifest parses fun.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// Dir is the directory holding the manifest; relative paths resolve against it.
func (m *Manifest) Dir() string {
	return filepath.Dir(m.Path)
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	for i, author := range m.Authors {
		if author == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("authors[%d] must be a non-empty string", i))
		}
	}

	targetNames := make(map[string]string, len(m.targetEntries))
	for _, entry := range m.targetEntries {
		target := entry.spec
		if target == nil {
			continue
		}
		if other, exists := targetNames[entry.sanitized]; exists {
			errs.Issues = append(errs.Issues, fmt.Sprintf("targets %q and %q collide after sanitization", other, target.OriginalName))
		} else {
			targetNames[entry.sanitized] = target.OriginalName
		}
		if target.Type == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q missing type", target.OriginalName))
		} else if !target.Type.IsValid() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q has unsupported type %q", target.OriginalName, target.Type))
		}
		if target.Type.RequiresMain() && target.Main == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q requires a main entrypoint", target.OriginalName))
		}
	}

	for _, depName := range sortedKeys(m.Dependencies) {
		for _, issue := range m.Dependencies[depName].validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: %s", depName, issue))
		}
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// IsValid reports whether the target type is recognised.
func (t TargetType) IsValid() bool {
	switch t {
	case TargetTypeExecutable, TargetTypeLibrary, TargetTypeTest:
		return true
	default:
		return false
	}
}

// RequiresMain reports if the target requires a main entrypoint.
func (t TargetType) RequiresMain() bool {
	switch t {
	case TargetTypeExecutable, TargetTypeTest:
		return true
	default:
		return false
	}
}

// DefaultExecutableTarget returns the first executable target in manifest order.
func (m *Manifest) DefaultExecutableTarget() (*TargetSpec, error) {
	return m.firstTarget(TargetTypeExecutable, ErrNoExecutableTarget)
}

// LibraryTarget returns the first library target, the script a dependency
// package contributes to the programs that use it.
func (m *Manifest) LibraryTarget() (*TargetSpec, error) {
	return m.firstTarget(TargetTypeLibrary, ErrNoLibraryTarget)
}

func (m *Manifest) firstTarget(kind TargetType, missing error) (*TargetSpec, error) {
	if m == nil {
		return nil, missing
	}
	for _, entry := range m.targetEntries {
		if entry.spec != nil && entry.spec.Type == kind {
			return entry.spec, nil
		}
	}
	return nil, missing
}

// FindTarget looks up a target by sanitized or original name.
func (m *Manifest) FindTarget(name string) (*TargetSpec, bool) {
	if m == nil {
		return nil, false
	}
	name = strings.TrimSpace(name)
	if key := sanitizeSegment(name); key != "" {
		if target, ok := m.Targets[key]; ok && target != nil {
			return target, true
		}
	}
	for _, entry := range m.targetEntries {
		if entry.spec != nil && strings.EqualFold(entry.spec.OriginalName, name) {
			return entry.spec, true
		}
	}
	return nil, false
}

// ResolveMain returns the absolute path of a target's main script. Library
// targets without a main fall back to lib.fun next to the manifest.
func (m *Manifest) ResolveMain(target *TargetSpec) (string, error) {
	if m == nil || target == nil {
		return "", fmt.Errorf("missing manifest or target")
	}
	mainPath := strings.TrimSpace(target.Main)
	if mainPath == "" {
		if target.Type != TargetTypeLibrary {
			return "", fmt.Errorf("target %q missing main entrypoint", target.OriginalName)
		}
		mainPath = "lib.fun"
	}
	if filepath.IsAbs(mainPath) {
		return filepath.Clean(mainPath), nil
	}
	return filepath.Join(m.Dir(), filepath.FromSlash(mainPath)), nil
}

// IsGit reports whether the dependency is fetched from a git repository.
func (d *DependencySpec) IsGit() bool {
	return d != nil && d.Git != ""
}

func (d *DependencySpec) validate() []string {
	var errs []string
	if d == nil {
		return []string{"must specify git or path"}
	}
	switch {
	case d.Path != "" && d.Git != "":
		errs = append(errs, "path dependencies cannot also specify git")
	case d.Path == "" && d.Git == "":
		errs = append(errs, "must specify git or path")
	}

	pins := 0
	for _, pin := range []string{d.Rev, d.Tag, d.Branch} {
		if pin != "" {
			pins++
		}
	}
	if d.Git == "" && pins > 0 {
		errs = append(errs, "rev, tag and branch apply only to git dependencies")
	}
	if d.Git != "" && pins != 1 {
		errs = append(errs, "git dependencies require exactly one of rev, tag, or branch")
	}
	return errs
}

type manifestFile struct {
	Name         string        `yaml:"name"`
	Version      string        `yaml:"version"`
	Authors      stringList    `yaml:"authors"`
	Targets      targetMap     `yaml:"targets"`
	Dependencies dependencyMap `yaml:"dependencies"`
}

type targetYAML struct {
	Type TargetType `yaml:"type"`
	Main string     `yaml:"main"`
}

type targetMap struct {
	items []targetMapEntry
}

type targetMapEntry struct {
	name string
	spec *targetYAML
}

func (tm *targetMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 || (value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		tm.items = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: targets must be a mapping")
	}
	items := make([]targetMapEntry, 0, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		var key string
		if err := value.Content[i].Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: targets must not use empty keys")
		}
		entry := new(targetYAML)
		if err := value.Content[i+1].Decode(entry); err != nil {
			return fmt.Errorf("manifest: target %q: %w", key, err)
		}
		items = append(items, targetMapEntry{name: key, spec: entry})
	}
	tm.items = items
	return nil
}

type dependencyMap map[string]*DependencySpec

type stringList []string

func (mf manifestFile) toManifest(path string) *Manifest {
	targetCapacity := len(mf.Targets.items)
	result := &Manifest{
		Path:          path,
		Name:          sanitizeSegment(mf.Name),
		Version:       strings.TrimSpace(mf.Version),
		Authors:       mf.Authors.Clone(),
		Targets:       make(map[string]*TargetSpec, targetCapacity),
		TargetOrder:   make([]string, 0, targetCapacity),
		Dependencies:  cloneDependencyMap(mf.Dependencies),
		targetEntries: make([]manifestTargetEntry, 0, targetCapacity),
	}

	for _, item := range mf.Targets.items {
		if item.spec == nil {
			continue
		}
		sanitized := sanitizeSegment(item.name)
		spec := &TargetSpec{
			Name:         sanitized,
			OriginalName: item.name,
			Type:         TargetType(strings.TrimSpace(string(item.spec.Type))),
			Main:         strings.TrimSpace(item.spec.Main),
		}
		if _, exists := result.Targets[sanitized]; !exists {
			result.Targets[sanitized] = spec
			result.TargetOrder = append(result.TargetOrder, sanitized)
		}
		result.targetEntries = append(result.targetEntries, manifestTargetEntry{
			sanitized: sanitized,
			spec:      spec,
		})
	}
	return result
}

func cloneDependencyMap(src dependencyMap) map[string]*DependencySpec {
	out := make(map[string]*DependencySpec, len(src))
	for name, dep := range src {
		out[name] = dep.Clone()
	}
	return out
}

// Clone returns a copy of the descriptor.
func (d *DependencySpec) Clone() *DependencySpec {
	if d == nil {
		return nil
	}
	clone := *d
	return &clone
}

func (l stringList) Clone() []string {
	if len(l) == 0 {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, item := range l {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = nil
			return nil
		}
		*l = stringList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			items = append(items, strings.TrimSpace(str))
		}
		*l = stringList(items)
		return nil
	case yaml.AliasNode:
		return l.UnmarshalYAML(value.Alias)
	case 0:
		*l = nil
		return nil
	default:
		return fmt.Errorf("manifest: expected string or sequence for list but found %s", value.ShortTag())
	}
}

func (dm *dependencyMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 || (value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		*dm = make(dependencyMap)
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: dependencies must be a mapping")
	}
	result := make(dependencyMap, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		var key string
		if err := value.Content[i].Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: dependency names must be non-empty")
		}
		var dep DependencySpec
		if err := dep.unmarshalYAML(value.Content[i+1]); err != nil {
			return fmt.Errorf("manifest: dependency %q: %w", key, err)
		}
		result[sanitizeSegment(key)] = &dep
	}
	*dm = result
	return nil
}

func (d *DependencySpec) unmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		// `name: ../dir` is shorthand for a path dependency.
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*d = DependencySpec{}
			return nil
		}
		*d = DependencySpec{Path: strings.TrimSpace(value.Value)}
		return nil
	case yaml.MappingNode:
		var raw struct {
			Git    string `yaml:"git"`
			Rev    string `yaml:"rev"`
			Tag    string `yaml:"tag"`
			Branch string `yaml:"branch"`
			Path   string `yaml:"path"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		*d = DependencySpec{
			Git:    strings.TrimSpace(raw.Git),
			Rev:    strings.TrimSpace(raw.Rev),
			Tag:    strings.TrimSpace(raw.Tag),
			Branch: strings.TrimSpace(raw.Branch),
			Path:   strings.TrimSpace(raw.Path),
		}
		return nil
	case yaml.AliasNode:
		return d.unmarshalYAML(value.Alias)
	default:
		return fmt.Errorf("expected string or mapping, found %s", value.ShortTag())
	}
}
