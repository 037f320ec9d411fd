package store

import (
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/dockplate/pkg/errors"
	"github.com/arthur-debert/dockplate/pkg/logging"
	"github.com/arthur-debert/dockplate/pkg/types"
)

// Snapshot is the immutable result of loading a template store
type Snapshot struct {
	fs          types.FS
	root        string
	descriptors map[string]*types.Descriptor
	loadErrors  map[string]error
}

// Load walks root on fs and loads every template descriptor below it
func Load(fs types.FS, root string) (*Snapshot, error) {
	logger := logging.GetLogger("store")
	done := logging.LogOperationStart(logger, "load")
	defer done()

	info, err := fs.Stat(root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrNotFound, "template store %s not found", root).
			WithDetail("root", root)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrInvalidInput, "template store %s is not a directory", root).
			WithDetail("root", root)
	}

	s := &Snapshot{
		fs:          fs,
		root:        root,
		descriptors: make(map[string]*types.Descriptor),
		loadErrors:  make(map[string]error),
	}
	if err := s.walk(""); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("root", root).
		Int("templates", len(s.descriptors)).
		Int("broken", len(s.loadErrors)).
		Msg("template store loaded")
	return s, nil
}

func (s *Snapshot) walk(rel string) error {
	dir := filepath.Join(s.root, filepath.FromSlash(rel))
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "cannot read %s", dir)
	}

	present := make(map[string]bool, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			present[e.Name()] = true
		}
	}
	if rel != "" {
		for _, df := range DescriptorFiles {
			if present[df.Name] {
				s.loadDescriptor(rel, df.Name, df.Format)
				break
			}
		}
	}

	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if err := s.walk(path.Join(rel, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (s *Snapshot) loadDescriptor(templatePath, name string, format Format) {
	logger := logging.GetLogger("store")
	file := filepath.Join(s.root, filepath.FromSlash(templatePath), name)

	data, err := s.fs.ReadFile(file)
	if err != nil {
		s.loadErrors[templatePath] = errors.Wrapf(err, errors.ErrSchema, "%s: cannot read descriptor", templatePath).
			WithDetail("template", templatePath)
		return
	}

	d, err := ParseDescriptor(data, format, templatePath)
	if err != nil {
		logger.Debug().Str("template", templatePath).Err(err).Msg("descriptor rejected")
		s.loadErrors[templatePath] = err
		return
	}
	d.Source = name
	s.descriptors[templatePath] = d
}

// Root returns the store root directory
func (s *Snapshot) Root() string { return s.root }

// FS returns the filesystem the snapshot was loaded from
func (s *Snapshot) FS() types.FS { return s.fs }

// Has reports whether a template (valid or broken) exists at templatePath
func (s *Snapshot) Has(templatePath string) bool {
	p := Normalize(templatePath)
	_, ok := s.descriptors[p]
	_, broken := s.loadErrors[p]
	return ok || broken
}

// Descriptor returns a copy of the descriptor at templatePath. A broken
// descriptor returns its SchemaError, an unknown path a NotFoundError.
func (s *Snapshot) Descriptor(templatePath string) (*types.Descriptor, error) {
	p := Normalize(templatePath)
	if err, ok := s.loadErrors[p]; ok {
		return nil, err
	}
	d, ok := s.descriptors[p]
	if !ok {
		return nil, errors.Newf(errors.ErrNotFound, "template %s not found", p).
			WithDetail("template", p)
	}
	return d.Clone(), nil
}

// Paths returns every loadable template path in sorted order
func (s *Snapshot) Paths() []string {
	paths := make([]string, 0, len(s.descriptors))
	for p := range s.descriptors {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// List summarizes the loadable templates, optionally restricted to one
// category, ordered by category then name. Broken descriptors are skipped
// with a warning.
func (s *Snapshot) List(category types.Category) []types.Summary {
	logger := logging.GetLogger("store")
	for p, err := range s.loadErrors {
		logger.Warn().Str("template", p).Err(err).Msg("skipping broken template")
	}

	var out []types.Summary
	for _, p := range s.Paths() {
		d := s.descriptors[p]
		if category != "" && d.Category != category {
			continue
		}
		out = append(out, types.Summary{
			Path:        p,
			Name:        d.Name,
			Version:     d.Version,
			Description: d.Description,
			Category:    d.Category,
			Tags:        append([]string(nil), d.Tags...),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Errors returns the load error of every broken descriptor, keyed by path
func (s *Snapshot) Errors() map[string]error {
	out := make(map[string]error, len(s.loadErrors))
	for p, err := range s.loadErrors {
		out[p] = err
	}
	return out
}

// Dir returns the directory of a template on the store filesystem
func (s *Snapshot) Dir(templatePath string) string {
	return filepath.Join(s.root, filepath.FromSlash(Normalize(templatePath)))
}

// BodyPath returns the location of a file declared by templatePath
func (s *Snapshot) BodyPath(templatePath, rel string) (string, error) {
	clean := path.Clean(filepath.ToSlash(rel))
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", errors.Newf(errors.ErrInvalidInput, "%s: file %s escapes the template directory", templatePath, rel).
			WithDetail("template", templatePath).
			WithDetail("file", rel)
	}
	return filepath.Join(s.Dir(templatePath), filepath.FromSlash(clean)), nil
}

// ReadBody reads a templated file body declared by templatePath
func (s *Snapshot) ReadBody(templatePath, rel string) ([]byte, error) {
	full, err := s.BodyPath(templatePath, rel)
	if err != nil {
		return nil, err
	}
	data, err := s.fs.ReadFile(full)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrNotFound, "%s: file %s not found", templatePath, rel).
			WithDetail("template", templatePath).
			WithDetail("file", rel)
	}
	return data, nil
}

// BodyExists reports whether a declared file is present
func (s *Snapshot) BodyExists(templatePath, rel string) bool {
	full, err := s.BodyPath(templatePath, rel)
	if err != nil {
		return false
	}
	info, err := s.fs.Stat(full)
	return err == nil && !info.IsDir()
}

// Normalize turns a user-supplied template path into store form
func Normalize(templatePath string) string {
	p := path.Clean(strings.Trim(filepath.ToSlash(templatePath), "/"))
	if p == "." {
		return ""
	}
	return p
}
