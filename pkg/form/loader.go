package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog keeps the definitions parsed from form documents. It is safe for
// concurrent readers when treated as immutable after construction.
type Catalog struct {
	forms map[string]Definition
	order []string
}

// NewCatalog builds a catalog from already decoded definitions. Every
// definition is normalised and validated.
func NewCatalog(defs ...Definition) (*Catalog, error) {
	c := &Catalog{forms: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		if err := c.add(def, ""); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Get returns the definition for id.
func (c *Catalog) Get(id string) (Definition, bool) {
	if c == nil {
		return Definition{}, false
	}
	def, ok := c.forms[id]
	if !ok {
		return Definition{}, false
	}
	return def.Clone(), true
}

// All returns every definition in load order.
func (c *Catalog) All() []Definition {
	if c == nil {
		return nil
	}
	out := make([]Definition, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.forms[id].Clone())
	}
	return out
}

// Len reports how many definitions the catalog holds.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

func (c *Catalog) add(def Definition, source string) error {
	def.Normalize()
	if err := def.Validate(); err != nil {
		var defErr *DefinitionError
		if errors.As(err, &defErr) {
			defErr.Source = source
		}
		return err
	}
	if _, exists := c.forms[def.ID]; exists {
		if source == "" {
			return fmt.Errorf("form: duplicate form %q", def.ID)
		}
		return fmt.Errorf("form: duplicate form %q (file %s)", def.ID, source)
	}
	c.forms[def.ID] = def
	c.order = append(c.order, def.ID)
	return nil
}

// LoadFS walks the provided filesystem and parses JSON/YAML form documents.
// When fsys is nil or holds no form files, the returned catalog is empty.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	catalog := &Catalog{forms: make(map[string]Definition)}
	if fsys == nil {
		return catalog, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isFormFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("form: read %s: %w", path, err)
		}

		defs, err := Parse(data, path)
		if err != nil {
			return err
		}
		for _, def := range defs {
			if err := catalog.add(def, path); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return catalog, nil
}

// LoadPath loads a single form document or every form document below a
// directory.
func LoadPath(path string) (*Catalog, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, errors.New("form: path is required")
	}
	info, err := os.Stat(trimmed)
	if err != nil {
		return nil, fmt.Errorf("form: stat %s: %w", trimmed, err)
	}
	if info.IsDir() {
		return LoadFS(os.DirFS(trimmed))
	}

	data, err := os.ReadFile(trimmed)
	if err != nil {
		return nil, fmt.Errorf("form: read %s: %w", trimmed, err)
	}
	defs, err := Parse(data, trimmed)
	if err != nil {
		return nil, err
	}
	catalog := &Catalog{forms: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		if err := catalog.add(def, trimmed); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

type documentFile struct {
	Forms []Definition `json:"forms" yaml:"forms"`
}

// Parse decodes a JSON or YAML document holding either a single definition or
// a "forms" list. Definitions are returned as decoded; callers validate them.
func Parse(data []byte, source string) ([]Definition, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("form: file %s is empty", source)
	}

	if defs, err := decodeJSON(data); err == nil {
		return defs, nil
	}
	if defs, err := decodeYAML(data); err == nil {
		return defs, nil
	}

	return nil, fmt.Errorf("form: parse %s: invalid JSON or YAML", source)
}

func decodeJSON(data []byte) ([]Definition, error) {
	var doc documentFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Forms) > 0 {
		return doc.Forms, nil
	}
	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, err
	}
	return []Definition{def}, nil
}

func decodeYAML(data []byte) ([]Definition, error) {
	var doc documentFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Forms) > 0 {
		return doc.Forms, nil
	}
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, err
	}
	return []Definition{def}, nil
}

func isFormFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
