package catalog

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/llmcost-cli/internal/model"
)

// catalogFile is the on-disk YAML shape of a catalog override.
type catalogFile struct {
	Models []model.ModelDescriptor `yaml:"models"`
}

// LoadFile reads a catalog override from a YAML file. The file replaces the
// built-in table wholesale; it goes through the same validation, so a broken
// override fails at startup.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read %s", path)
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrapf(err, "catalog: parse %s", path)
	}

	return New(f.Models)
}

// Load returns the catalog from the override file when path is non-empty,
// otherwise the built-in default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}
