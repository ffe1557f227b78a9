package columns

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Overrides replaces the default keyword list for a semantic field, keyed by
// the field name ("name", "reason", "value", "owner", "product", "date").
// A nil or empty map keeps the defaults.
type Overrides map[string][]string

// LoadOverrides reads a YAML keyword-override file. A missing path returns
// nil overrides, not an error; the defaults cover common exports.
func LoadOverrides(path string) (Overrides, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "columns: read overrides %s", path)
	}

	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, eris.Wrapf(err, "columns: parse overrides %s", path)
	}
	return o, nil
}
