package model

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// NamedScenario is one entry in a batch fixture file.
type NamedScenario struct {
	Name     string   `yaml:"name"`
	Scenario Scenario `yaml:",inline"`
}

// FixtureFile is the on-disk shape of a batch fixture.
type FixtureFile struct {
	Scenarios []NamedScenario `yaml:"scenarios"`
}

// LoadFixtures reads a YAML fixture file of named scenarios.
func LoadFixtures(path string) ([]NamedScenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "model: read fixture file %s", path)
	}

	var file FixtureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, eris.Wrapf(err, "model: parse fixture file %s", path)
	}
	if len(file.Scenarios) == 0 {
		return nil, eris.Errorf("model: fixture file %s contains no scenarios", path)
	}

	for i, sc := range file.Scenarios {
		if sc.Name == "" {
			return nil, eris.Errorf("model: fixture %d in %s has no name", i, path)
		}
	}
	return file.Scenarios, nil
}
