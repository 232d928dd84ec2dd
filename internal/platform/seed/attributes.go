// Package seed reads attribute definitions from YAML files.
package seed

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"stock_screener/internal/domain/entity"
)

// attributeFile is the top-level layout of an attribute seed file.
type attributeFile struct {
	Attributes []entity.Attribute `yaml:"attributes"`
}

// LoadAttributes decodes an attribute seed document. Unknown keys are rejected.
func LoadAttributes(r io.Reader) ([]entity.Attribute, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f attributeFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode attribute seed: %w", err)
	}
	return f.Attributes, nil
}

// LoadAttributesFile reads the seed file at path.
func LoadAttributesFile(path string) ([]entity.Attribute, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadAttributes(f)
}
