package config

import (
	"errors"

	"github.com/invopop/jsonschema"
)

// JSONSchema reflects the Config struct into a JSON Schema document.
// Backs the `recall json-schema` command so config.yaml can be validated
// in editors.
func JSONSchema() ([]byte, error) {
	schema := jsonschema.Reflect(&Config{})
	if schema == nil {
		return nil, errors.New("reflected config schema is nil")
	}
	return schema.MarshalJSON()
}
