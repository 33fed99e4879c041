// Package schema validates tsdl configuration documents against the embedded
// JSON schema.
package schema

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	schemafs "github.com/AndreyAkinshin/tsdl/schema"
)

// ConfigSchema is the name of the configuration schema in the embedded FS.
const ConfigSchema = "config.schema.json"

var configSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	data, err := schemafs.FS.ReadFile(ConfigSchema)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ConfigSchema, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", ConfigSchema, err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(ConfigSchema, doc); err != nil {
		return nil, fmt.Errorf("add %s: %w", ConfigSchema, err)
	}
	return c.Compile(ConfigSchema)
})

// ViolationError is the first schema violation of a document.
type ViolationError struct {
	Path    string // slash separated, "/" for the document itself
	Message string
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("invalid configuration at %s: %s", e.Path, e.Message)
}

// ValidateConfig checks a JSON document against the configuration schema.
// TOML and YAML documents are converted to JSON by the caller.
func ValidateConfig(data []byte) error {
	sch, err := configSchema()
	if err != nil {
		return err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	err = sch.Validate(doc)
	var verr *jsonschema.ValidationError
	if errors.As(err, &verr) {
		return violation(verr)
	}
	return err
}

// violation follows the error tree down to one leaf. At each level it prefers
// causes that are not plain type mismatches, so that a oneOf failure reports
// the branch matching the instance's type, then the deepest instance location.
func violation(e *jsonschema.ValidationError) *ViolationError {
	for len(e.Causes) > 0 {
		e = bestCause(e.Causes)
	}
	return &ViolationError{
		Path:    "/" + strings.Join(e.InstanceLocation, "/"),
		Message: e.ErrorKind.LocalizedString(message.NewPrinter(language.English)),
	}
}

func bestCause(causes []*jsonschema.ValidationError) *jsonschema.ValidationError {
	best := causes[0]
	for _, c := range causes[1:] {
		if better(c, best) {
			best = c
		}
	}
	return best
}

func better(a, b *jsonschema.ValidationError) bool {
	aType, bType := isTypeMismatch(a), isTypeMismatch(b)
	if aType != bType {
		return bType
	}
	return len(a.InstanceLocation) > len(b.InstanceLocation)
}

func isTypeMismatch(e *jsonschema.ValidationError) bool {
	_, ok := e.ErrorKind.(*kind.Type)
	return ok
}
