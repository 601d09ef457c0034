package feed

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

var (
	//go:embed schema.json
	envelopeSchema string
	//go:embed record_schema.json
	recordSchema string
)

type lazySchema struct {
	once   sync.Once
	source string
	schema *gojsonschema.Schema
	err    error
}

func (l *lazySchema) get() (*gojsonschema.Schema, error) {
	l.once.Do(func() {
		l.schema, l.err = gojsonschema.NewSchema(gojsonschema.NewStringLoader(l.source))
	})
	return l.schema, l.err
}

var (
	envelope = &lazySchema{source: envelopeSchema}
	record   = &lazySchema{source: recordSchema}
)

// maxSchemaErrors limits how many violations are echoed in an error.
const maxSchemaErrors = 5

// ValidateDocument checks the vote log envelope against the JSON schema.
// Individual records are checked by ValidateRecord.
func ValidateDocument(body []byte) error {
	return validate(envelope, body)
}

// ValidateRecord checks a single `_default` entry against the vote schema.
func ValidateRecord(raw []byte) error {
	return validate(record, raw)
}

func validate(l *lazySchema, body []byte) error {
	s, err := l.get()
	if err != nil {
		return fmt.Errorf("%w: compile: %w", ErrSchema, err)
	}
	result, err := s.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		// The document is not parseable JSON.
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if result.Valid() {
		return nil
	}

	var errs []string
	for i, desc := range result.Errors() {
		if i == maxSchemaErrors {
			errs = append(errs, fmt.Sprintf("and %d more", len(result.Errors())-maxSchemaErrors))
			break
		}
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrSchema, strings.Join(errs, ", "))
}
