package inspection

import (
	"sync"

	"github.com/invopop/jsonschema"
)

var (
	schemaOnce   sync.Once
	recordSchema *jsonschema.Schema
)

// RecordSchema returns the JSON schema of Record, inlined without $defs so it
// can be sent as a structured-output response format.
func RecordSchema() *jsonschema.Schema {
	schemaOnce.Do(func() {
		r := &jsonschema.Reflector{
			DoNotReference: true,
			ExpandedStruct: true,
		}
		s := r.Reflect(&Record{})
		s.Version = ""
		s.Title = "InspectionRecord"
		recordSchema = s
	})
	return recordSchema
}
