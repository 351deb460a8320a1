package inspection

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ExtractJSONObject returns the text between the first '{' and the last '}'
// of a model response, after removing a surrounding code fence. Text between
// the braces is returned untouched. A response cut off
// before its closing brace yields everything from the first '{', so that the
// decoder reports it as truncated. ok is false when there is no '{' at all.
func ExtractJSONObject(raw string) (string, bool) {
	raw = stripCodeFences(raw)
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}
	span := raw[start:]
	if end := strings.LastIndexByte(raw, '}'); end > start {
		span = raw[start : end+1]
	}
	return strings.TrimSpace(span), true
}

// ParseRecord extracts and decodes an inspection record from a raw model
// response. Errors wrap ErrNoJSONFound or ErrMalformedJSON.
func ParseRecord(raw string) (*Record, error) {
	span, ok := ExtractJSONObject(raw)
	if !ok {
		return nil, stageErr(StageStructure, ErrNoJSONFound, raw, nil)
	}
	rec, err := DecodeRecord([]byte(span))
	if err != nil {
		return nil, stageErr(StageStructure, ErrMalformedJSON, span, err)
	}
	return rec, nil
}

// DecodeRecord decodes and validates a JSON inspection record: rooms must be
// an array, each room's elements an array or absent, optional text fields
// default to null.
func DecodeRecord(data []byte) (*Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var w recordWire
	if err := dec.Decode(&w); err != nil {
		return nil, describeJSONError(data, err)
	}
	if dec.More() {
		return nil, errors.New("unexpected data after JSON object")
	}
	if w.Rooms == nil {
		return nil, errors.New(`"rooms" must be an array`)
	}

	rec := &Record{
		Floor: w.Floor.ptr(),
		Rooms: make([]Room, 0, len(*w.Rooms)),
	}
	for _, rw := range *w.Rooms {
		room := Room{
			Name:     rw.Name.value,
			Floor:    rw.Floor.ptr(),
			Elements: []Element{},
		}
		if rw.Elements != nil {
			room.Elements = make([]Element, 0, len(*rw.Elements))
			for _, ew := range *rw.Elements {
				room.Elements = append(room.Elements, ew.element())
			}
		}
		rec.Rooms = append(rec.Rooms, room)
	}
	return rec, nil
}

func describeJSONError(data []byte, err error) error {
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		return fmt.Errorf("syntax error at offset %d: %w", syn.Offset, err)
	}
	var typ *json.UnmarshalTypeError
	if errors.As(err, &typ) {
		return fmt.Errorf("field %q: expected %s, got %s: %w", typ.Field, typ.Type, typ.Value, err)
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("truncated JSON (%d bytes): %w", len(data), err)
	}
	return err
}
