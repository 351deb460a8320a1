package inspection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is the hierarchical inspection record produced by the structurer.
// Floor is nil when no record-wide floor was stated.
type Record struct {
	Floor *string `json:"floor" jsonschema:"description=Record-wide floor or building level. Empty string when no global floor is stated."`
	Rooms []Room  `json:"rooms" jsonschema:"description=Rooms in narration order."`
}

// Room is a single inspected room. Floor overrides the record floor when set.
type Room struct {
	Name     string    `json:"name" jsonschema:"description=Room name as narrated."`
	Floor    *string   `json:"floor" jsonschema:"description=Floor stated for this room only. Empty string when none."`
	Elements []Element `json:"elements" jsonschema:"description=Surfaces of the room: floor then walls then ceiling then windows then doors."`
}

// Element describes one surface of a room.
type Element struct {
	Type      string  `json:"type" jsonschema:"description=Surface category such as Floor or Wall-A or Ceiling."`
	Substrate string  `json:"substrate" jsonschema:"description=Underlying material."`
	Covering  *string `json:"covering" jsonschema:"description=Finish applied on the substrate. Empty string when none."`
}

// EffectiveFloor returns the room floor if set, else the record floor, else "".
func (r *Record) EffectiveFloor(room Room) string {
	if f := deref(room.Floor); f != "" {
		return f
	}
	return deref(r.Floor)
}

// ElementCount returns the number of elements across all rooms.
func (r *Record) ElementCount() int {
	n := 0
	for _, room := range r.Rooms {
		n += len(room.Elements)
	}
	return n
}

// Text returns a pointer to s, or nil when s is blank.
func Text(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// textValue accepts a JSON string, number, boolean or null. Models sometimes
// answer "floor": 3 instead of "floor": "3".
type textValue struct {
	set   bool
	value string
}

func (t *textValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = textValue{}
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = textValue{set: true, value: s}
	case '{', '[':
		return fmt.Errorf("expected text, got %s", kindOf(data[0]))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err == nil {
			*t = textValue{set: true, value: n.String()}
			return nil
		}
		b, err := strconv.ParseBool(string(data))
		if err != nil {
			return fmt.Errorf("expected text, got %s", data)
		}
		*t = textValue{set: true, value: strconv.FormatBool(b)}
	}
	return nil
}

func (t textValue) ptr() *string {
	if !t.set {
		return nil
	}
	return Text(t.value)
}

func (t textValue) str() string {
	return strings.TrimSpace(t.value)
}

func kindOf(b byte) string {
	if b == '{' {
		return "object"
	}
	return "array"
}

// Wire shapes. Pointers to slices tell "absent or null" apart from "[]".
type recordWire struct {
	Floor textValue   `json:"floor"`
	Rooms *[]roomWire `json:"rooms"`
}

type roomWire struct {
	Name     textValue      `json:"name"`
	Floor    textValue      `json:"floor"`
	Elements *[]elementWire `json:"elements"`
}

type elementWire struct {
	Type      textValue `json:"type"`
	Substrate textValue `json:"substrate"`
	Covering  textValue `json:"covering"`

	// Keys used by the French dictation templates.
	Substrat         textValue `json:"substrat"`
	Revetement       textValue `json:"revetement"`
	RevetementAccent textValue `json:"revêtement"`
}

func (w elementWire) element() Element {
	substrate := w.Substrate
	if !substrate.set {
		substrate = w.Substrat
	}
	covering := w.Covering
	if !covering.set {
		covering = w.Revetement
	}
	if !covering.set {
		covering = w.RevetementAccent
	}
	return Element{
		Type:      w.Type.str(),
		Substrate: substrate.str(),
		Covering:  covering.ptr(),
	}
}
