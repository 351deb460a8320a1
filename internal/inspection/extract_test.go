package inspection

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"plain", `{"rooms":[]}`, `{"rooms":[]}`, true},
		{"fenced", "```json\n{\"rooms\":[]}\n```", `{"rooms":[]}`, true},
		{"chatter", "Here you go:\n{\"a\":{\"b\":1}}\nHope it helps!", `{"a":{"b":1}}`, true},
		{"truncated", `{"rooms": [`, `{"rooms": [`, true},
		{"none", "I could not find any rooms.", "", false},
		{"closing only", "} oops", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tc.raw)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseRecordNoJSON(t *testing.T) {
	_, err := ParseRecord("Sorry, there is nothing to structure here.")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoJSONFound)
	assert.NotErrorIs(t, err, ErrMalformedJSON)

	var se *StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, StageStructure, se.Stage)
	assert.Equal(t, "Sorry, there is nothing to structure here.", se.Text)
}

func TestParseRecordTruncated(t *testing.T) {
	_, err := ParseRecord(`{"rooms": [`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedJSON)
	assert.NotErrorIs(t, err, ErrNoJSONFound)

	var se *StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, `{"rooms": [`, se.Text)
	assert.Contains(t, err.Error(), "truncated")
}

func TestParseRecordMalformed(t *testing.T) {
	for _, raw := range []string{
		`{"floor": "1st floor", "rooms": {"name": "Kitchen"}}`,
		`{"floor": "1st floor"}`,
		`{"rooms": null}`,
		`{"rooms": [{"name": "Kitchen", "elements": "none"}]}`,
		`{"rooms": [{"name": {"x": 1}}]}`,
		`{rooms: []}`,
	} {
		_, err := ParseRecord(raw)
		assert.ErrorIs(t, err, ErrMalformedJSON, raw)
	}
}

func TestParseRecordDefaults(t *testing.T) {
	raw := "```json\n" + `{
  "floor": "",
  "rooms": [
    {"name": "Bureau Lot 7-8", "elements": [
      {"type": "Sol", "substrat": "Parquet"},
      {"type": "Mur - A", "substrat": "Plâtre", "revetement": "Peinture"}
    ]},
    {"name": "Local technique", "floor": 2},
    {"name": "Couloir", "floor": null, "elements": []}
  ]
}` + "\n```"

	rec, err := ParseRecord(raw)
	require.NoError(t, err)

	assert.Nil(t, rec.Floor, "empty global floor becomes null")
	require.Len(t, rec.Rooms, 3)

	bureau := rec.Rooms[0]
	assert.Equal(t, "Bureau Lot 7-8", bureau.Name)
	assert.Nil(t, bureau.Floor)
	require.Len(t, bureau.Elements, 2)
	assert.Equal(t, "Parquet", bureau.Elements[0].Substrate)
	assert.Nil(t, bureau.Elements[0].Covering)
	require.NotNil(t, bureau.Elements[1].Covering)
	assert.Equal(t, "Peinture", *bureau.Elements[1].Covering)

	local := rec.Rooms[1]
	require.NotNil(t, local.Floor)
	assert.Equal(t, "2", *local.Floor)
	assert.NotNil(t, local.Elements)
	assert.Empty(t, local.Elements)

	assert.Empty(t, rec.Rooms[2].Elements)
}

func TestParseRecordKeepsBackticksInsideValues(t *testing.T) {
	raw := "```json\n" + `{"floor": null, "rooms": [{"name": "  Salle ` + "```x```" + ` ", "elements": [{"type": "Mur", "substrate": "a` + "```" + `b"}]}]}` + "\n```"

	rec, err := ParseRecord(raw)
	require.NoError(t, err)
	require.Len(t, rec.Rooms, 1)
	assert.Equal(t, "  Salle ```x``` ", rec.Rooms[0].Name, "room name is kept verbatim")
	assert.Equal(t, "a```b", rec.Rooms[0].Elements[0].Substrate)

	span, ok := ExtractJSONObject("```\n{\"a\":\"```x\"}\n```")
	require.True(t, ok)
	assert.Equal(t, "{\"a\":\"```x\"}", span)
}

func TestParseRecordRoomFloorIsNotPromoted(t *testing.T) {
	rec, err := ParseRecord(`{"floor": "", "rooms": [{"name": "Cave", "floor": "Sous-sol", "elements": []}]}`)
	require.NoError(t, err)
	assert.Nil(t, rec.Floor)
	assert.Equal(t, "Sous-sol", rec.EffectiveFloor(rec.Rooms[0]))
}

func TestRecordMarshalsNulls(t *testing.T) {
	rec := &Record{Rooms: []Room{{Name: "Hall", Elements: []Element{{Type: "Floor", Substrate: "Tile"}}}}}
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"floor":null,"rooms":[{"name":"Hall","floor":null,"elements":[{"type":"Floor","substrate":"Tile","covering":null}]}]}`,
		string(data))
}

func TestRecordSchema(t *testing.T) {
	s := RecordSchema()
	require.NotNil(t, s)
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"rooms"`)
	assert.Contains(t, string(data), `"substrate"`)
	assert.NotContains(t, string(data), `"$ref"`)
}
