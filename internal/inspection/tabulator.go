package inspection

import (
	"fmt"
)

// RoomHeader is the column order of the room list sheet.
var RoomHeader = []string{
	"id_classement_champs",
	"Lot",
	"PieceHorsCREP",
	"PieceExterieure",
	"ClefComposant",
	"Batiment",
	"Local",
	"Justification",
	"MoyenAMettreEnOeuvre",
}

// DescriptionHeader is the column order of the room description sheet.
// "Localistion" is spelled as the downstream sheets expect it.
var DescriptionHeader = []string{
	"id_classement_champs",
	"ClefComposant",
	"Localistion",
	"Informations",
	"Type",
	"CREP_degradation",
	"CREP_degradation_Details",
	"CREP_mesure",
	"Data_1",
	"Data_2",
	"Data_3",
	"Data_4",
}

// RoomRow is one line of the room list. Lot, PieceHorsCREP, PieceExterieure,
// Justification and MoyenAMettreEnOeuvre are filled in by hand downstream.
type RoomRow struct {
	Index                string `json:"id_classement_champs"`
	Lot                  string `json:"Lot"`
	PieceHorsCREP        string `json:"PieceHorsCREP"`
	PieceExterieure      string `json:"PieceExterieure"`
	ComponentKey         string `json:"ClefComposant"`
	Building             string `json:"Batiment"`
	Local                string `json:"Local"`
	Justification        string `json:"Justification"`
	MoyenAMettreEnOeuvre string `json:"MoyenAMettreEnOeuvre"`
}

// Values returns the row in RoomHeader order.
func (r RoomRow) Values() []string {
	return []string{
		r.Index, r.Lot, r.PieceHorsCREP, r.PieceExterieure, r.ComponentKey,
		r.Building, r.Local, r.Justification, r.MoyenAMettreEnOeuvre,
	}
}

// DescriptionRow is one element line. Degradation and measurement columns
// are reserved for manual annotation and always empty here.
type DescriptionRow struct {
	Index              string `json:"id_classement_champs"`
	ComponentKey       string `json:"ClefComposant"`
	Location           string `json:"Localistion"`
	Information        string `json:"Informations"`
	Type               string `json:"Type"`
	Degradation        string `json:"CREP_degradation"`
	DegradationDetails string `json:"CREP_degradation_Details"`
	Measure            string `json:"CREP_mesure"`
	Data1              string `json:"Data_1"`
	Data2              string `json:"Data_2"`
	Data3              string `json:"Data_3"`
	Data4              string `json:"Data_4"`
}

// Values returns the row in DescriptionHeader order.
func (r DescriptionRow) Values() []string {
	return []string{
		r.Index, r.ComponentKey, r.Location, r.Information, r.Type,
		r.Degradation, r.DegradationDetails, r.Measure,
		r.Data1, r.Data2, r.Data3, r.Data4,
	}
}

// Export holds both row sets of one tabulation.
type Export struct {
	RoomRows        []RoomRow        `json:"room_rows"`
	DescriptionRows []DescriptionRow `json:"description_rows"`
}

// Tabulator projects a record into export rows.
type Tabulator struct {
	Keys KeyGenerator
}

// NewTabulator uses timestamp keys.
func NewTabulator() *Tabulator {
	return &Tabulator{Keys: NewTimestampKeys()}
}

// Tabulate emits one RoomRow per room and one DescriptionRow per element,
// rooms outer and elements inner. Apart from ComponentKeys the output only
// depends on rec. A nil or empty record yields two empty row sets.
func (t *Tabulator) Tabulate(rec *Record) Export {
	out := Export{
		RoomRows:        []RoomRow{},
		DescriptionRows: []DescriptionRow{},
	}
	if rec == nil {
		return out
	}

	keys := newUniqueKeys(t.Keys)
	for i, room := range rec.Rooms {
		out.RoomRows = append(out.RoomRows, RoomRow{
			Index:        sequence(i),
			ComponentKey: keys.next(i),
			Building:     rec.EffectiveFloor(room),
			Local:        room.Name,
		})
	}

	n := 0
	for _, room := range rec.Rooms {
		location := room.Name
		if floor := rec.EffectiveFloor(room); floor != "" {
			location = floor + " - " + room.Name
		}
		for _, el := range room.Elements {
			out.DescriptionRows = append(out.DescriptionRows, DescriptionRow{
				Index:        sequence(n),
				ComponentKey: keys.next(n),
				Location:     location,
				Information:  information(el),
				Type:         el.Type,
			})
			n++
		}
	}
	return out
}

func sequence(i int) string {
	return fmt.Sprintf("%05d", i)
}

func information(el Element) string {
	info := "Substrate: " + el.Substrate
	if c := deref(el.Covering); c != "" {
		info += " - Covering: " + c
	}
	return info
}

// uniqueKeys regenerates a key that was already handed out in this call.
type uniqueKeys struct {
	gen  KeyGenerator
	seen map[string]struct{}
}

func newUniqueKeys(gen KeyGenerator) *uniqueKeys {
	if gen == nil {
		gen = NewTimestampKeys()
	}
	return &uniqueKeys{gen: gen, seen: make(map[string]struct{})}
}

func (u *uniqueKeys) next(index int) string {
	for attempt := 0; ; attempt++ {
		k := u.gen.Key(index)
		if attempt >= 8 {
			k = fmt.Sprintf("%s_%d", k, attempt)
		}
		if _, dup := u.seen[k]; !dup {
			u.seen[k] = struct{}{}
			return k
		}
	}
}
