package inspection

import (
	"fmt"
	"strings"
)

// DefaultLocale is the dictation locale the instructions are tuned for.
const DefaultLocale = "fr-FR"

const (
	transcriptBegin = "--- ORIGINAL TRANSCRIPT ---"
	transcriptEnd   = "--- END OF TRANSCRIPT ---"
	narrativeBegin  = "--- CLEANED TEXT ---"
	narrativeEnd    = "--- END OF CLEANED TEXT ---"
)

// NormalizePrompt builds the cleaning instructions and appends raw verbatim.
func NormalizePrompt(locale, raw string) (string, string) {
	if locale == "" {
		locale = DefaultLocale
	}

	systemPrompt := fmt.Sprintf(`You clean dictated transcripts of property inspections.
The inspector dictates in %s. Keep the output in that language.
You only keep information about the inspected property. You never summarise and never invent.`, locale)

	userPrompt := fmt.Sprintf(`Clean the transcript below.

RULES:

1. REMOVE noise:
   - greetings and thanks ("Bonjour monsieur", "Au revoir", "Merci")
   - personal remarks ("Il fait chaud ici", "Je suis fatigué")
   - off-topic questions and answers
   - repeated statements
   - filler sounds ("hum", "euh", "bon", "ben")

2. APPLY CORRECTIONS (last statement wins):
   - When the inspector corrects a value ("Ah non, pardon, c'est du parquet" after "carrelage"),
     keep ONLY the corrected value. Never keep both.
   - Corrections take precedence over everything said earlier.

3. RESOLVE REFERENCES:
   - When a room is "the same as" another room ("même chose que la cuisine"), copy every element
     of that room into the current one, whether the referenced room comes before or after.

4. KEEP EVERYTHING ELSE:
   - Process the whole text. Every room and every fact must appear exactly once in the output.
   - Keep every room unless the inspector explicitly asks to remove it.
   - Keep the building and the floor.

5. LAYOUT:
   - Group by room and start each room with its name.
   - Describe elements in this order: floor, walls, ceiling, windows, doors.
   - For each element give the substrate and the covering when known.
   - Separate rooms with a blank line (two line breaks).
   - Write floors with digits ("1er étage", "2ème étage", "3rd floor"), never in words.

6. OUTPUT:
   - Plain flowing sentences, no bullet lists.
   - No comment about the cleaning itself.
   - Output ONLY the cleaned text.

%s
%s
%s`, transcriptBegin, raw, transcriptEnd)

	return systemPrompt, userPrompt
}

// StructurePrompt builds the structuring instructions and appends the
// narrative verbatim.
func StructurePrompt(narrative Narrative) (string, string) {
	systemPrompt := `You turn cleaned property-inspection text into a single JSON object.
Return ONLY valid JSON. No markdown fences, no commentary.`

	userPrompt := fmt.Sprintf(`Required structure:
{
  "floor": "RECORD-WIDE floor, e.g. '3ème étage', 'rez-de-chaussée', 'sous-sol', 'niveau -1'. Fill it ONLY when a floor is stated for the whole inspection. Otherwise an empty string. Never copy a floor mentioned for a single room here.",
  "rooms": [
    {
      "name": "room name",
      "floor": "floor stated for this room only, otherwise an empty string",
      "elements": [
        {"type": "Sol", "substrate": "Parquet", "covering": ""},
        {"type": "Mur - A", "substrate": "Plâtre", "covering": "Peinture"},
        {"type": "Mur - B", "substrate": "Plâtre", "covering": "Peinture"},
        {"type": "Plafond", "substrate": "Plâtre", "covering": "Peinture"}
      ]
    }
  ]
}

Rules:
- One entry in "rooms" per room, in the order of the text.
- "elements" lists the room surfaces in the order floor, walls, ceiling, windows, doors.
- "covering" is an empty string when no covering is stated.
- Use an empty "elements" array for a room without described surfaces.

%s
%s
%s

JSON only:`, narrativeBegin, strings.TrimSpace(string(narrative)), narrativeEnd)

	return systemPrompt, userPrompt
}
