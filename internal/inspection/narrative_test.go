package inspection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigitizeFloorOrdinals(t *testing.T) {
	cases := [][2]string{
		{"Kitchen on the third floor", "Kitchen on the 3rd floor"},
		{"First floor landing", "1st floor landing"},
		{"the twelfth storey", "the 12th storey"},
		{"the twenty-first floor", "the twenty-first floor"},
		{"Bureau au premier étage", "Bureau au 1er étage"},
		{"Chambre au Deuxième étage", "Chambre au 2ème étage"},
		{"au dix-septième étage", "au 17ème étage"},
		{"première étage", "1ère étage"},
		{"deuxième sous-sol", "2ème sous-sol"},
		{"second étage, bâtiment B", "2ème étage, bâtiment B"},
		{"le deuxième mur est en plâtre", "le deuxième mur est en plâtre"},
		{"already 4th floor and 3ème étage", "already 4th floor and 3ème étage"},
		{"third wall, second door", "third wall, second door"},
		{"rez-de-chaussée puis troisième étage", "rez-de-chaussée puis 3ème étage"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc[1], DigitizeFloorOrdinals(tc[0]), tc[0])
	}
}

func TestNarrativeBlocks(t *testing.T) {
	n := Narrative("Cuisine : sol en parquet.\n\n\nSalon : murs en plâtre.\n\n  \n\nChambre : plafond peint.")
	assert.Equal(t, []string{
		"Cuisine : sol en parquet.",
		"Salon : murs en plâtre.",
		"Chambre : plafond peint.",
	}, n.Blocks())
	assert.Empty(t, Narrative("").Blocks())
}

func TestTidyNarrativeSeparators(t *testing.T) {
	got := tidyNarrative("Cuisine\n===\nSalon\n***\nChambre")
	assert.Equal(t, Narrative("Cuisine\n\nSalon\n\nChambre"), got)
}
