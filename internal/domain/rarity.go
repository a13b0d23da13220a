package domain

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Rarities lists every tier from lowest to highest.
var Rarities = []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}

func (r Rarity) Valid() bool {
	switch r {
	case RarityCommon, RarityRare, RarityEpic, RarityLegendary:
		return true
	}
	return false
}

type ElementType string

const (
	ElementFire  ElementType = "fire"
	ElementWater ElementType = "water"
	ElementEarth ElementType = "earth"
	ElementAir   ElementType = "air"
	ElementLight ElementType = "light"
	ElementDark  ElementType = "dark"
)
