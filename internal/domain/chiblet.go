package domain

import "time"

// Species is the immutable template a chiblet is instantiated from.
type Species struct {
	ID          int64       `db:"id" json:"id"`
	Name        string      `db:"name" json:"name"`
	Type        ElementType `db:"type" json:"type"`
	Rarity      Rarity      `db:"rarity" json:"rarity"`
	BaseHP      int         `db:"base_hp" json:"base_hp"`
	BaseAttack  int         `db:"base_attack" json:"base_attack"`
	BaseDefense int         `db:"base_defense" json:"base_defense"`
	Sprite      string      `db:"sprite" json:"sprite"`
	Description string      `db:"description" json:"description"`
}

// Chiblet is a creature owned by a single user.
// Rarity and SpeciesName are read from the species row.
type Chiblet struct {
	ID              int64     `db:"id" json:"id"`
	UserID          int64     `db:"user_id" json:"user_id"`
	SpeciesID       int64     `db:"species_id" json:"species_id"`
	SpeciesName     string    `db:"species_name" json:"species_name"`
	Rarity          Rarity    `db:"rarity" json:"rarity"`
	Level           int       `db:"level" json:"level"`
	Experience      int64     `db:"experience" json:"experience"`
	HP              int       `db:"hp" json:"hp"`
	MaxHP           int       `db:"max_hp" json:"max_hp"`
	Attack          int       `db:"attack" json:"attack"`
	Defense         int       `db:"defense" json:"defense"`
	Energy          int       `db:"energy" json:"energy"`
	EnergyUpdatedAt time.Time `db:"energy_updated_at" json:"energy_updated_at"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	CustomName      string    `db:"custom_name" json:"custom_name,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// DisplayName returns the custom name when set, otherwise the species name.
func (c *Chiblet) DisplayName() string {
	if c.CustomName != "" {
		return c.CustomName
	}
	return c.SpeciesName
}
