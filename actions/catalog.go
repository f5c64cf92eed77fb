// Package actions enumerates the fixed action space once: every placement,
// every weapon slot and the pass get a stable integer index for the lifetime
// of the process. Illegal actions are masked, never removed.
package actions

import (
	"fmt"
	"sync"

	"skygrid/game"
)

// Type of an action.
type Type int

const (
	Place Type = iota
	PlayWeapon
	Pass
)

// Action is one catalog entry. Which fields are meaningful depends on Type.
// A weapon action carries no offense/defense identity; the dogfight turn
// order decides its role.
type Action struct {
	Type  Type
	Power int           // Place only
	Pos   game.Position // Place only
	Slot  int           // PlayWeapon only
}

func (a Action) String() string {
	switch a.Type {
	case Place:
		return fmt.Sprintf("PLACE(%d @ %s)", a.Power, a.Pos)
	case PlayWeapon:
		return fmt.Sprintf("WEAPON[%d]", a.Slot)
	default:
		return "PASS"
	}
}

// Size is the catalog size: 9 powers x 9 positions, 4 weapon slots, 1 pass.
const Size = 86

// PassIndex is the catalog index of the pass action.
const PassIndex = Size - 1

// PlaceIndex returns the catalog index of placing power at pos.
func PlaceIndex(power int, pos game.Position) int {
	return (power-2)*9 + pos.Row*3 + pos.Col
}

// WeaponIndex returns the catalog index of playing the given weapon slot.
func WeaponIndex(slot int) int {
	return 81 + slot
}

// Catalog is the immutable action table.
type Catalog struct {
	actions []Action
}

var (
	defaultCatalog *Catalog
	buildOnce      sync.Once
)

// Default returns the process-wide catalog. It is built once and never
// mutated afterwards, so sharing it by reference is safe.
func Default() *Catalog {
	buildOnce.Do(func() {
		defaultCatalog = build()
	})
	return defaultCatalog
}

func build() *Catalog {
	acts := make([]Action, 0, Size)
	for power := 2; power <= 10; power++ {
		for row := 0; row < 3; row++ {
			for col := 0; col < 3; col++ {
				acts = append(acts, Action{
					Type:  Place,
					Power: power,
					Pos:   game.Position{Row: row, Col: col},
				})
			}
		}
	}
	for slot := 0; slot < game.InitialWeapons; slot++ {
		acts = append(acts, Action{Type: PlayWeapon, Slot: slot})
	}
	acts = append(acts, Action{Type: Pass})
	return &Catalog{actions: acts}
}

func (c *Catalog) Size() int { return len(c.actions) }

// Get returns the action at index i.
func (c *Catalog) Get(i int) (Action, error) {
	if i < 0 || i >= len(c.actions) {
		return Action{}, fmt.Errorf("action index %d out of range [0,%d)", i, len(c.actions))
	}
	return c.actions[i], nil
}

// LegalMask reports which actions are legal for p in state s. The mask is the
// single source of truth for legality; no other component re-derives it.
//
// During placement an action is legal iff the player still holds that power
// and does not already occupy the target square (contesting the opponent is
// fine). During dogfights every held weapon slot is legal and pass is always
// legal. Once the game has ended nothing is legal.
func (c *Catalog) LegalMask(s *game.State, p game.Player) []bool {
	mask := make([]bool, len(c.actions))
	res := s.ResourcesOf(p)

	switch s.Phase {
	case game.Placement:
		for i, a := range c.actions {
			if a.Type != Place {
				continue
			}
			if !res.HasUnplaced(a.Power) {
				continue
			}
			if _, mine := s.Square(a.Pos).UnitOf(p); mine {
				continue
			}
			mask[i] = true
		}
	case game.Dogfights:
		for i, a := range c.actions {
			switch a.Type {
			case PlayWeapon:
				mask[i] = a.Slot < res.Weapons
			case Pass:
				mask[i] = true
			}
		}
	}
	return mask
}

// LegalIndices derives the list of legal indices from the mask.
func (c *Catalog) LegalIndices(s *game.State, p game.Player) []int {
	mask := c.LegalMask(s, p)
	indices := make([]int, 0, len(mask))
	for i, ok := range mask {
		if ok {
			indices = append(indices, i)
		}
	}
	return indices
}
