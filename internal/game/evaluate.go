// internal/game/evaluate.go
//
// Attribute grading. Evaluate is a pure function of two catalog records.
//
// Rules:
//   - Set attributes (types, abilities, habitats): exact when the sets are
//     equal, partial when they intersect, far otherwise.
//   - Base stat total: exact when equal, partial within 50, near within 100,
//     far otherwise. Checked in that order.
//   - Ordinals (evolution stage, generation): exact or far.

package game

import (
	"strconv"
	"strings"

	"github.com/robalobadob/wordlemon/internal/catalog"
)

const (
	bstPartialWithin = 50
	bstNearWithin    = 100
)

// Evaluate grades guess against target on every attribute.
func Evaluate(guess, target catalog.Entity) Feedback {
	return Feedback{
		AttrType:       {Tier: compareSets(guess.Types, target.Types), Value: strings.Join(guess.Types, " / ")},
		AttrAbility:    {Tier: compareSets(guess.Abilities, target.Abilities), Value: strings.Join(guess.Abilities, " / ")},
		AttrBST:        {Tier: compareTotal(guess.BST, target.BST), Value: strconv.Itoa(guess.BST)},
		AttrStages:     {Tier: compareOrdinal(guess.Stages, target.Stages), Value: strconv.Itoa(guess.Stages)},
		AttrHabitat:    {Tier: compareSets(guess.Habitats, target.Habitats), Value: strings.Join(guess.Habitats, " + ")},
		AttrGeneration: {Tier: compareOrdinal(guess.Generation, target.Generation), Value: strconv.Itoa(guess.Generation)},
	}
}

// Reveal builds the end-of-game card for e. Self-evaluation is all exact.
func Reveal(e catalog.Entity) GuessRecord {
	return GuessRecord{Name: e.Name, Feedback: Evaluate(e, e), Types: e.Types}
}

// compareSets grades two tag lists as unordered sets.
func compareSets(guess, target []string) Tier {
	g, t := toSet(guess), toSet(target)
	overlap := 0
	for k := range g {
		if _, ok := t[k]; ok {
			overlap++
		}
	}
	switch {
	case overlap == len(g) && overlap == len(t):
		return TierExact
	case overlap > 0:
		return TierPartial
	}
	return TierFar
}

// compareTotal grades two base stat totals by absolute difference.
func compareTotal(guess, target int) Tier {
	d := guess - target
	if d < 0 {
		d = -d
	}
	switch {
	case d == 0:
		return TierExact
	case d <= bstPartialWithin:
		return TierPartial
	case d <= bstNearWithin:
		return TierNear
	}
	return TierFar
}

// compareOrdinal is a binary equal/not-equal grade.
func compareOrdinal(guess, target int) Tier {
	if guess == target {
		return TierExact
	}
	return TierFar
}

func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, v := range list {
		m[v] = struct{}{}
	}
	return m
}
