package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/robalobadob/wordlemon/internal/catalog"
)

func TestEvaluate_WorkedExample(t *testing.T) {
	target := catalog.Entity{
		Name: "Target", Types: []string{"fire"}, Abilities: []string{"blaze"},
		BST: 500, Stages: 2, Habitats: []string{"mountain"}, Generation: 4,
	}
	guess := catalog.Entity{
		Name: "Guess", Types: []string{"fire", "flying"}, Abilities: []string{"blaze"},
		BST: 460, Stages: 2, Habitats: []string{"cave"}, Generation: 3,
	}

	fb := Evaluate(guess, target)

	assert.Equal(t, TierPartial, fb[AttrType].Tier)
	assert.Equal(t, TierPartial, fb[AttrBST].Tier)
	assert.Equal(t, TierExact, fb[AttrStages].Tier)
	assert.Equal(t, TierFar, fb[AttrGeneration].Tier)
	assert.Equal(t, TierFar, fb[AttrHabitat].Tier)
	assert.Equal(t, TierExact, fb[AttrAbility].Tier)
}

func TestEvaluate_DisplayValues(t *testing.T) {
	e := catalog.Entity{
		Types: []string{"fire", "flying"}, Abilities: []string{"blaze", "solar-power"},
		BST: 534, Stages: 3, Habitats: []string{"mountain", "cave"}, Generation: 1,
	}
	fb := Evaluate(e, e)

	assert.Equal(t, "fire / flying", fb[AttrType].Value)
	assert.Equal(t, "blaze / solar-power", fb[AttrAbility].Value)
	assert.Equal(t, "534", fb[AttrBST].Value)
	assert.Equal(t, "3", fb[AttrStages].Value)
	assert.Equal(t, "mountain + cave", fb[AttrHabitat].Value)
	assert.Equal(t, "1", fb[AttrGeneration].Value)
	assert.Len(t, fb, len(Attributes))
}

func TestCompareTotal_Boundaries(t *testing.T) {
	cases := []struct {
		diff int
		want Tier
	}{
		{0, TierExact},
		{1, TierPartial},
		{50, TierPartial},
		{51, TierNear},
		{100, TierNear},
		{101, TierFar},
		{400, TierFar},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, compareTotal(500+tc.diff, 500), "diff +%d", tc.diff)
		assert.Equal(t, tc.want, compareTotal(500-tc.diff, 500), "diff -%d", tc.diff)
	}
}

func TestCompareSets(t *testing.T) {
	assert.Equal(t, TierExact, compareSets([]string{"fire", "flying"}, []string{"flying", "fire"}))
	assert.Equal(t, TierPartial, compareSets([]string{"fire"}, []string{"fire", "flying"}))
	assert.Equal(t, TierFar, compareSets([]string{"water"}, []string{"fire", "flying"}))
	assert.Equal(t, TierExact, compareSets(nil, []string{}))
	// duplicates do not change set identity
	assert.Equal(t, TierExact, compareSets([]string{"fire", "fire"}, []string{"fire"}))
}

func TestCompareOrdinal_NeverPartial(t *testing.T) {
	assert.Equal(t, TierExact, compareOrdinal(2, 2))
	assert.Equal(t, TierFar, compareOrdinal(2, 3))
}

var tags = []string{"fire", "water", "grass", "rock", "ghost", "cave", "forest"}

func genTags(t *rapid.T, label string) []string {
	return rapid.SliceOfNDistinct(rapid.SampledFrom(tags), 0, 3, rapid.ID[string]).Draw(t, label)
}

func genEntity(t *rapid.T, label string) catalog.Entity {
	return catalog.Entity{
		Name:       rapid.StringMatching(`[A-Z][a-z]{2,8}`).Draw(t, label+"Name"),
		Types:      genTags(t, label+"Types"),
		Abilities:  genTags(t, label+"Abilities"),
		BST:        rapid.IntRange(150, 780).Draw(t, label+"BST"),
		Stages:     rapid.IntRange(1, 3).Draw(t, label+"Stages"),
		Habitats:   genTags(t, label+"Habitats"),
		Generation: rapid.IntRange(1, 9).Draw(t, label+"Generation"),
	}
}

// Property: self-evaluation is exact on every attribute.
func TestEvaluate_SelfIsAllExact(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := genEntity(t, "e")
		if !Evaluate(e, e).AllExact() {
			t.Fatalf("self evaluation of %+v not all exact", e)
		}
	})
}

// Property: for set attributes, exact holds in one direction iff in the other.
func TestEvaluate_SetExactIsSymmetric(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a, b := genEntity(t, "a"), genEntity(t, "b")
		ab, ba := Evaluate(a, b), Evaluate(b, a)
		for _, attr := range []Attribute{AttrType, AttrAbility, AttrHabitat} {
			if (ab[attr].Tier == TierExact) != (ba[attr].Tier == TierExact) {
				t.Fatalf("%s: exact not symmetric (%s vs %s)", attr, ab[attr].Tier, ba[attr].Tier)
			}
		}
	})
}

// Property: stat total tiers never get stricter as the difference grows.
func TestCompareTotal_Monotonic(t *testing.T) {
	rank := map[Tier]int{TierExact: 0, TierPartial: 1, TierNear: 2, TierFar: 3}
	rapid.Check(t, func(t *rapid.T) {
		target := rapid.IntRange(150, 780).Draw(t, "target")
		d1 := rapid.IntRange(0, 300).Draw(t, "d1")
		d2 := rapid.IntRange(d1, 300).Draw(t, "d2")
		if rank[compareTotal(target+d1, target)] > rank[compareTotal(target+d2, target)] {
			t.Fatalf("tier for diff %d stricter than for %d", d2, d1)
		}
	})
}
