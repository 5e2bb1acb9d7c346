// internal/game/types.go
//
// Core type definitions for the Wordlemon game engine.
// Defines:
//   - Tier: graded closeness of one attribute (exact/partial/near/far).
//   - Mark: tier plus the guess's own display value.
//   - Feedback: one Mark per attribute.
//   - GuessRecord: a history card.
//   - Session: state for a single in-progress or finished game.

package game

import "slices"

// MaxGuesses is the number of wrong guesses that ends a game.
const MaxGuesses = 8

// Tier is the evaluation grade for a single attribute.
// Possible values:
//   - "exact":   guess value equals the target value.
//   - "partial": sets overlap, or stat totals are within 50.
//   - "near":    stat totals are within 100.
//   - "far":     no useful overlap.
type Tier string

const (
	TierExact   Tier = "exact"
	TierPartial Tier = "partial"
	TierNear    Tier = "near"
	TierFar     Tier = "far"
)

// Attribute names a graded property of an entity.
type Attribute string

const (
	AttrType       Attribute = "Type"
	AttrAbility    Attribute = "Ability"
	AttrBST        Attribute = "BST"
	AttrStages     Attribute = "Stages"
	AttrHabitat    Attribute = "Habitat"
	AttrGeneration Attribute = "Generation"
)

// Attributes lists every attribute in display order.
var Attributes = []Attribute{AttrType, AttrAbility, AttrBST, AttrStages, AttrHabitat, AttrGeneration}

// Mark is the feedback for one attribute.
type Mark struct {
	Tier  Tier   `json:"tier"`
	Value string `json:"value"` // the guess's value, ready for display
}

// Feedback maps each attribute to its Mark.
type Feedback map[Attribute]Mark

// AllExact reports whether every attribute was graded exact.
func (f Feedback) AllExact() bool {
	for _, a := range Attributes {
		if m, ok := f[a]; !ok || m.Tier != TierExact {
			return false
		}
	}
	return true
}

// GuessRecord is one card in the guess history.
type GuessRecord struct {
	Name     string   `json:"name"`     // display name as guessed (may be a variant)
	Feedback Feedback `json:"feedback"` // computed on canonical species records
	Types    []string `json:"types"`    // the guessed form's own types, for display
}

// Outcome is the coarse state of a session.
type Outcome string

const (
	InProgress Outcome = "in_progress"
	Won        Outcome = "won"
	Lost       Outcome = "lost"
)

// Session holds the state of a single game.
type Session struct {
	Target         string        `json:"target,omitempty"`         // target name; empty once resolved
	Guesses        []GuessRecord `json:"guesses"`                  // wrong guesses, newest first
	Species        []string      `json:"species"`                  // species keys already tried
	Count          int           `json:"count"`                    // accepted guesses, winning one included
	Outcome        Outcome       `json:"outcome"`                  // in_progress | won | lost
	ResolvedTarget string        `json:"resolvedTarget,omitempty"` // set once Outcome is terminal
}

// Finished reports whether the session reached a terminal outcome.
func (s *Session) Finished() bool { return s.Outcome == Won || s.Outcome == Lost }

// Tried reports whether a species key was already guessed.
func (s *Session) Tried(species string) bool { return slices.Contains(s.Species, species) }

// Clone returns a deep copy, so stores can hand out snapshots.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Species = slices.Clone(s.Species)
	c.Guesses = make([]GuessRecord, len(s.Guesses))
	for i, g := range s.Guesses {
		fb := make(Feedback, len(g.Feedback))
		for k, v := range g.Feedback {
			fb[k] = v
		}
		c.Guesses[i] = GuessRecord{Name: g.Name, Feedback: fb, Types: slices.Clone(g.Types)}
	}
	return &c
}
