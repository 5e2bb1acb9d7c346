// internal/game/engine.go
//
// Session state machine for a single Wordlemon game.
// Responsibilities:
//   - Create sessions around a chosen target.
//   - Apply resolved guesses: species dedup, canonical grading, history.
//   - Track state transitions: in_progress → won/lost.
//
// Notes:
//   - Name resolution happens before Apply (see the controller); Apply only
//     ever sees entities that exist in the catalog.
//   - Grading always uses the canonical record of each species, so cosmetic
//     forms of one species score identically.
package game

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/robalobadob/wordlemon/internal/catalog"
)

var (
	// ErrInvalidName is returned when a guess does not name a catalog entity.
	ErrInvalidName = errors.New("invalid name")
	// ErrDuplicateSpecies matches any *DuplicateSpeciesError.
	ErrDuplicateSpecies = errors.New("species already guessed")
	// ErrFinished is returned when guessing on a won or lost session.
	ErrFinished = errors.New("game finished")
)

// DuplicateSpeciesError reports a guess whose species was already tried.
type DuplicateSpeciesError struct {
	Species string
}

func (e *DuplicateSpeciesError) Error() string {
	return fmt.Sprintf("species %q already guessed", e.Species)
}

func (e *DuplicateSpeciesError) Is(target error) bool { return target == ErrDuplicateSpecies }

// DisplaySpecies returns the species key with its first letter upper-cased.
func (e *DuplicateSpeciesError) DisplaySpecies() string {
	r, size := utf8.DecodeRuneInString(e.Species)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r)) + e.Species[size:]
}

// SpeciesResolver supplies entity and canonical species records;
// *catalog.Catalog satisfies it.
type SpeciesResolver interface {
	Resolve(name string) (catalog.Entity, bool)
	ResolveSpecies(key string) (catalog.Entity, bool)
}

// NewSession starts an in-progress game against target.
func NewSession(target string) *Session {
	return &Session{
		Target:  target,
		Guesses: []GuessRecord{},
		Species: []string{},
		Outcome: InProgress,
	}
}

// Apply grades a resolved guess and advances the session.
//
// Validation rules:
//   - Session must not be finished (ErrFinished).
//   - The guess's species must not have been tried (*DuplicateSpeciesError).
//
// State transitions:
//   - Same species as the target → Won. The winning guess is counted but not
//     added to the history.
//   - Otherwise the card is prepended to the history; once the history holds
//     MaxGuesses cards → Lost.
//
// Rejections leave the session untouched. The returned record is the graded
// card for this guess.
func (s *Session) Apply(guess catalog.Entity, species SpeciesResolver) (*GuessRecord, error) {
	if s.Finished() {
		return nil, ErrFinished
	}
	if s.Tried(guess.Species) {
		return nil, &DuplicateSpeciesError{Species: guess.Species}
	}

	target, ok := species.Resolve(s.Target)
	if !ok {
		return nil, fmt.Errorf("game: unknown target %q", s.Target)
	}
	guessCmp := canonical(species, guess.Species, guess)
	targetCmp := canonical(species, target.Species, target)

	card := &GuessRecord{
		Name:     guess.Name,
		Feedback: Evaluate(guessCmp, targetCmp),
		Types:    guess.Types,
	}
	s.Count++

	if guess.Species == target.Species {
		s.resolve(Won)
		return card, nil
	}

	s.Guesses = append([]GuessRecord{*card}, s.Guesses...)
	s.Species = append(s.Species, guess.Species)
	if len(s.Guesses) >= MaxGuesses {
		s.resolve(Lost)
	}
	return card, nil
}

// resolve moves the session to a terminal outcome and hides the target.
func (s *Session) resolve(o Outcome) {
	s.Outcome = o
	s.ResolvedTarget = s.Target
	s.Target = ""
}

// canonical returns the species' canonical record, or fallback when the
// resolver does not know the species.
func canonical(species SpeciesResolver, key string, fallback catalog.Entity) catalog.Entity {
	if e, ok := species.ResolveSpecies(key); ok {
		return e
	}
	return fallback
}
