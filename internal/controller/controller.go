// internal/controller/controller.go
//
// Game controller: orchestrates one request against a player's session.
// Responsibilities:
//   - Load the player's session, creating one when absent or finished.
//   - Resolve the raw guess in the catalog and apply it to the session.
//   - Persist in-progress sessions; clear won/lost ones.
//   - Assemble the Result bundle for presentation (history, counts, reveal).
//
// Concurrency:
//   Every operation on a key runs under that key's mutex, so a session's
//   read-modify-write is never interleaved. Different keys do not contend.
package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordlemon/internal/catalog"
	"github.com/robalobadob/wordlemon/internal/game"
	"github.com/robalobadob/wordlemon/internal/store"
)

// Reason codes reported for rejected guesses.
const (
	ReasonInvalidName      = "invalid_name"
	ReasonDuplicateSpecies = "duplicate_species"
)

// Result is the response bundle for one request.
type Result struct {
	Accepted   bool               `json:"accepted"`
	Reason     string             `json:"reason,omitempty"` // set when Accepted is false
	Err        error              `json:"-"`                // game.ErrInvalidName or *game.DuplicateSpeciesError
	Message    string             `json:"message,omitempty"`
	Guess      *game.GuessRecord  `json:"guess,omitempty"` // card for the accepted guess
	Outcome    game.Outcome       `json:"outcome"`
	History    []game.GuessRecord `json:"history"` // wrong guesses, newest first
	GuessCount int                `json:"guessCount"`
	MaxGuesses int                `json:"maxGuesses"`
	Target     string             `json:"target,omitempty"` // only once the game is over
	Reveal     *game.GuessRecord  `json:"reveal,omitempty"` // target's all-exact card
}

// Controller wires catalog, session store and target picker together.
type Controller struct {
	catalog *catalog.Catalog
	store   store.Store
	picker  game.Picker
	locks   *keyedMutex
}

// New constructs a Controller. A nil picker means game.RandomPicker.
func New(cat *catalog.Catalog, st store.Store, picker game.Picker) *Controller {
	if picker == nil {
		picker = game.RandomPicker{}
	}
	return &Controller{catalog: cat, store: st, picker: picker, locks: newKeyedMutex()}
}

// Names lists every catalog name, sorted, for autocomplete.
func (c *Controller) Names() []string { return c.catalog.Names() }

// Submit applies one raw guess to the player's session.
//
// Rejected guesses (unknown name, species already tried) come back with
// Accepted=false and leave the session untouched. The error return is
// reserved for storage failures.
func (c *Controller) Submit(ctx context.Context, key, raw string) (Result, error) {
	unlock := c.locks.Lock(key)
	defer unlock()

	sess, err := c.load(ctx, key)
	if err != nil {
		return Result{}, err
	}

	guess, ok := c.catalog.Resolve(raw)
	if !ok {
		return c.reject(sess, ReasonInvalidName, game.ErrInvalidName, "Invalid Pokémon name."), nil
	}

	card, err := sess.Apply(guess, c.catalog)
	var dup *game.DuplicateSpeciesError
	switch {
	case errors.As(err, &dup):
		return c.reject(sess, ReasonDuplicateSpecies, err, fmt.Sprintf("You already guessed %s.", dup.DisplaySpecies())), nil
	case err != nil:
		return Result{}, fmt.Errorf("apply guess: %w", err)
	}

	res := c.view(sess)
	res.Accepted = true
	res.Guess = card

	if !sess.Finished() {
		if err := c.store.Put(ctx, key, sess); err != nil {
			return Result{}, fmt.Errorf("save session: %w", err)
		}
		log.Debug().Str("session", key).Str("guess", guess.Name).Int("count", sess.Count).Msg("guess accepted")
		return res, nil
	}

	if err := c.store.Clear(ctx, key); err != nil {
		return Result{}, fmt.Errorf("clear session: %w", err)
	}
	if sess.Outcome == game.Won {
		res.Message = "You win!"
	} else {
		res.Message = "Game over! Correct Pokémon:"
	}
	log.Info().Str("session", key).Str("outcome", string(sess.Outcome)).
		Str("target", sess.ResolvedTarget).Int("count", sess.Count).Msg("game finished")
	return res, nil
}

// State returns the player's current game, starting one if needed.
func (c *Controller) State(ctx context.Context, key string) (Result, error) {
	unlock := c.locks.Lock(key)
	defer unlock()

	sess, err := c.load(ctx, key)
	if err != nil {
		return Result{}, err
	}
	return c.view(sess), nil
}

// Reset unconditionally discards the player's session.
func (c *Controller) Reset(ctx context.Context, key string) error {
	unlock := c.locks.Lock(key)
	defer unlock()

	if err := c.store.Clear(ctx, key); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	log.Debug().Str("session", key).Msg("session reset")
	return nil
}

// load fetches the session for key. A missing or finished session is
// replaced by a fresh one, which is persisted straight away.
func (c *Controller) load(ctx context.Context, key string) (*game.Session, error) {
	sess, err := c.store.Get(ctx, key)
	switch {
	case err == nil && !sess.Finished():
		return sess, nil
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("load session: %w", err)
	}

	sess = game.NewSession(c.pickTarget())
	if err := c.store.Put(ctx, key, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	log.Debug().Str("session", key).Msg("new game")
	return sess, nil
}

func (c *Controller) pickTarget() string {
	n := c.catalog.Len()
	i := c.picker.Pick(n)
	if i < 0 || i >= n {
		i = 0
	}
	return c.catalog.At(i).Name
}

// reject builds the response for a refused guess from the unchanged session.
func (c *Controller) reject(sess *game.Session, reason string, err error, msg string) Result {
	res := c.view(sess)
	res.Reason = reason
	res.Err = err
	res.Message = msg
	return res
}

// view renders the presentation fields of a session.
func (c *Controller) view(sess *game.Session) Result {
	res := Result{
		Outcome:    sess.Outcome,
		History:    sess.Guesses,
		GuessCount: sess.Count,
		MaxGuesses: game.MaxGuesses,
	}
	if sess.Finished() {
		res.Target = sess.ResolvedTarget
		if e, ok := c.catalog.Resolve(sess.ResolvedTarget); ok {
			card := game.Reveal(e)
			res.Reveal = &card
		}
	}
	return res
}
