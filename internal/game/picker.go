package game

import (
	"crypto/rand"
	"math/big"
)

// Picker chooses one index in [0, n). n is always > 0.
type Picker interface {
	Pick(n int) int
}

// PickerFunc adapts a plain function to Picker.
type PickerFunc func(n int) int

func (f PickerFunc) Pick(n int) int { return f(n) }

// RandomPicker picks uniformly using crypto/rand.
type RandomPicker struct{}

// Pick returns a cryptographically random index; 0 if the entropy source fails.
func (RandomPicker) Pick(n int) int {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(nBig.Int64())
}
