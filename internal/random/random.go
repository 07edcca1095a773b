package random

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
	mathrand "math/rand/v2"

	"github.com/memora-app/memora/internal/errors"
)

var allowedLetters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

// Letters returns n random letters suitable for identifiers.
func Letters(n uint) (string, error) {
	letters := make([]rune, n)
	for i := range letters {
		letterIndex, err := rand.Int(rand.Reader, big.NewInt(int64(len(allowedLetters))))
		if err != nil {
			return "", errors.Wrap(err, "read random letter index")
		}
		letters[i] = allowedLetters[letterIndex.Int64()]
	}
	return string(letters), nil
}

// NewRand returns a [mathrand.Rand] seeded from the operating system.
//
// Callers that need determinism, such as quiz generation tests, construct
// their own Rand with a fixed seed instead.
func NewRand() *mathrand.Rand {
	var seed [16]byte
	// crypto/rand.Read never fails on supported platforms.
	_, _ = rand.Read(seed[:])
	return mathrand.New(mathrand.NewPCG(
		binary.LittleEndian.Uint64(seed[:8]),
		binary.LittleEndian.Uint64(seed[8:]),
	))
}
