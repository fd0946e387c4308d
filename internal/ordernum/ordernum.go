// Package ordernum generates human-presentable order numbers.
package ordernum

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// DefaultPrefix is used when no prefix is supplied.
const DefaultPrefix = "ORD"

// suffixLen random characters over the 36-character alphabet give ~2.2e9
// combinations; the orders table unique constraint is the authoritative guard
// against collisions.
const suffixLen = 6

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generator produces unique-enough order numbers. The generator does not
// check stored orders; collisions surface as a storage uniqueness violation.
type Generator interface {
	Generate() (string, error)
}

type generator struct {
	prefix string
}

// New creates a generator with the default "ORD" prefix.
func New() Generator {
	return NewWithPrefix(DefaultPrefix)
}

// NewWithPrefix creates a generator with a custom prefix.
func NewWithPrefix(prefix string) Generator {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &generator{prefix: prefix}
}

// Generate returns an order number of the form "PREFIX-XXXXXX", where the
// suffix is six random uppercase alphanumeric characters.
func (g *generator) Generate() (string, error) {
	suffix := make([]byte, suffixLen)
	max := big.NewInt(int64(len(alphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		suffix[i] = alphabet[n.Int64()]
	}

	return fmt.Sprintf("%s-%s", g.prefix, suffix), nil
}
