package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// idBytes is the entropy per minted ID; hex-encoded it yields 24 chars,
// short enough for log lines and wide enough to never collide in practice.
const idBytes = 12

// Generator mints opaque IDs for entities first seen during ingestion.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, idBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("mint id: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
