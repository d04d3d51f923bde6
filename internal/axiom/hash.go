package axiom

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainFact  = "entail/fact/v1"
	DomainAxiom = "entail/axiom/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte separator prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// FactKey computes the content-addressed identity of a fundamental atom.
// Two atoms with the same kind and the same entity arguments have the
// same key, which is what branch recombination intersects on.
func FactKey(at Atom) (string, error) {
	canonical, err := MarshalCanonical(at)
	if err != nil {
		return "", fmt.Errorf("FactKey: %w", err)
	}
	return hashWithDomain(DomainFact, canonical), nil
}

// AxiomKey computes the content-addressed identity of any axiom variant,
// connectives included. Used by the run log and trace events.
func AxiomKey(ax Axiom) (string, error) {
	canonical, err := MarshalCanonical(ax)
	if err != nil {
		return "", fmt.Errorf("AxiomKey: %w", err)
	}
	return hashWithDomain(DomainAxiom, canonical), nil
}

// MustFactKey is like FactKey but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustFactKey(at Atom) string {
	key, err := FactKey(at)
	if err != nil {
		panic(err)
	}
	return key
}
