package testutil

// RepeatingTokenGenerator returns the same run token on every call.
//
// Scenario runs need exactly one top-level token (branch tokens derive
// from it), but exhausting-generator panics make scenario reuse
// brittle; repeating is the safer deterministic choice here.
type RepeatingTokenGenerator struct {
	Token string
}

// NewRepeatingTokenGenerator creates a generator fixed to token.
func NewRepeatingTokenGenerator(token string) *RepeatingTokenGenerator {
	return &RepeatingTokenGenerator{Token: token}
}

// Generate returns the fixed token.
func (g *RepeatingTokenGenerator) Generate() string {
	return g.Token
}
