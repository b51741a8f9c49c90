// internal/providers/mock/provider.go
// Package mock provides an offline Completer that answers without any network access.
package mock

import (
	"context"
	"math/rand"
	"strings"
	"sync"

	"github.com/mwiater/biaslens/internal/providers"
)

var (
	baseLines = []string{
		"Based on the provided statistics, improvements in defensive clears and possession are likely to yield wins.",
		"Close-game losses suggest marginal gains will help; consider situational defense and clearing under pressure.",
	}
	players = []string{"Player A", "Player B", "Player C", "Player D", "Player E"}
)

const (
	defenseFocus  = "Focus on defensive coordination, clearing under pressure, and goalie-led transitions."
	balancedFocus = "A balanced approach is prudent: continue offensive efficiency while addressing clearing gaps."
	defenseLead   = "The data indicate issues under pressure; turnovers and clears likely constrained outcomes. "
	balancedLead  = "The data show strong potential; small improvements could lead to breakthroughs. "
	faceoffNote   = " Faceoffs appear influential, but verification against exact win rates is needed."
)

// Provider is a seeded stand-in for a real model. Two providers built with the
// same seed return the same sequence of answers for the same prompts.
type Provider struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Provider seeded with seed.
func New(seed int64) *Provider {
	return &Provider{rng: rand.New(rand.NewSource(seed))}
}

// Complete picks a canned answer shaped by cue words in the prompt.
func (p *Provider) Complete(ctx context.Context, req providers.Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", providers.Wrap("mock", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	lower := strings.ToLower(req.Prompt)
	text := baseLines[p.rng.Intn(len(baseLines))]
	if strings.Contains(lower, "struggling") || strings.Contains(lower, "what went wrong") {
		text = defenseLead + defenseFocus
	}
	if strings.Contains(lower, "developing") || strings.Contains(lower, "opportunities") {
		text = balancedLead + balancedFocus
	}
	if strings.Contains(lower, "faceoff performance caused losses") {
		text += faceoffNote
	}

	// Each player appears twice in the draw plus one empty slot, so most answers name someone.
	slot := p.rng.Intn(2*len(players) + 1)
	if slot < 2*len(players) {
		text += " Consider targeted coaching for " + players[slot%len(players)] + "."
	}
	return text, nil
}
