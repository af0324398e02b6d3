/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"github.com/samber/lo"
)

// Sequencing is the final stage. Products move from a shuffled pool onto
// the slate one click at a time; a full slate is scored by position.
type Sequencing struct {
	rand Rand

	pool  []Product
	slate []Product

	scored bool
	score  int
	won    bool
	tries  int

	watch Stopwatch
}

func NewSequencing(r Rand) *Sequencing {
	s := &Sequencing{rand: r}
	s.pool = Shuffle(Products, s.rand)
	s.slate = make([]Product, 0, len(Products))
	s.watch.Start()

	return s
}

// Score counts slate positions holding the product CorrectOrder expects there.
func Score(slate []Product) int {
	n := 0
	for i, p := range slate {
		if i < len(CorrectOrder) && p.ID == CorrectOrder[i] {
			n++
		}
	}

	return n
}

// Pick moves a product from the pool to the end of the slate.
func (s *Sequencing) Pick(id string) (Outcome, error) {
	if s.won || s.scored || len(s.slate) >= len(Products) {
		return OutcomeIgnored, nil
	}

	if _, ok := lo.Find(Products, func(p Product) bool { return p.ID == id }); !ok {
		return OutcomeIgnored, ErrUnknownItem
	}

	p, ok := lo.Find(s.pool, func(p Product) bool { return p.ID == id })
	if !ok {
		return OutcomeIgnored, nil
	}

	s.pool = lo.Filter(s.pool, func(p Product, _ int) bool { return p.ID != id })
	s.slate = append(s.slate, p)

	if len(s.slate) < len(Products) {
		return OutcomePicked, nil
	}

	s.scored = true
	s.score = Score(s.slate)
	s.tries++

	if s.score < len(CorrectOrder) {
		return OutcomeScored, nil
	}

	s.won = true
	s.watch.Stop()

	return OutcomeWon, nil
}

// Retry clears a losing slate and reshuffles the whole pool. The clock keeps running.
func (s *Sequencing) Retry() Outcome {
	if !s.scored || s.won {
		return OutcomeIgnored
	}

	s.slate = s.slate[:0]
	s.pool = Shuffle(Products, s.rand)
	s.scored = false
	s.score = 0

	return OutcomeRetried
}

func (s *Sequencing) Tick() bool { return s.watch.Tick() }

func (s *Sequencing) Pool() []Product { return append([]Product(nil), s.pool...) }

func (s *Sequencing) Slate() []Product { return append([]Product(nil), s.slate...) }

// Score returns the last positional score and whether one is showing.
func (s *Sequencing) Score() (int, bool) { return s.score, s.scored }

// CanPick reports whether the pool accepts clicks right now.
func (s *Sequencing) CanPick() bool {
	return !s.won && !s.scored && len(s.slate) < len(Products)
}

func (s *Sequencing) Won() bool { return s.won }

// Tries counts completed slates, winning or not.
func (s *Sequencing) Tries() int { return s.tries }

func (s *Sequencing) Elapsed() int { return s.watch.Elapsed() }
