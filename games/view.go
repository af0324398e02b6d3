/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"time"

	"github.com/samber/lo"
)

// Snapshot is everything a client needs to draw the current stage.
type Snapshot struct {
	Stage      Stage           `json:"stage"`
	Title      string          `json:"title"`
	Finished   bool            `json:"finished"`
	Matching   *MatchingView   `json:"matching,omitempty"`
	Gate       *GateView       `json:"gate,omitempty"`
	Sequencing *SequencingView `json:"sequencing,omitempty"`
}

type ItemView struct {
	Item
	Matched  bool `json:"matched"`
	Selected bool `json:"selected"`
}

type MatchingView struct {
	Avatars      []ItemView `json:"avatars"`
	Icons        []ItemView `json:"icons"`
	MatchedCount int        `json:"matched_count"`
	Elapsed      string     `json:"elapsed"`
	Won          bool       `json:"won"`
	FinishedTime string     `json:"finished_time,omitempty"`
	Alert        bool       `json:"alert"`
}

type GateView struct {
	MaxLength int  `json:"max_length"`
	Attempts  int  `json:"attempts"`
	Alert     bool `json:"alert"`
}

type SequencingView struct {
	Pool    []Product `json:"pool"`
	Slate   []Product `json:"slate"`
	Slots   int       `json:"slots"`
	Score   *int      `json:"score,omitempty"`
	CanPick bool      `json:"can_pick"`
	Won     bool      `json:"won"`
	Tries   int       `json:"tries"`
	Elapsed string    `json:"elapsed"`
}

// Snapshot renders the game as seen at now; alerts past their expiry read as cleared.
func (g *Game) Snapshot(now time.Time) Snapshot {
	snap := Snapshot{
		Stage:    g.stage,
		Title:    g.stage.Title(),
		Finished: g.finished,
	}

	switch g.stage {
	case StageMatching:
		snap.Matching = matchingView(g.matching, now)
	case StagePassword:
		snap.Gate = &GateView{
			MaxLength: MaxPasswordLength,
			Attempts:  g.gate.Attempts(),
			Alert:     g.gate.Alert().Active(now),
		}
	case StageSequencing:
		snap.Sequencing = sequencingView(g.sequencing)
	}

	return snap
}

func matchingView(m *Matching, now time.Time) *MatchingView {
	column := func(items []Item, selected string) []ItemView {
		return lo.Map(items, func(it Item, _ int) ItemView {
			return ItemView{
				Item:     it,
				Matched:  m.IsMatched(it.MatchID),
				Selected: it.ID == selected,
			}
		})
	}

	return &MatchingView{
		Avatars:      column(m.avatars, m.selAvatar),
		Icons:        column(m.icons, m.selIcon),
		MatchedCount: len(m.matched),
		Elapsed:      FormatElapsed(m.Elapsed()),
		Won:          m.won,
		FinishedTime: m.finished,
		Alert:        m.alert.Active(now),
	}
}

func sequencingView(s *Sequencing) *SequencingView {
	v := &SequencingView{
		Pool:    s.Pool(),
		Slate:   s.Slate(),
		Slots:   len(Products),
		CanPick: s.CanPick(),
		Won:     s.won,
		Tries:   s.tries,
		Elapsed: FormatElapsed(s.Elapsed()),
	}

	if score, ok := s.Score(); ok {
		v.Score = &score
	}

	return v
}
