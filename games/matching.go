/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"time"

	"github.com/samber/lo"
)

// Item is one button on the matching board. Two items are a correct pair
// exactly when they share a MatchID.
type Item struct {
	ID      string `json:"id"`
	MatchID string `json:"match_id"`
	Side    Side   `json:"side"`
	Label   string `json:"label"`
}

// Matching is the first stage: two shuffled columns, one pick per side.
// A wrong pair throws the whole board back, not just the wrong pair.
type Matching struct {
	rand     Rand
	clock    Clock
	alertFor time.Duration

	avatars []Item
	icons   []Item
	matched map[string]bool

	selAvatar string
	selIcon   string

	watch    Stopwatch
	alert    Alert
	won      bool
	finished string
}

func NewMatching(r Rand, clock Clock, alertFor time.Duration) *Matching {
	m := &Matching{
		rand:     r,
		clock:    clock,
		alertFor: alertFor,
	}
	m.deal()
	m.watch.Start()

	return m
}

// deal rebuilds and reshuffles both columns and forgets all progress.
// The stopwatch is left alone.
func (m *Matching) deal() {
	avatars := lo.Map(Pairs, func(p Pair, _ int) Item {
		return Item{ID: "avatar-" + p.ID, MatchID: p.ID, Side: SideAvatar, Label: p.AvatarLabel}
	})
	icons := lo.Map(Pairs, func(p Pair, _ int) Item {
		return Item{ID: "icon-" + p.ID, MatchID: p.ID, Side: SideIcon, Label: p.IconLabel}
	})

	m.avatars = Shuffle(avatars, m.rand)
	m.icons = Shuffle(icons, m.rand)
	m.matched = make(map[string]bool, len(Pairs))
	m.selAvatar = ""
	m.selIcon = ""
}

func (m *Matching) column(side Side) []Item {
	if side == SideAvatar {
		return m.avatars
	}

	return m.icons
}

func (m *Matching) find(side Side, id string) (Item, bool) {
	return lo.Find(m.column(side), func(it Item) bool {
		return it.ID == id
	})
}

// Select records a click on one side and resolves the pair once both sides
// have a selection.
func (m *Matching) Select(side Side, id string) (Outcome, error) {
	if m.won {
		return OutcomeIgnored, nil
	}

	if side != SideAvatar && side != SideIcon {
		return OutcomeIgnored, ErrUnknownSide
	}

	item, ok := m.find(side, id)
	if !ok {
		return OutcomeIgnored, ErrUnknownItem
	}

	if m.matched[item.MatchID] {
		return OutcomeIgnored, nil
	}

	if side == SideAvatar {
		m.selAvatar = id
	} else {
		m.selIcon = id
	}

	if m.selAvatar == "" || m.selIcon == "" {
		return OutcomeSelected, nil
	}

	return m.resolve(), nil
}

func (m *Matching) resolve() Outcome {
	avatar, _ := m.find(SideAvatar, m.selAvatar)
	icon, _ := m.find(SideIcon, m.selIcon)

	if avatar.MatchID != icon.MatchID {
		m.deal()
		m.alert.Raise(m.clock.Now(), m.alertFor)

		return OutcomeMismatch
	}

	m.matched[avatar.MatchID] = true
	m.selAvatar = ""
	m.selIcon = ""

	if len(m.matched) < len(Pairs) {
		return OutcomeMatched
	}

	m.watch.Stop()
	m.won = true
	m.finished = m.watch.String()

	return OutcomeWon
}

// Tick advances the stage clock; it is frozen once the board is cleared.
func (m *Matching) Tick() bool { return m.watch.Tick() }

func (m *Matching) Avatars() []Item { return append([]Item(nil), m.avatars...) }

func (m *Matching) Icons() []Item { return append([]Item(nil), m.icons...) }

// Matched returns the solved pair ids, in no particular order.
func (m *Matching) Matched() []string { return lo.Keys(m.matched) }

func (m *Matching) IsMatched(matchID string) bool { return m.matched[matchID] }

// Selection returns the selected item id on side, or "".
func (m *Matching) Selection(side Side) string {
	if side == SideAvatar {
		return m.selAvatar
	}

	return m.selIcon
}

func (m *Matching) Won() bool { return m.won }

// FinishedTime is the frozen MM:SS of the winning click, or "" before that.
func (m *Matching) FinishedTime() string { return m.finished }

func (m *Matching) Elapsed() int { return m.watch.Elapsed() }

func (m *Matching) Alert() Alert { return m.alert }
