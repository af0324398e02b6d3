package games

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMatching(t *testing.T) (*Matching, *countingRand, *fakeClock) {
	t.Helper()

	r := newCountingRand(42)
	clock := newFakeClock()
	m := NewMatching(r, clock, DefaultMismatchAlert)

	return m, r, clock
}

func matchPair(t *testing.T, m *Matching, pairID string) Outcome {
	t.Helper()

	out, err := m.Select(SideAvatar, "avatar-"+pairID)
	require.NoError(t, err)
	require.Equal(t, OutcomeSelected, out)

	out, err = m.Select(SideIcon, "icon-"+pairID)
	require.NoError(t, err)

	return out
}

func TestMatchingInitDealsBothColumns(t *testing.T) {
	m, r, _ := newTestMatching(t)

	require.Len(t, m.Avatars(), len(Pairs))
	require.Len(t, m.Icons(), len(Pairs))

	for _, p := range Pairs {
		a, ok := m.find(SideAvatar, "avatar-"+p.ID)
		require.True(t, ok)
		assert.Equal(t, p.AvatarLabel, a.Label)
		assert.Equal(t, p.ID, a.MatchID)

		i, ok := m.find(SideIcon, "icon-"+p.ID)
		require.True(t, ok)
		assert.Equal(t, p.IconLabel, i.Label)
		assert.Equal(t, SideIcon, i.Side)
	}

	assert.Empty(t, m.Matched())
	assert.Equal(t, 8, r.calls, "each column of five takes four draws")
	assert.False(t, m.Won())
}

func TestMatchingCorrectPairOnlyAddsThatPair(t *testing.T) {
	m, r, _ := newTestMatching(t)

	avatars := ids(m.Avatars(), itemID)
	icons := ids(m.Icons(), itemID)
	calls := r.calls

	assert.Equal(t, OutcomeMatched, matchPair(t, m, "raw"))

	assert.Equal(t, []string{"raw"}, m.Matched())
	assert.Equal(t, avatars, ids(m.Avatars(), itemID))
	assert.Equal(t, icons, ids(m.Icons(), itemID))
	assert.Equal(t, calls, r.calls)
	assert.Empty(t, m.Selection(SideAvatar))
	assert.Empty(t, m.Selection(SideIcon))
}

func TestMatchingMismatchResetsWholeBoard(t *testing.T) {
	m, r, clock := newTestMatching(t)

	require.Equal(t, OutcomeMatched, matchPair(t, m, "raw"))
	require.Equal(t, OutcomeMatched, matchPair(t, m, "admin"))
	require.Len(t, m.Matched(), 2)

	calls := r.calls

	_, err := m.Select(SideIcon, "icon-warehouse")
	require.NoError(t, err)
	out, err := m.Select(SideAvatar, "avatar-accounting")
	require.NoError(t, err)

	assert.Equal(t, OutcomeMismatch, out)
	assert.Empty(t, m.Matched())
	assert.Equal(t, calls+8, r.calls, "both columns reshuffled")
	assert.Empty(t, m.Selection(SideAvatar))
	assert.Empty(t, m.Selection(SideIcon))
	assert.ElementsMatch(t,
		[]string{"avatar-warehouse", "avatar-materials", "avatar-raw", "avatar-accounting", "avatar-admin"},
		ids(m.Avatars(), itemID))

	assert.True(t, m.Alert().Active(clock.Now()))
	clock.Advance(DefaultMismatchAlert)
	assert.False(t, m.Alert().Active(clock.Now()))
}

func TestMatchingMismatchKeepsClockRunning(t *testing.T) {
	m, _, _ := newTestMatching(t)

	m.Tick()
	m.Tick()
	m.Tick()

	_, _ = m.Select(SideAvatar, "avatar-raw")
	out, _ := m.Select(SideIcon, "icon-admin")
	require.Equal(t, OutcomeMismatch, out)

	assert.Equal(t, 3, m.Elapsed())
	assert.True(t, m.Tick())
	assert.Equal(t, 4, m.Elapsed())
}

func TestMatchingWinsOnlyWhenAllPairsMatched(t *testing.T) {
	m, _, _ := newTestMatching(t)

	for i := 0; i < 75; i++ {
		m.Tick()
	}

	for _, p := range Pairs[:len(Pairs)-1] {
		assert.Equal(t, OutcomeMatched, matchPair(t, m, p.ID))
		assert.False(t, m.Won())
		assert.Empty(t, m.FinishedTime())
	}

	assert.Equal(t, OutcomeWon, matchPair(t, m, Pairs[len(Pairs)-1].ID))
	assert.True(t, m.Won())
	assert.Len(t, m.Matched(), len(Pairs))
	assert.Equal(t, "01:15", m.FinishedTime())

	assert.False(t, m.Tick())
	assert.Equal(t, 75, m.Elapsed())
	assert.Equal(t, "01:15", m.FinishedTime())
}

func TestMatchingIgnoresMatchedItems(t *testing.T) {
	m, _, _ := newTestMatching(t)

	require.Equal(t, OutcomeMatched, matchPair(t, m, "materials"))

	out, err := m.Select(SideAvatar, "avatar-materials")
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, out)
	assert.Empty(t, m.Selection(SideAvatar))

	out, err = m.Select(SideIcon, "icon-materials")
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, out)
	assert.Len(t, m.Matched(), 1)
}

func TestMatchingReselectReplacesSelection(t *testing.T) {
	m, _, _ := newTestMatching(t)

	_, _ = m.Select(SideAvatar, "avatar-raw")
	out, err := m.Select(SideAvatar, "avatar-admin")
	require.NoError(t, err)
	assert.Equal(t, OutcomeSelected, out)
	assert.Equal(t, "avatar-admin", m.Selection(SideAvatar))

	out, err = m.Select(SideIcon, "icon-admin")
	require.NoError(t, err)
	assert.Equal(t, OutcomeMatched, out)
}

func TestMatchingIconFirstAlsoResolves(t *testing.T) {
	m, _, _ := newTestMatching(t)

	out, _ := m.Select(SideIcon, "icon-accounting")
	assert.Equal(t, OutcomeSelected, out)

	out, _ = m.Select(SideAvatar, "avatar-accounting")
	assert.Equal(t, OutcomeMatched, out)
}

func TestMatchingRejectsMalformedInput(t *testing.T) {
	m, _, _ := newTestMatching(t)

	_, err := m.Select(SideAvatar, "icon-raw")
	assert.ErrorIs(t, err, ErrUnknownItem)

	_, err = m.Select(SideIcon, "nobody")
	assert.ErrorIs(t, err, ErrUnknownItem)

	_, err = m.Select(Side("left"), "avatar-raw")
	assert.ErrorIs(t, err, ErrUnknownSide)

	assert.Empty(t, m.Selection(SideAvatar))
	assert.Empty(t, m.Selection(SideIcon))
}

func TestMatchingSelectAfterWinIsIgnored(t *testing.T) {
	m, _, _ := newTestMatching(t)

	for _, p := range Pairs {
		matchPair(t, m, p.ID)
	}
	require.True(t, m.Won())

	out, err := m.Select(SideAvatar, "avatar-raw")
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, out)

	out, err = m.Select(SideIcon, "nobody")
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, out)

	out, err = m.Select(Side("left"), "avatar-raw")
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, out)
}

func TestMatchingTruePairThenMismatch(t *testing.T) {
	m, r, _ := newTestMatching(t)

	first := m.Avatars()[0]

	_, err := m.Select(SideAvatar, first.ID)
	require.NoError(t, err)
	out, err := m.Select(SideIcon, "icon-"+first.MatchID)
	require.NoError(t, err)
	require.Equal(t, OutcomeMatched, out)
	require.Len(t, m.Matched(), 1)

	var other string
	for _, p := range Pairs {
		if p.ID != first.MatchID {
			other = p.ID
			break
		}
	}

	calls := r.calls
	_, _ = m.Select(SideAvatar, "avatar-"+other)
	var wrong string
	for _, p := range Pairs {
		if p.ID != other && p.ID != first.MatchID {
			wrong = p.ID
			break
		}
	}
	out, err = m.Select(SideIcon, "icon-"+wrong)
	require.NoError(t, err)

	assert.Equal(t, OutcomeMismatch, out)
	assert.Empty(t, m.Matched())
	assert.Equal(t, calls+8, r.calls)
}

func TestMatchingZeroAlertDuration(t *testing.T) {
	clock := newFakeClock()
	m := NewMatching(newCountingRand(5), clock, 0)

	_, _ = m.Select(SideAvatar, "avatar-raw")
	out, _ := m.Select(SideIcon, "icon-admin")

	assert.Equal(t, OutcomeMismatch, out)
	assert.False(t, m.Alert().Active(clock.Now()))
	assert.True(t, m.Alert().Expiry().IsZero())
}
