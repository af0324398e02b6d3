package games

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T) (*Game, *fakeClock) {
	t.Helper()

	clock := newFakeClock()
	g := NewGame(Options{Rand: newCountingRand(21), Clock: clock})

	return g, clock
}

func clearBoard(t *testing.T, g *Game) {
	t.Helper()

	for _, p := range Pairs {
		_, err := g.Apply(Command{Type: CmdSelect, Side: SideAvatar, ItemID: "avatar-" + p.ID})
		require.NoError(t, err)
		_, err = g.Apply(Command{Type: CmdSelect, Side: SideIcon, ItemID: "icon-" + p.ID})
		require.NoError(t, err)
	}
	require.True(t, g.Matching().Won())
}

func TestGameStartsOnMatching(t *testing.T) {
	g, clock := newTestGame(t)

	assert.Equal(t, StageMatching, g.Stage())
	assert.NotNil(t, g.Matching())
	assert.Nil(t, g.Gate())
	assert.Nil(t, g.Sequencing())
	assert.False(t, g.Finished())

	snap := g.Snapshot(clock.Now())
	assert.Equal(t, "第一階段：連連看", snap.Title)
	require.NotNil(t, snap.Matching)
	assert.Len(t, snap.Matching.Avatars, len(Pairs))
	assert.Equal(t, "00:00", snap.Matching.Elapsed)
	assert.Nil(t, snap.Gate)
	assert.Nil(t, snap.Sequencing)
}

func TestGameRejectsOutOfStageCommands(t *testing.T) {
	g, _ := newTestGame(t)

	cases := []Command{
		{Type: CmdSubmitPassword, Password: Secret},
		{Type: CmdPick, ItemID: "A"},
		{Type: CmdRetry},
	}

	for _, cmd := range cases {
		_, err := g.Apply(cmd)
		assert.ErrorIs(t, err, ErrWrongStage, "command %s", cmd.Type)
	}

	_, err := g.Apply(Command{Type: "dance"})
	assert.ErrorIs(t, err, ErrUnsupportedCommand)

	assert.Equal(t, StageMatching, g.Stage())
}

func TestGameContinueWaitsForWin(t *testing.T) {
	g, _ := newTestGame(t)

	out, err := g.Apply(Command{Type: CmdContinue})
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, out)
	assert.Equal(t, StageMatching, g.Stage())

	clearBoard(t, g)
	assert.Equal(t, StageMatching, g.Stage(), "finished board waits for continue")

	out, err = g.Apply(Command{Type: CmdContinue})
	require.NoError(t, err)
	assert.Equal(t, OutcomeAdvanced, out)
	assert.Equal(t, StagePassword, g.Stage())
	assert.Nil(t, g.Matching())
}

func TestGameFullRun(t *testing.T) {
	g, clock := newTestGame(t)

	for i := 0; i < 30; i++ {
		require.True(t, g.Tick())
	}
	clearBoard(t, g)
	assert.Equal(t, "00:30", g.Matching().FinishedTime())
	assert.False(t, g.Tick())

	_, err := g.Apply(Command{Type: CmdContinue})
	require.NoError(t, err)

	assert.False(t, g.Tick(), "the gate has no clock")

	out, err := g.Apply(Command{Type: CmdSubmitPassword, Password: "1234"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, out)
	assert.Equal(t, StagePassword, g.Stage())

	expiry, ok := g.NextExpiry(clock.Now())
	require.True(t, ok)
	assert.Equal(t, clock.Now().Add(DefaultPasswordAlert), expiry)
	assert.True(t, g.Snapshot(clock.Now()).Gate.Alert)

	clock.Advance(DefaultPasswordAlert)
	_, ok = g.NextExpiry(clock.Now())
	assert.False(t, ok)
	assert.False(t, g.Snapshot(clock.Now()).Gate.Alert)

	out, err = g.Apply(Command{Type: CmdSubmitPassword, Password: Secret})
	require.NoError(t, err)
	assert.Equal(t, OutcomeAdvanced, out)
	assert.Equal(t, StageSequencing, g.Stage())
	assert.Nil(t, g.Gate())
	assert.Equal(t, 0, g.Sequencing().Elapsed(), "each stage starts its own clock")

	_, err = g.Apply(Command{Type: CmdSelect, Side: SideAvatar, ItemID: "avatar-raw"})
	assert.ErrorIs(t, err, ErrWrongStage)

	for _, id := range []string{"B", "A", "C", "D", "E"} {
		out, err = g.Apply(Command{Type: CmdPick, ItemID: id})
		require.NoError(t, err)
	}
	assert.Equal(t, OutcomeScored, out)
	assert.False(t, g.Finished())

	snap := g.Snapshot(clock.Now())
	require.NotNil(t, snap.Sequencing)
	require.NotNil(t, snap.Sequencing.Score)
	assert.Equal(t, 3, *snap.Sequencing.Score)

	out, err = g.Apply(Command{Type: CmdRetry})
	require.NoError(t, err)
	assert.Equal(t, OutcomeRetried, out)

	for _, id := range CorrectOrder {
		out, err = g.Apply(Command{Type: CmdPick, ItemID: id})
		require.NoError(t, err)
	}
	assert.Equal(t, OutcomeWon, out)
	assert.True(t, g.Finished())
	assert.Equal(t, StageSequencing, g.Stage(), "no stage after the last one")
	assert.False(t, g.Tick())
}

func TestGameMismatchExpiry(t *testing.T) {
	g, clock := newTestGame(t)

	_, _ = g.Apply(Command{Type: CmdSelect, Side: SideAvatar, ItemID: "avatar-raw"})
	out, err := g.Apply(Command{Type: CmdSelect, Side: SideIcon, ItemID: "icon-admin"})
	require.NoError(t, err)
	require.Equal(t, OutcomeMismatch, out)

	expiry, ok := g.NextExpiry(clock.Now())
	require.True(t, ok)
	assert.Equal(t, clock.Now().Add(DefaultMismatchAlert), expiry)
	assert.True(t, g.Snapshot(clock.Now()).Matching.Alert)
}

func TestGameRestart(t *testing.T) {
	g, _ := newTestGame(t)

	g.Tick()
	clearBoard(t, g)
	_, _ = g.Apply(Command{Type: CmdContinue})
	_, _ = g.Apply(Command{Type: CmdSubmitPassword, Password: Secret})
	require.Equal(t, StageSequencing, g.Stage())

	out, err := g.Apply(Command{Type: CmdRestart})
	require.NoError(t, err)
	assert.Equal(t, OutcomeRestarted, out)
	assert.Equal(t, StageMatching, g.Stage())
	assert.Nil(t, g.Sequencing())
	assert.Equal(t, 0, g.Matching().Elapsed())
	assert.Empty(t, g.Matching().Matched())
}

func TestGameCustomOptions(t *testing.T) {
	clock := newFakeClock()
	g := NewGame(Options{Rand: newCountingRand(1), Clock: clock, Secret: "0000"})

	clearBoard(t, g)
	_, _ = g.Apply(Command{Type: CmdContinue})

	out, _ := g.Apply(Command{Type: CmdSubmitPassword, Password: Secret})
	assert.Equal(t, OutcomeRejected, out)

	out, _ = g.Apply(Command{Type: CmdSubmitPassword, Password: "0000"})
	assert.Equal(t, OutcomeAdvanced, out)
}

func TestSnapshotJSON(t *testing.T) {
	g, clock := newTestGame(t)

	_, _ = g.Apply(Command{Type: CmdSelect, Side: SideAvatar, ItemID: "avatar-raw"})

	data, err := json.Marshal(g.Snapshot(clock.Now()))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "matching", decoded["stage"])
	assert.NotContains(t, decoded, "gate")

	m := decoded["matching"].(map[string]any)
	avatars := m["avatars"].([]any)
	selected := 0
	for _, a := range avatars {
		item := a.(map[string]any)
		assert.Contains(t, item, "match_id")
		if item["selected"] == true {
			selected++
			assert.Equal(t, "avatar-raw", item["id"])
		}
	}
	assert.Equal(t, 1, selected)
}

func TestParseSide(t *testing.T) {
	s, err := ParseSide("avatar")
	require.NoError(t, err)
	assert.Equal(t, SideAvatar, s)

	s, err = ParseSide("icon")
	require.NoError(t, err)
	assert.Equal(t, SideIcon, s)

	_, err = ParseSide("right")
	assert.ErrorIs(t, err, ErrUnknownSide)
}
