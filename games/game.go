/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"time"
)

type Stage string

const (
	StageMatching   Stage = "matching"
	StagePassword   Stage = "password"
	StageSequencing Stage = "sequencing"
)

// Title is the banner shown for the stage.
func (s Stage) Title() string {
	switch s {
	case StageMatching:
		return "第一階段：連連看"
	case StagePassword:
		return "中場休息"
	case StageSequencing:
		return "第二階段：排序"
	default:
		return ""
	}
}

type CommandType string

const (
	CmdSelect         CommandType = "select"
	CmdContinue       CommandType = "continue"
	CmdSubmitPassword CommandType = "submit_password"
	CmdPick           CommandType = "pick"
	CmdRetry          CommandType = "retry"
	CmdRestart        CommandType = "restart"
)

/*
	CmdSelect         -> matching:   selected | matched | mismatch | won
	CmdContinue       -> matching:   advanced (only once the board is cleared)
	CmdSubmitPassword -> password:   advanced | rejected
	CmdPick           -> sequencing: picked | scored | won
	CmdRetry          -> sequencing: retried
	CmdRestart        -> any stage:  restarted
*/

type Command struct {
	Type     CommandType
	Side     Side
	ItemID   string
	Password string
}

// Options tune a Game. Zero fields take their defaults.
type Options struct {
	Rand          Rand
	Clock         Clock
	Secret        string
	MismatchAlert time.Duration
	PasswordAlert time.Duration
}

func (o Options) withDefaults() Options {
	if o.Rand == nil {
		o.Rand = NewRand()
	}
	if o.Clock == nil {
		o.Clock = SystemClock
	}
	if o.Secret == "" {
		o.Secret = Secret
	}
	if o.MismatchAlert == 0 {
		o.MismatchAlert = DefaultMismatchAlert
	}
	if o.PasswordAlert == 0 {
		o.PasswordAlert = DefaultPasswordAlert
	}

	return o
}

// Game owns the current stage and the engine of that stage only. Leaving a
// stage drops its engine, along with its stopwatch.
type Game struct {
	opts  Options
	stage Stage

	matching   *Matching
	gate       *Gate
	sequencing *Sequencing

	finished bool
}

func NewGame(opts Options) *Game {
	g := &Game{opts: opts.withDefaults()}
	g.restart()

	return g
}

func (g *Game) restart() {
	g.stage = StageMatching
	g.matching = NewMatching(g.opts.Rand, g.opts.Clock, g.opts.MismatchAlert)
	g.gate = nil
	g.sequencing = nil
	g.finished = false
}

func (g *Game) advance() {
	switch g.stage {
	case StageMatching:
		g.matching = nil
		g.gate = NewGate(g.opts.Secret, g.opts.Clock, g.opts.PasswordAlert)
		g.stage = StagePassword
	case StagePassword:
		g.gate = nil
		g.sequencing = NewSequencing(g.opts.Rand)
		g.stage = StageSequencing
	}
}

// Apply runs one player command against the current stage.
func (g *Game) Apply(cmd Command) (Outcome, error) {
	switch cmd.Type {
	case CmdRestart:
		g.restart()
		return OutcomeRestarted, nil

	case CmdSelect:
		if g.stage != StageMatching {
			return OutcomeIgnored, ErrWrongStage
		}
		return g.matching.Select(cmd.Side, cmd.ItemID)

	case CmdContinue:
		if g.stage != StageMatching {
			return OutcomeIgnored, ErrWrongStage
		}
		if !g.matching.Won() {
			return OutcomeIgnored, nil
		}
		g.advance()
		return OutcomeAdvanced, nil

	case CmdSubmitPassword:
		if g.stage != StagePassword {
			return OutcomeIgnored, ErrWrongStage
		}
		if g.gate.Submit(cmd.Password) == OutcomeRejected {
			return OutcomeRejected, nil
		}
		g.advance()
		return OutcomeAdvanced, nil

	case CmdPick:
		if g.stage != StageSequencing {
			return OutcomeIgnored, ErrWrongStage
		}
		out, err := g.sequencing.Pick(cmd.ItemID)
		if out == OutcomeWon {
			g.finished = true
		}
		return out, err

	case CmdRetry:
		if g.stage != StageSequencing {
			return OutcomeIgnored, ErrWrongStage
		}
		return g.sequencing.Retry(), nil

	default:
		return OutcomeIgnored, ErrUnsupportedCommand
	}
}

// Tick delivers one second to the current stage's stopwatch and reports
// whether the displayed time changed.
func (g *Game) Tick() bool {
	switch g.stage {
	case StageMatching:
		return g.matching.Tick()
	case StageSequencing:
		return g.sequencing.Tick()
	default:
		return false
	}
}

// NextExpiry reports when the current stage's alert clears, if one is showing at now.
func (g *Game) NextExpiry(now time.Time) (time.Time, bool) {
	var a Alert

	switch g.stage {
	case StageMatching:
		a = g.matching.Alert()
	case StagePassword:
		a = g.gate.Alert()
	default:
		return time.Time{}, false
	}

	if !a.Active(now) {
		return time.Time{}, false
	}

	return a.Expiry(), true
}

func (g *Game) Stage() Stage { return g.stage }

// Finished is true once the sequencing stage is won. There is no stage after it.
func (g *Game) Finished() bool { return g.finished }

// Matching returns the live stage one engine, or nil outside that stage.
func (g *Game) Matching() *Matching { return g.matching }

func (g *Game) Gate() *Gate { return g.gate }

func (g *Game) Sequencing() *Sequencing { return g.sequencing }
