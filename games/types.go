/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"errors"
	"time"
)

var ErrWrongStage = errors.New("command not valid in current stage")
var ErrUnknownItem = errors.New("unknown item")
var ErrUnknownSide = errors.New("unknown side")
var ErrUnsupportedCommand = errors.New("unsupported command")

// Secret unlocks the sequencing stage.
const Secret = "8245"

// MaxPasswordLength caps what the gate reads from a submission.
const MaxPasswordLength = 4

const (
	DefaultMismatchAlert = 500 * time.Millisecond
	DefaultPasswordAlert = 800 * time.Millisecond
)

// Outcome names what a command did to the game.
type Outcome string

const (
	OutcomeIgnored   Outcome = "ignored"
	OutcomeSelected  Outcome = "selected"
	OutcomeMatched   Outcome = "matched"
	OutcomeMismatch  Outcome = "mismatch"
	OutcomeWon       Outcome = "won"
	OutcomeAdvanced  Outcome = "advanced"
	OutcomeAccepted  Outcome = "accepted"
	OutcomeRejected  Outcome = "rejected"
	OutcomePicked    Outcome = "picked"
	OutcomeScored    Outcome = "scored"
	OutcomeRetried   Outcome = "retried"
	OutcomeRestarted Outcome = "restarted"
)

type Side string

const (
	SideAvatar Side = "avatar"
	SideIcon   Side = "icon"
)

func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case SideAvatar, SideIcon:
		return Side(s), nil
	default:
		return "", ErrUnknownSide
	}
}

// Pair is one correct avatar/icon match on the matching board.
type Pair struct {
	ID          string `json:"id"`
	AvatarLabel string `json:"avatar_label"`
	IconLabel   string `json:"icon_label"`
}

var Pairs = []Pair{
	{ID: "warehouse", AvatarLabel: "倉庫大哥頭像", IconLabel: "紙箱圖示"},
	{ID: "materials", AvatarLabel: "物料大姊頭像", IconLabel: "針劑瓶圖示"},
	{ID: "raw", AvatarLabel: "原料大哥頭像", IconLabel: "袋裝原料圖示"},
	{ID: "accounting", AvatarLabel: "會計大姊頭像", IconLabel: "鈔票圖示"},
	{ID: "admin", AvatarLabel: "行政妹妹頭像", IconLabel: "原子筆圖示"},
}

// Product is one clickable item in the sequencing stage.
type Product struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var Products = []Product{
	{ID: "A", Label: "商品 A"},
	{ID: "B", Label: "商品 B"},
	{ID: "C", Label: "商品 C"},
	{ID: "D", Label: "商品 D"},
	{ID: "E", Label: "商品 E"},
}

// CorrectOrder is the winning slate, by product id.
var CorrectOrder = []string{"A", "B", "C", "D", "E"}
