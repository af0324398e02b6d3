/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"time"
	"unicode/utf8"
)

// Gate holds play between the two stages until the host's code is entered.
type Gate struct {
	secret   string
	clock    Clock
	alertFor time.Duration

	input    string
	alert    Alert
	attempts int
}

func NewGate(secret string, clock Clock, alertFor time.Duration) *Gate {
	return &Gate{
		secret:   secret,
		clock:    clock,
		alertFor: alertFor,
	}
}

// Submit compares input with the secret. Anything longer than
// MaxPasswordLength runes is a miss. A miss clears the input and raises the
// alert; there is no lockout.
func (g *Gate) Submit(input string) Outcome {
	g.attempts++
	g.input = input

	if utf8.RuneCountInString(input) <= MaxPasswordLength && input == g.secret {
		return OutcomeAccepted
	}

	g.input = ""
	g.alert.Raise(g.clock.Now(), g.alertFor)

	return OutcomeRejected
}

func (g *Gate) Input() string { return g.input }

func (g *Gate) Attempts() int { return g.attempts }

func (g *Gate) Alert() Alert { return g.alert }
