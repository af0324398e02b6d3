/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package games holds the party night game logic.
//
// The evening is played in three stages, in order:
//   - Matching: pair each colleague's avatar with the icon of their department.
//     Any wrong pair reshuffles the whole board.
//   - Password: a four digit code handed out by the host unlocks the next stage.
//   - Sequencing: click the five products in the right order. A wrong order
//     shows how many were in the right slot, and the player may retry.
//
// Nothing in this package blocks or starts goroutines. Randomness, wall-clock
// time and the once-per-second tick are all supplied by the caller, so a
// session hub drives a Game and tests drive it by hand.
package games
