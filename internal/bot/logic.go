package bot

import (
	"ctchen222/tictactoe-engine/internal/game"
	"errors"
	"fmt"
	"strings"
)

// Difficulty selects the strategy the bot plays with.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

var ErrUnknownDifficulty = errors.New("unknown difficulty")

// ParseDifficulty accepts a difficulty name in any letter case. The empty
// string selects Hard.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case Easy, Medium, Hard:
		return d, nil
	case "":
		return Hard, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
}

// lines lists every winning line in evaluation order.
var lines = [8][3]game.Move{
	{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}},
	{{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2}},
	{{Row: 2, Col: 0}, {Row: 2, Col: 1}, {Row: 2, Col: 2}},
	{{Row: 0, Col: 0}, {Row: 1, Col: 0}, {Row: 2, Col: 0}},
	{{Row: 0, Col: 1}, {Row: 1, Col: 1}, {Row: 2, Col: 1}},
	{{Row: 0, Col: 2}, {Row: 1, Col: 2}, {Row: 2, Col: 2}},
	{{Row: 0, Col: 0}, {Row: 1, Col: 1}, {Row: 2, Col: 2}},
	{{Row: 0, Col: 2}, {Row: 1, Col: 1}, {Row: 2, Col: 0}},
}

// Calculator implements the service.MoveCalculator interface.
type Calculator struct{}

// CalculateNextMove calls the package-level function to satisfy the interface.
func (c *Calculator) CalculateNextMove(board game.Board, mark game.PlayerMark, difficulty Difficulty) game.Move {
	return CalculateNextMove(board, mark, difficulty)
}

// CalculateNextMove determines the bot's next move based on the specified difficulty.
func CalculateNextMove(board game.Board, botMark game.PlayerMark, difficulty Difficulty) game.Move {
	switch difficulty {
	case Easy:
		return RandomMove(board)
	case Medium:
		return mediumMove(board, botMark)
	default:
		return BestMove(board, botMark)
	}
}

// mediumMove will win if it can, block if it must, otherwise move randomly.
func mediumMove(board game.Board, botMark game.PlayerMark) game.Move {
	// 1. Win: Check if the bot can win in the next move
	if m, canWin := findWinningMove(board, botMark); canWin {
		return m
	}

	// 2. Block: Check if the opponent is about to win and block them
	if m, canBlock := findWinningMove(board, game.Opponent(botMark)); canBlock {
		return m
	}

	// 3. Random: Otherwise, make a random move
	return RandomMove(board)
}

// findWinningMove checks if a player has a potential winning move (two in a row with an empty third).
func findWinningMove(board game.Board, mark game.PlayerMark) (game.Move, bool) {
	for _, line := range lines {
		owned := 0
		empty := game.NoMove
		for _, m := range line {
			switch board[m.Row][m.Col] {
			case mark:
				owned++
			case game.None:
				empty = m
			}
		}
		if owned == 2 && !empty.IsNone() {
			return empty, true
		}
	}
	return game.NoMove, false
}
