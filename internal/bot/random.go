package bot

import (
	"ctchen222/tictactoe-engine/internal/game"
	"math/rand/v2"
)

// RandomMove picks one of the empty cells uniformly at random, or
// game.NoMove when the board is full. It does not look ahead.
func RandomMove(board game.Board) game.Move {
	return randomMove(board, rand.IntN)
}

func randomMove(board game.Board, intN func(int) int) game.Move {
	availableMoves := board.EmptyCells()
	if len(availableMoves) == 0 {
		return game.NoMove // No moves left
	}
	return availableMoves[intN(len(availableMoves))]
}
