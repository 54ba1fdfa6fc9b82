package game

import (
	"errors"
	"fmt"
)

// PlayerMark represents the mark of a player (X, O) or an empty cell.
type PlayerMark string

const (
	// Player marks
	None    PlayerMark = ""
	PlayerX PlayerMark = "X"
	PlayerO PlayerMark = "O"

	// Board boundaries
	BorderMin = 0
	BorderMax = 2

	// Size is the number of rows and columns on the board.
	Size = BorderMax + 1
)

var (
	ErrInvalidBoard = errors.New("invalid board")
	ErrOutOfBounds  = errors.New("invalid move")
	ErrCellOccupied = errors.New("cell already occupied")
	ErrInvalidMark  = errors.New("invalid player mark")
)

// Board is a 3x3 grid addressed as Board[row][col]. It is a value type:
// assigning or passing a Board copies all nine cells.
type Board [Size][Size]PlayerMark

// Move identifies a cell on the board.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// NoMove is returned by the move searches when no empty cell is left.
var NoMove = Move{Row: -1, Col: -1}

// IsNone reports whether m is the NoMove sentinel.
func (m Move) IsNone() bool {
	return m == NoMove
}

// InBounds reports whether m addresses a cell of the board.
func (m Move) InBounds() bool {
	return m.Row >= BorderMin && m.Row <= BorderMax && m.Col >= BorderMin && m.Col <= BorderMax
}

func (m Move) String() string {
	if m.IsNone() {
		return "none"
	}
	return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
}

// Valid reports whether mark is one of the two player marks.
func (mark PlayerMark) Valid() bool {
	return mark == PlayerX || mark == PlayerO
}

// Opponent returns the other player's mark.
func Opponent(mark PlayerMark) PlayerMark {
	if mark == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// ParseMark converts a client supplied mark. The empty string maps to None.
func ParseMark(s string) (PlayerMark, error) {
	switch mark := PlayerMark(s); mark {
	case None, PlayerX, PlayerO:
		return mark, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrInvalidMark, s)
	}
}

// BoardFromRows converts a dynamic slice of rows into a Board.
func BoardFromRows(rows [][]PlayerMark) (Board, error) {
	var b Board
	if len(rows) != Size {
		return b, fmt.Errorf("%w: want %d rows, got %d", ErrInvalidBoard, Size, len(rows))
	}
	for r, row := range rows {
		if len(row) != Size {
			return b, fmt.Errorf("%w: row %d has %d cells", ErrInvalidBoard, r, len(row))
		}
		for c, cell := range row {
			if cell != None && !cell.Valid() {
				return b, fmt.Errorf("%w: cell (%d,%d) holds %q", ErrInvalidBoard, r, c, cell)
			}
			b[r][c] = cell
		}
	}
	return b, nil
}

// Rows converts the board to a dynamic slice of slices.
func (b Board) Rows() [][]PlayerMark {
	rows := make([][]PlayerMark, Size)
	for i := range b {
		rows[i] = make([]PlayerMark, Size)
		copy(rows[i], b[i][:])
	}
	return rows
}

// EmptyCells lists the empty cells in row-major order.
func (b Board) EmptyCells() []Move {
	moves := make([]Move, 0, Size*Size)
	for r := range b {
		for c := range b[r] {
			if b[r][c] == None {
				moves = append(moves, Move{Row: r, Col: c})
			}
		}
	}
	return moves
}

// IsFull reports whether every cell is occupied.
func (b Board) IsFull() bool {
	for r := range b {
		for c := range b[r] {
			if b[r][c] == None {
				return false
			}
		}
	}
	return true
}

// Place puts mark on the cell addressed by m.
func (b *Board) Place(m Move, mark PlayerMark) error {
	if !mark.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMark, mark)
	}
	if !m.InBounds() {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, m)
	}
	if b[m.Row][m.Col] != None {
		return fmt.Errorf("%w: %s", ErrCellOccupied, m)
	}
	b[m.Row][m.Col] = mark
	return nil
}

// String renders the board row by row, "." for empty cells and "/" between
// rows.
func (b Board) String() string {
	buf := make([]byte, 0, Size*(Size+1))
	for r := range b {
		for c := range b[r] {
			if b[r][c] == None {
				buf = append(buf, '.')
			} else {
				buf = append(buf, string(b[r][c])...)
			}
		}
		if r < BorderMax {
			buf = append(buf, '/')
		}
	}
	return string(buf)
}
