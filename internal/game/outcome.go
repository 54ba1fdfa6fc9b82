package game

// Outcome classifies a board: a winner, a draw, or a game still in play.
type Outcome string

const (
	Undecided Outcome = ""
	XWins     Outcome = Outcome(PlayerX)
	OWins     Outcome = Outcome(PlayerO)
	Draw      Outcome = "Draw"
)

// IsOver reports whether no further move can be played.
func (o Outcome) IsOver() bool {
	return o != Undecided
}

// Winner returns the winning mark, or None for a draw or an undecided game.
func (o Outcome) Winner() PlayerMark {
	if o == XWins || o == OWins {
		return PlayerMark(o)
	}
	return None
}

func (o Outcome) String() string {
	if o == Undecided {
		return "Undecided"
	}
	return string(o)
}

// Evaluate reports the outcome of b. Lines are scanned rows top to bottom,
// then columns left to right, then the two diagonals; the first complete
// line decides the winner. No legality checking is done.
func Evaluate(b Board) Outcome {
	empty := 0

	// Check rows
	for i := range b {
		for j := range b[i] {
			if b[i][j] == None {
				empty++
			}
		}
		if b[i][0] != None && b[i][0] == b[i][1] && b[i][1] == b[i][2] {
			return Outcome(b[i][0])
		}
	}

	// Check columns
	for i := range b {
		if b[0][i] != None && b[0][i] == b[1][i] && b[1][i] == b[2][i] {
			return Outcome(b[0][i])
		}
	}

	// Check diagonals
	if b[0][0] != None && b[0][0] == b[1][1] && b[1][1] == b[2][2] {
		return Outcome(b[0][0])
	}
	if b[0][2] != None && b[0][2] == b[1][1] && b[1][1] == b[2][0] {
		return Outcome(b[0][2])
	}

	if empty == 0 {
		return Draw
	}
	return Undecided
}
