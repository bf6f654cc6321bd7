package board

import "errors"

var (
	// ErrInvalidSquare reports a square outside 0-63 or unparseable notation.
	ErrInvalidSquare = errors.New("invalid square")

	// ErrEmptySquare reports an operation that needs a piece on a square that has none.
	ErrEmptySquare = errors.New("no piece on square")

	// ErrInvalidPromotion reports a promotion choice other than knight, bishop, rook or queen.
	ErrInvalidPromotion = errors.New("invalid promotion piece")

	// ErrInvalidMove reports unparseable move notation.
	ErrInvalidMove = errors.New("invalid move")

	// ErrInvalidPosition reports a grid or FEN that does not describe a playable position.
	ErrInvalidPosition = errors.New("invalid position")

	// ErrInvalidTables reports a malformed direction table source.
	ErrInvalidTables = errors.New("invalid direction tables")
)
