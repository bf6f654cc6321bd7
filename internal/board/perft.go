package board

// Perft counts the leaf nodes of the legal move tree to the given depth.
// A promotion counts once per destination since a Move carries no piece.
func (t *Tables) Perft(p Position, side Color, depth int) int64 {
	if depth <= 0 {
		return 1
	}

	moves := t.LegalMoves(p, side)
	if depth == 1 {
		return int64(len(moves))
	}

	var nodes int64
	for _, m := range moves {
		next, err := t.Apply(p, m, nil)
		if err != nil {
			// Legal moves always apply.
			panic(err)
		}
		nodes += t.Perft(next, side.Other(), depth-1)
	}
	return nodes
}
