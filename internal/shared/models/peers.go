package models

// Peer is a swarm member as announced by a tracker, plus the piece
// availability learned from its bitfield.
type Peer struct {
	Addr         Addr
	ID           string
	HavePieces   map[int]struct{}
	PiecesWanted int
}
