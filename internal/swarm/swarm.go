// Package swarm discovers peers for a torrent and surveys piece
// availability across them.
package swarm

import (
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/WendelHime/bitwire/internal/metainfo"
	"github.com/WendelHime/bitwire/internal/peer"
	"github.com/WendelHime/bitwire/internal/shared/models"
	"github.com/WendelHime/bitwire/internal/tracker"
	"github.com/WendelHime/bitwire/internal/wire"
	"github.com/schollz/progressbar/v3"
)

type Scanner struct {
	clientID string
	log      *slog.Logger
}

func NewScanner(logger *slog.Logger) *Scanner {
	return &Scanner{clientID: generateRandomPeerID(), log: logger}
}

func generateRandomPeerID() string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	r := rand.New(rand.NewSource(int64(time.Now().Nanosecond())))

	peerID := make([]byte, 20)
	for i := range peerID {
		peerID[i] = charset[r.Intn(len(charset))]
	}

	return string(peerID)
}

// RetrievePeers announces to the main tracker and every announce-list tier,
// merging the peers they return.
func (s *Scanner) RetrievePeers(meta metainfo.Metainfo) ([]models.Peer, error) {
	s.log.Info("retrieving peers from tracker", slog.String("announce", meta.Announce))
	t := tracker.NewTracker(meta.Announce, s.clientID)
	peers := make([]models.Peer, 0)
	p, err := t.GetPeers(meta)
	if err != nil && err != io.EOF {
		s.log.Warn("failed to get peers", slog.Any("error", err))
	}
	peers = append(peers, p...)

	mutex := sync.Mutex{}
	var wg sync.WaitGroup
	for _, tier := range meta.AnnounceList {
		for _, announce := range tier {
			if announce == meta.Announce {
				continue
			}
			wg.Add(1)

			go func() {
				defer wg.Done()
				s.log.Info("retrieving peers from tracker", slog.String("announce", announce))
				t := tracker.NewTracker(announce, s.clientID)
				p, err := t.GetPeers(meta)
				if err != nil && err != io.EOF {
					s.log.Warn("failed to get peers", slog.Any("error", err))
					return
				}

				mutex.Lock()
				peers = append(peers, p...)
				mutex.Unlock()
			}()
			time.Sleep(50 * time.Millisecond)
		}
	}
	wg.Wait()

	return dedupePeers(peers), nil
}

func dedupePeers(peers []models.Peer) []models.Peer {
	seen := make(map[string]struct{})
	unique := make([]models.Peer, 0, len(peers))
	for _, p := range peers {
		addr := p.Addr.String()
		if strings.Contains(addr, "0.0.0.0") {
			continue
		}
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		unique = append(unique, p)
	}
	return unique
}

// Availability is the piece coverage observed across responsive peers.
type Availability struct {
	Contacted  int
	Responsive int
	// PeersWithPiece counts, per piece index, how many peers advertise it.
	PeersWithPiece map[int]int
}

var (
	ErrUnknownProtocol  = errors.New("peer spoke an unknown protocol")
	ErrInfoHashMismatch = errors.New("peer answered for a different torrent")
	ErrNoBitfield       = errors.New("peer sent no bitfield")
)

// Scan handshakes every peer and collects the bitfields they advertise.
func (s *Scanner) Scan(meta metainfo.Metainfo, peers []models.Peer) Availability {
	availability := Availability{
		Contacted:      len(peers),
		PeersWithPiece: make(map[int]int),
	}
	pieceCount := len(meta.Info.PieceHashes())

	bar := progressbar.Default(int64(len(peers)), "scanning peers")
	mutex := sync.Mutex{}
	var wg sync.WaitGroup
	for _, p := range peers {
		wg.Add(1)
		go func(p models.Peer) {
			defer wg.Done()
			defer bar.Add(1)

			havePieces, err := s.scanPeer(meta, p, pieceCount)
			if err != nil {
				s.log.Warn("peer scan failed", slog.String("peer", p.Addr.String()), slog.Any("error", err))
				return
			}

			mutex.Lock()
			availability.Responsive++
			for index := range havePieces {
				availability.PeersWithPiece[index]++
			}
			mutex.Unlock()
		}(p)
	}
	wg.Wait()

	return availability
}

// scanPeer reads frames until the peer's bitfield shows up; anything else a
// fresh peer usually sends first (have, choke state) is consumed and ignored.
func (s *Scanner) scanPeer(meta metainfo.Metainfo, p models.Peer, pieceCount int) (map[int]struct{}, error) {
	conn, err := peer.Dial(p.Addr)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	received, ok, err := conn.Handshake(wire.Handshake{
		InfoHash: meta.InfoHash,
		PeerID:   models.Hash([]byte(s.clientID)),
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnknownProtocol
	}
	if received.InfoHash != meta.InfoHash {
		return nil, ErrInfoHashMismatch
	}

	havePieces := make(map[int]struct{})
	for attempts := 0; attempts < 16; attempts++ {
		msg, err := conn.Recv()
		if err != nil {
			return nil, err
		}

		switch m := msg.(type) {
		case *wire.Bitfield:
			for index := 0; index < pieceCount; index++ {
				if m.HasPiece(index) {
					havePieces[index] = struct{}{}
				}
			}
			return havePieces, nil
		case *wire.Have:
			havePieces[int(m.PieceIndex)] = struct{}{}
		}
	}

	if len(havePieces) > 0 {
		return havePieces, nil
	}
	return nil, ErrNoBitfield
}
