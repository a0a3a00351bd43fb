package tracker

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/WendelHime/bitwire/internal/metainfo"
	"github.com/WendelHime/bitwire/internal/shared/models"
)

type HTTPGetter struct {
	client   *http.Client
	peerID   string
	interval int
}

func NewHTTPGetter(client *http.Client, peerID string) PeersGetter {
	return &HTTPGetter{client: client, peerID: peerID}
}

func (h *HTTPGetter) GetPeers(announce string, meta metainfo.Metainfo) ([]models.Peer, error) {
	tracker, err := url.Parse(announce)
	if err != nil {
		return nil, err
	}

	query := tracker.Query()
	query.Add("info_hash", meta.InfoHash.String())
	query.Add("peer_id", h.peerID)
	query.Add("port", "6881")
	query.Add("uploaded", "0")
	query.Add("downloaded", "0")
	query.Add("left", strconv.FormatUint(meta.Info.Files.TotalLength(), 10))
	query.Add("compact", "1")
	query.Add("event", "started")
	tracker.RawQuery = query.Encode()

	response, err := h.client.Get(tracker.String())
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http error: %s", response.Status)
	}

	announced, err := metainfo.ParseTrackerResponse(response.Body)
	if err != nil {
		return nil, err
	}
	if announced.Failed() {
		return nil, fmt.Errorf("tracker failure: %s", announced.FailureReason)
	}

	h.interval = int(announced.Interval)
	piecesWanted := len(meta.Info.PieceHashes())
	peers := make([]models.Peer, len(announced.Peers))
	for i, p := range announced.Peers {
		peers[i] = models.Peer{
			Addr:         p.Addr,
			ID:           p.ID,
			HavePieces:   make(map[int]struct{}),
			PiecesWanted: piecesWanted,
		}
	}

	return peers, nil
}
