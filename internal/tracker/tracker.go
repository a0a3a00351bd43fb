// Package tracker announces torrents to HTTP and UDP trackers and collects
// the peers they return.
package tracker

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/WendelHime/bitwire/internal/metainfo"
	"github.com/WendelHime/bitwire/internal/shared/models"
)

type Tracker interface {
	GetPeers(metainfo.Metainfo) ([]models.Peer, error)
	WithHTTPClient(client *http.Client) Tracker
}

type PeersGetter interface {
	GetPeers(announce string, meta metainfo.Metainfo) ([]models.Peer, error)
}

type tracker struct {
	AnnounceURL string
	PeerID      string
	HTTPClient  PeersGetter
	UDPClient   PeersGetter
}

func NewTracker(announceURL, peerID string) Tracker {
	return &tracker{
		AnnounceURL: announceURL,
		PeerID:      peerID,
		HTTPClient:  NewHTTPGetter(&http.Client{Timeout: 60 * time.Second}, peerID),
		UDPClient:   NewUDPGetter(peerID),
	}
}

func (t *tracker) WithHTTPClient(client *http.Client) Tracker {
	t.HTTPClient = NewHTTPGetter(client, t.PeerID)
	return t
}

func (t *tracker) GetPeers(meta metainfo.Metainfo) ([]models.Peer, error) {
	if t.AnnounceURL == "" {
		return nil, fmt.Errorf("announce url is empty")
	}
	switch {
	case strings.HasPrefix(t.AnnounceURL, "http"):
		return t.HTTPClient.GetPeers(t.AnnounceURL, meta)
	case strings.HasPrefix(t.AnnounceURL, "udp"):
		return t.UDPClient.GetPeers(t.AnnounceURL, meta)
	default:
		slog.Error("unsupported protocol", slog.String("announce-url", t.AnnounceURL))
		return nil, fmt.Errorf("unsupported protocol")
	}
}
