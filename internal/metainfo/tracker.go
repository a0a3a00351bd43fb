package metainfo

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"

	"github.com/WendelHime/bitwire/internal/bencode"
	"github.com/WendelHime/bitwire/internal/shared/models"
)

// TrackerResponse is a parsed announce response. A tracker either reports a
// failure reason or a peer list with announce timing; the variant is
// selected by the presence of the "failure reason" key.
type TrackerResponse struct {
	// FailureReason is non-empty on the failure variant; every other field
	// is meaningless then.
	FailureReason string

	// Interval is the number of seconds to wait between regular announces.
	Interval    uint64
	MinInterval uint64
	TrackerID   []byte
	Complete    uint64
	Incomplete  uint64
	Peers       []models.Peer
}

func (t TrackerResponse) Failed() bool {
	return t.FailureReason != ""
}

// ParseTrackerResponse reads one bencoded announce response from r.
func ParseTrackerResponse(r io.Reader) (TrackerResponse, error) {
	value, err := bencode.Decode(r)
	if err != nil {
		return TrackerResponse{}, err
	}

	dict, err := bencode.AsDict(value)
	if err != nil {
		return TrackerResponse{}, err
	}

	if dict.Has("failure reason") {
		reason, err := dict.RequiredText("failure reason")
		if err != nil {
			return TrackerResponse{}, err
		}
		return TrackerResponse{FailureReason: reason}, nil
	}

	var resp TrackerResponse
	resp.Interval, err = dict.RequiredInt("interval")
	if err != nil {
		return TrackerResponse{}, err
	}
	resp.MinInterval, _ = dict.OptionalInt("min interval")
	resp.TrackerID, _ = dict.OptionalBytes("tracker id")
	resp.Complete, _ = dict.OptionalInt("complete")
	resp.Incomplete, _ = dict.OptionalInt("incomplete")

	peersValue, ok := dict["peers"]
	if !ok {
		return TrackerResponse{}, fmt.Errorf("%w: %q", bencode.ErrMissingField, "peers")
	}
	resp.Peers, err = parsePeers(peersValue)
	if err != nil {
		return TrackerResponse{}, err
	}

	return resp, nil
}

// parsePeers accepts both peer list forms: the compact 6-bytes-per-peer
// string and the canonical list of dictionaries.
func parsePeers(value bencode.Value) ([]models.Peer, error) {
	switch v := value.(type) {
	case bencode.String:
		return parseCompactPeers([]byte(v))
	case bencode.List:
		return parseCanonicalPeers(v), nil
	default:
		return nil, fmt.Errorf("%w: field %q", bencode.ErrInvalidFormat, "peers")
	}
}

func parseCompactPeers(raw []byte) ([]models.Peer, error) {
	if len(raw)%6 != 0 {
		return nil, fmt.Errorf("%w: compact peers length %d", bencode.ErrInvalidFormat, len(raw))
	}

	peers := make([]models.Peer, 0, len(raw)/6)
	for offset := 0; offset < len(raw); offset += 6 {
		var addr models.Addr
		if err := addr.ReadFromBytes(raw[offset : offset+6]); err != nil {
			return nil, err
		}
		peers = append(peers, models.Peer{Addr: addr})
	}
	return peers, nil
}

// canonical peer entries with unexpected shapes are dropped, the same
// leniency applied to every other optional structure
func parseCanonicalPeers(entries bencode.List) []models.Peer {
	peers := make([]models.Peer, 0, len(entries))
	for _, entry := range entries {
		dict, err := bencode.AsDict(entry)
		if err != nil {
			continue
		}

		ip, ok := dict.OptionalText("ip")
		if !ok {
			continue
		}
		port, ok := dict.OptionalInt("port")
		if !ok {
			continue
		}
		parsed := net.ParseIP(ip)
		if parsed == nil {
			continue
		}

		id, _ := dict.OptionalBytes("peer id")
		peers = append(peers, models.Peer{
			Addr: models.Addr{IP: parsed, Port: uint16(port)},
			ID:   string(id),
		})
	}
	return peers
}

// Encode maps the response back onto a bencode value, emitting peers in
// compact form.
func (t TrackerResponse) Encode() bencode.Value {
	if t.Failed() {
		return bencode.Dictionary{"failure reason": bencode.String(t.FailureReason)}
	}

	compact := make([]byte, 0, 6*len(t.Peers))
	for _, peer := range t.Peers {
		ip := peer.Addr.IP.To4()
		if ip == nil {
			continue
		}
		compact = append(compact, ip...)
		compact = binary.BigEndian.AppendUint16(compact, peer.Addr.Port)
	}

	dict := bencode.Dictionary{
		"interval": bencode.Integer(t.Interval),
		"peers":    bencode.String(compact),
	}
	if t.MinInterval != 0 {
		dict["min interval"] = bencode.Integer(t.MinInterval)
	}
	if len(t.TrackerID) > 0 {
		dict["tracker id"] = bencode.String(t.TrackerID)
	}
	if t.Complete != 0 {
		dict["complete"] = bencode.Integer(t.Complete)
	}
	if t.Incomplete != 0 {
		dict["incomplete"] = bencode.Integer(t.Incomplete)
	}
	return dict
}

// Save writes the canonical bencoded form of t into w.
func (t TrackerResponse) Save(w io.Writer) error {
	return bencode.EncodeTo(w, t.Encode())
}
