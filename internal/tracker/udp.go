package tracker

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/url"
	"strconv"

	"github.com/WendelHime/bitwire/internal/metainfo"
	"github.com/WendelHime/bitwire/internal/shared/models"
)

// UDP announce protocol, see http://bittorrent.org/beps/bep_0015.html.
type UDPGetter struct {
	interval int
	peerID   string
}

func NewUDPGetter(peerID string) PeersGetter {
	return UDPGetter{peerID: peerID}
}

const (
	udpProtocolID   = 0x41727101980
	actionConnect   = 0
	actionAnnounce  = 1
	peersRequested  = 100
	announcePort    = 6881
	connectRespSize = 16
)

func (u UDPGetter) GetPeers(announce string, meta metainfo.Metainfo) ([]models.Peer, error) {
	tracker, err := url.Parse(announce)
	if err != nil {
		return nil, err
	}

	trackerPort, err := strconv.Atoi(tracker.Port())
	if err != nil {
		return nil, err
	}

	ips, err := net.LookupIP(tracker.Hostname())
	if err != nil {
		return nil, err
	}

	conn, err := net.DialUDP("udp", nil, &net.UDPAddr{IP: ips[0], Port: trackerPort})
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	transactionID := rand.Uint32()

	connect := make([]byte, 16)
	binary.BigEndian.PutUint64(connect[0:], udpProtocolID)
	binary.BigEndian.PutUint32(connect[8:], actionConnect)
	binary.BigEndian.PutUint32(connect[12:], transactionID)
	if _, err := conn.Write(connect); err != nil {
		return nil, err
	}

	resp := make([]byte, connectRespSize)
	if _, err := io.ReadFull(conn, resp); err != nil {
		return nil, err
	}
	if binary.BigEndian.Uint32(resp[4:8]) != transactionID {
		return nil, fmt.Errorf("udp tracker: transaction id mismatch")
	}
	connectionID := binary.BigEndian.Uint64(resp[8:])

	request := make([]byte, 98)
	binary.BigEndian.PutUint64(request[0:8], connectionID)
	binary.BigEndian.PutUint32(request[8:12], actionAnnounce)
	binary.BigEndian.PutUint32(request[12:16], transactionID)
	copy(request[16:36], meta.InfoHash[:])
	copy(request[36:56], u.peerID)
	binary.BigEndian.PutUint64(request[56:64], 0)                             // downloaded
	binary.BigEndian.PutUint64(request[64:72], meta.Info.Files.TotalLength()) // left
	binary.BigEndian.PutUint64(request[72:80], 0)                             // uploaded
	binary.BigEndian.PutUint32(request[80:84], 0)                             // event
	binary.BigEndian.PutUint32(request[84:88], 0)                             // ip, 0 = sender address
	binary.BigEndian.PutUint32(request[88:92], rand.Uint32())                 // key
	binary.BigEndian.PutUint32(request[92:96], peersRequested)                // num_want
	binary.BigEndian.PutUint16(request[96:98], announcePort)
	if _, err := conn.Write(request); err != nil {
		return nil, err
	}

	buf := make([]byte, 20+peersRequested*6)
	read, err := conn.Read(buf)
	if err != nil {
		return nil, err
	}
	if read < 20 {
		return nil, fmt.Errorf("udp tracker: announce response too short")
	}

	u.interval = int(binary.BigEndian.Uint32(buf[8:12]))
	piecesWanted := len(meta.Info.PieceHashes())

	peerData := buf[20:read]
	peers := make([]models.Peer, 0, len(peerData)/6)
	for len(peerData) >= 6 {
		var addr models.Addr
		if err := addr.ReadFromBytes(peerData[:6]); err != nil {
			return nil, err
		}
		peerData = peerData[6:]

		peers = append(peers, models.Peer{
			Addr:         addr,
			HavePieces:   make(map[int]struct{}),
			PiecesWanted: piecesWanted,
		})
	}

	return peers, nil
}
