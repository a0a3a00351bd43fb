package swarm

import (
	"net"
	"testing"

	"github.com/WendelHime/bitwire/internal/shared/models"
	"github.com/stretchr/testify/assert"
)

func TestGenerateRandomPeerID(t *testing.T) {
	id := generateRandomPeerID()
	assert.Len(t, id, 20)

	for _, c := range id {
		isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		isDigit := c >= '0' && c <= '9'
		assert.True(t, isLetter || isDigit)
	}
}

func TestDedupePeers(t *testing.T) {
	given := []models.Peer{
		{Addr: models.Addr{IP: net.IPv4(10, 0, 0, 1), Port: 6881}},
		{Addr: models.Addr{IP: net.IPv4(10, 0, 0, 1), Port: 6881}},
		{Addr: models.Addr{IP: net.IPv4(0, 0, 0, 0), Port: 6881}},
		{Addr: models.Addr{IP: net.IPv4(10, 0, 0, 2), Port: 6881}},
	}

	unique := dedupePeers(given)
	assert.Len(t, unique, 2)
	assert.Equal(t, "10.0.0.1:6881", unique[0].Addr.String())
	assert.Equal(t, "10.0.0.2:6881", unique[1].Addr.String())
}
