package integration

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/WendelHime/bitwire/internal/metainfo"
	"github.com/cucumber/godog"
)

type IntegrationTest struct {
	raw  []byte
	meta metainfo.Metainfo
}

func (i *IntegrationTest) iHaveATorrentFile(torrentPath string) error {
	raw, err := os.ReadFile(torrentPath)
	if err != nil {
		return err
	}

	i.raw = raw

	return nil
}

func (i *IntegrationTest) iParseTheMetainfo() error {
	meta, err := metainfo.Load(bytes.NewReader(i.raw))
	if err != nil {
		return err
	}

	i.meta = meta

	return nil
}

func (i *IntegrationTest) theNameShouldBe(expected string) error {
	if i.meta.Info.Name != expected {
		return fmt.Errorf("expected name %q, got %q", expected, i.meta.Info.Name)
	}
	return nil
}

func (i *IntegrationTest) thePieceLengthShouldBe(expected int) error {
	if i.meta.Info.PieceLength != uint64(expected) {
		return fmt.Errorf("expected piece length %d, got %d", expected, i.meta.Info.PieceLength)
	}
	return nil
}

func (i *IntegrationTest) theAnnounceURLShouldBe(expected string) error {
	if i.meta.Announce != expected {
		return fmt.Errorf("expected announce %q, got %q", expected, i.meta.Announce)
	}
	return nil
}

func (i *IntegrationTest) theInfoHashShouldBe(expected string) error {
	if i.meta.InfoHash.Hex() != expected {
		return fmt.Errorf("expected info hash %s, got %s", expected, i.meta.InfoHash.Hex())
	}
	return nil
}

func (i *IntegrationTest) reencodingShouldReproduceTheOriginalBytes() error {
	var out bytes.Buffer
	if err := i.meta.Save(&out); err != nil {
		return err
	}

	if !bytes.Equal(i.raw, out.Bytes()) {
		return errors.New("re-encoded torrent differs from the original bytes")
	}

	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	i := &IntegrationTest{}
	ctx.Step(`^I have a torrent file "([^"]*)"$`, i.iHaveATorrentFile)
	ctx.Step(`^I parse the metainfo$`, i.iParseTheMetainfo)
	ctx.Step(`^The name should be "([^"]*)"$`, i.theNameShouldBe)
	ctx.Step(`^The piece length should be (\d+)$`, i.thePieceLengthShouldBe)
	ctx.Step(`^The announce URL should be "([^"]*)"$`, i.theAnnounceURLShouldBe)
	ctx.Step(`^The info hash should be "([^"]*)"$`, i.theInfoHashShouldBe)
	ctx.Step(`^Re-encoding should reproduce the original bytes$`, i.reencodingShouldReproduceTheOriginalBytes)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t, // Testing instance that will run subtests.
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
