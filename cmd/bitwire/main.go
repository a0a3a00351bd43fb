package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/WendelHime/bitwire/internal/metainfo"
	"github.com/WendelHime/bitwire/internal/swarm"
)

func main() {
	var torrentPath string
	var announce bool
	var logPath string
	flag.StringVar(&torrentPath, "torrent", "", "Specify the input torrent file")
	flag.BoolVar(&announce, "announce", false, "Announce to the trackers and scan the swarm")
	flag.StringVar(&logPath, "log", "log.txt", "Specify the log file")
	flag.Parse()

	if torrentPath == "" {
		fmt.Fprintln(os.Stderr, "usage: bitwire -torrent <file> [-announce]")
		os.Exit(2)
	}

	f, err := os.Open(torrentPath)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	logOut, err := os.Create(logPath)
	if err != nil {
		panic(err)
	}
	defer logOut.Close()
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: slog.LevelInfo}))

	meta, err := metainfo.Load(f)
	if err != nil {
		logger.Error("failed to parse torrent", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "failed to parse torrent: %v\n", err)
		os.Exit(1)
	}

	printMetainfo(meta)

	if !announce {
		return
	}

	scanner := swarm.NewScanner(logger)
	peers, err := scanner.RetrievePeers(meta)
	if err != nil {
		logger.Error("failed to retrieve peers", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "failed to retrieve peers: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("peers:        %d\n", len(peers))

	availability := scanner.Scan(meta, peers)
	fmt.Printf("responsive:   %d/%d\n", availability.Responsive, availability.Contacted)

	pieceCount := len(meta.Info.PieceHashes())
	covered := 0
	for index := 0; index < pieceCount; index++ {
		if availability.PeersWithPiece[index] > 0 {
			covered++
		}
	}
	fmt.Printf("coverage:     %d/%d pieces\n", covered, pieceCount)
}

func printMetainfo(meta metainfo.Metainfo) {
	fmt.Printf("name:         %s\n", meta.Info.Name)
	fmt.Printf("announce:     %s\n", meta.Announce)
	fmt.Printf("info hash:    %s\n", meta.InfoHash.Hex())
	fmt.Printf("piece length: %d\n", meta.Info.PieceLength)
	fmt.Printf("pieces:       %d\n", len(meta.Info.PieceHashes()))
	fmt.Printf("total length: %d\n", meta.Info.Files.TotalLength())

	if files, ok := meta.Info.Files.(metainfo.MultiFile); ok {
		for _, file := range files.Files {
			fmt.Printf("  %10d  %s\n", file.Length, strings.Join(file.Path, "/"))
		}
	}
}
