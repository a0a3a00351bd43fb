// Package metainfo maps bencoded .torrent files and tracker responses onto
// typed schemas.
package metainfo

import (
	"fmt"
	"io"

	"github.com/WendelHime/bitwire/internal/bencode"
	"github.com/WendelHime/bitwire/internal/shared/models"
)

// Metainfo is a parsed .torrent file. Loaded once and immutable afterwards.
type Metainfo struct {
	Info     Info
	Announce string
	// AnnounceList holds tracker tiers, see http://bittorrent.org/beps/bep_0012.html.
	AnnounceList [][]string
	// CreationDate is seconds since epoch; optional fields are zero when absent.
	CreationDate uint64
	Comment      string
	CreatedBy    string
	Encoding     string

	// InfoHash is the SHA-1 of the canonically encoded info dictionary as it
	// appeared on disk, unknown keys included.
	InfoHash models.Hash
}

type Info struct {
	PieceLength uint64
	// Pieces is the concatenation of 20-byte SHA-1 blocks, one per piece.
	Pieces  []byte
	Private bool
	Name    string
	Files   Files
}

// Files is the single-file/multi-file variant of the info dictionary,
// selected on decode by the presence of a "files" key.
type Files interface {
	TotalLength() uint64
	encodeInto(d bencode.Dictionary)
}

type SingleFile struct {
	Length uint64
	MD5Sum []byte
}

func (f SingleFile) TotalLength() uint64 { return f.Length }

type MultiFile struct {
	Files []FileInfo
}

func (f MultiFile) TotalLength() uint64 {
	var total uint64
	for _, file := range f.Files {
		total += file.Length
	}
	return total
}

type FileInfo struct {
	Length uint64
	MD5Sum []byte
	// Path segments, directories first, filename last. Never empty.
	Path []string
}

// PieceHashes splits Pieces into its 20-byte blocks.
func (i Info) PieceHashes() []models.Hash {
	hashes := make([]models.Hash, 0, len(i.Pieces)/20)
	for offset := 0; offset < len(i.Pieces); offset += 20 {
		hash, _ := models.HashFromBytes(i.Pieces[offset : offset+20])
		hashes = append(hashes, hash)
	}
	return hashes
}

// Load reads and parses one bencoded .torrent document from r.
func Load(r io.Reader) (Metainfo, error) {
	value, err := bencode.Decode(r)
	if err != nil {
		return Metainfo{}, err
	}
	return ParseMetainfo(value)
}

// ParseMetainfo maps a decoded bencode value onto the Metainfo schema.
func ParseMetainfo(value bencode.Value) (Metainfo, error) {
	dict, err := bencode.AsDict(value)
	if err != nil {
		return Metainfo{}, err
	}

	var meta Metainfo

	// hash the info dictionary before field extraction consumes it, so
	// keys this schema does not know still count towards the hash
	if infoValue, ok := dict["info"]; ok {
		meta.InfoHash = models.HashOf(bencode.Encode(infoValue))
	}

	infoDict, err := dict.RequiredDict("info")
	if err != nil {
		return Metainfo{}, err
	}
	meta.Info, err = parseInfo(infoDict)
	if err != nil {
		return Metainfo{}, err
	}

	meta.Announce, err = dict.RequiredText("announce")
	if err != nil {
		return Metainfo{}, err
	}

	if tiers, ok := dict.OptionalList("announce-list"); ok {
		meta.AnnounceList = parseAnnounceList(tiers)
	}
	meta.CreationDate, _ = dict.OptionalInt("creation date")
	meta.Comment, _ = dict.OptionalText("comment")
	meta.CreatedBy, _ = dict.OptionalText("created by")
	meta.Encoding, _ = dict.OptionalText("encoding")

	return meta, nil
}

func parseInfo(dict bencode.Dictionary) (Info, error) {
	var info Info
	var err error

	info.PieceLength, err = dict.RequiredInt("piece length")
	if err != nil {
		return Info{}, err
	}
	if info.PieceLength == 0 {
		return Info{}, fmt.Errorf("%w: field %q must be positive", bencode.ErrInvalidFormat, "piece length")
	}

	info.Pieces, err = dict.RequiredBytes("pieces")
	if err != nil {
		return Info{}, err
	}
	if len(info.Pieces)%20 != 0 {
		return Info{}, fmt.Errorf("%w: field %q length must be a multiple of 20", bencode.ErrInvalidFormat, "pieces")
	}

	info.Name, err = dict.RequiredText("name")
	if err != nil {
		return Info{}, err
	}

	if private, ok := dict.OptionalInt("private"); ok {
		info.Private = private == 1
	}

	info.Files, err = parseFiles(dict)
	if err != nil {
		return Info{}, err
	}

	return info, nil
}

func parseFiles(dict bencode.Dictionary) (Files, error) {
	if !dict.Has("files") {
		length, err := dict.RequiredInt("length")
		if err != nil {
			return nil, err
		}
		md5sum, _ := dict.OptionalBytes("md5sum")
		return SingleFile{Length: length, MD5Sum: md5sum}, nil
	}

	entries, err := dict.RequiredList("files")
	if err != nil {
		return nil, err
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		file, err := parseFileInfo(entry)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return MultiFile{Files: files}, nil
}

func parseFileInfo(value bencode.Value) (FileInfo, error) {
	dict, err := bencode.AsDict(value)
	if err != nil {
		return FileInfo{}, fmt.Errorf("%w: field %q", bencode.ErrInvalidFormat, "files")
	}

	var file FileInfo
	file.Length, err = dict.RequiredInt("length")
	if err != nil {
		return FileInfo{}, err
	}
	file.MD5Sum, _ = dict.OptionalBytes("md5sum")

	segments, err := dict.RequiredList("path")
	if err != nil {
		return FileInfo{}, err
	}
	for _, segment := range segments {
		text, err := bencode.AsText(segment)
		if err != nil {
			return FileInfo{}, fmt.Errorf("%w: field %q", bencode.ErrInvalidFormat, "path")
		}
		file.Path = append(file.Path, text)
	}
	if len(file.Path) == 0 {
		return FileInfo{}, fmt.Errorf("%w: field %q must not be empty", bencode.ErrInvalidFormat, "path")
	}

	return file, nil
}

// parseAnnounceList is lenient: tiers or URLs with unexpected shapes are
// dropped rather than failing the parse, matching optional-field semantics.
func parseAnnounceList(tiers bencode.List) [][]string {
	out := make([][]string, 0, len(tiers))
	for _, tierValue := range tiers {
		tier, err := bencode.AsList(tierValue)
		if err != nil {
			continue
		}

		urls := make([]string, 0, len(tier))
		for _, urlValue := range tier {
			url, err := bencode.AsText(urlValue)
			if err != nil {
				continue
			}
			urls = append(urls, url)
		}
		out = append(out, urls)
	}
	return out
}

// Encode maps the metainfo back onto a bencode value. Re-encoding a
// canonically stored torrent reproduces its exact bytes.
func (m Metainfo) Encode() bencode.Value {
	dict := bencode.Dictionary{
		"info":     m.Info.encode(),
		"announce": bencode.String(m.Announce),
	}

	if len(m.AnnounceList) > 0 {
		tiers := make(bencode.List, 0, len(m.AnnounceList))
		for _, tier := range m.AnnounceList {
			urls := make(bencode.List, 0, len(tier))
			for _, url := range tier {
				urls = append(urls, bencode.String(url))
			}
			tiers = append(tiers, urls)
		}
		dict["announce-list"] = tiers
	}
	if m.CreationDate != 0 {
		dict["creation date"] = bencode.Integer(m.CreationDate)
	}
	if m.Comment != "" {
		dict["comment"] = bencode.String(m.Comment)
	}
	if m.CreatedBy != "" {
		dict["created by"] = bencode.String(m.CreatedBy)
	}
	if m.Encoding != "" {
		dict["encoding"] = bencode.String(m.Encoding)
	}

	return dict
}

// Save writes the canonical bencoded form of m into w.
func (m Metainfo) Save(w io.Writer) error {
	return bencode.EncodeTo(w, m.Encode())
}

func (i Info) encode() bencode.Dictionary {
	dict := bencode.Dictionary{
		"piece length": bencode.Integer(i.PieceLength),
		"pieces":       bencode.String(i.Pieces),
		"name":         bencode.String(i.Name),
	}
	if i.Private {
		dict["private"] = bencode.Integer(1)
	}
	i.Files.encodeInto(dict)
	return dict
}

func (f SingleFile) encodeInto(dict bencode.Dictionary) {
	dict["length"] = bencode.Integer(f.Length)
	if len(f.MD5Sum) > 0 {
		dict["md5sum"] = bencode.String(f.MD5Sum)
	}
}

func (f MultiFile) encodeInto(dict bencode.Dictionary) {
	entries := make(bencode.List, 0, len(f.Files))
	for _, file := range f.Files {
		entry := bencode.Dictionary{
			"length": bencode.Integer(file.Length),
		}
		if len(file.MD5Sum) > 0 {
			entry["md5sum"] = bencode.String(file.MD5Sum)
		}
		segments := make(bencode.List, 0, len(file.Path))
		for _, segment := range file.Path {
			segments = append(segments, bencode.String(segment))
		}
		entry["path"] = segments
		entries = append(entries, entry)
	}
	dict["files"] = entries
}
