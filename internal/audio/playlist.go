package audio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/handiism/call-export/internal/model"
)

// PlaylistFormat represents supported playlist file formats.
type PlaylistFormat int

const (
	// FormatM3U creates .m3u files (most compatible).
	// Can be extended with EXTINF lines for title info.
	FormatM3U PlaylistFormat = iota

	// FormatPLS creates .pls files (Winamp/SHOUTcast format).
	FormatPLS
)

// ParsePlaylistFormat maps a settings value to a PlaylistFormat. Unknown
// values fall back to M3U.
func ParsePlaylistFormat(s string) PlaylistFormat {
	if strings.EqualFold(s, "pls") {
		return FormatPLS
	}
	return FormatM3U
}

// Extension returns the file extension for the playlist format, including the dot.
func (pf PlaylistFormat) Extension() string {
	if pf == FormatPLS {
		return ".pls"
	}
	return ".m3u"
}

// PlaylistCreator generates playlists of exported recordings.
//
// Entry paths are relative to the export directory, so the playlist file
// belongs next to the recordings.
//
// Example:
//
//	creator := NewPlaylistCreator(FormatM3U, true)
//	content := creator.CreatePlaylist(tasks)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:-1,2024 01 01
//	// 2024_01_01.mp3
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool // For M3U: include EXTINF lines with titles
}

// NewPlaylistCreator creates a new PlaylistCreator.
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// Format returns the playlist format.
func (p *PlaylistCreator) Format() PlaylistFormat {
	return p.format
}

// CreatePlaylist generates playlist content for the given recordings, in
// the order given.
func (p *PlaylistCreator) CreatePlaylist(tasks []*model.DownloadTask) string {
	switch p.format {
	case FormatPLS:
		return p.createPLS(tasks)
	default:
		return p.createM3U(tasks)
	}
}

// createM3U generates an M3U playlist. Durations are unknown, so extended
// entries use -1.
func (p *PlaylistCreator) createM3U(tasks []*model.DownloadTask) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, task := range tasks {
		if p.extended {
			sb.WriteString(fmt.Sprintf("#EXTINF:-1,%s\n", title(task)))
		}
		sb.WriteString(filepath.Base(task.Path) + "\n")
	}

	return sb.String()
}

// createPLS generates a PLS playlist.
//
//	[playlist]
//	File1=2024_01_01.mp3
//	Title1=2024 01 01
//	Length1=-1
//	NumberOfEntries=1
//	Version=2
func (p *PlaylistCreator) createPLS(tasks []*model.DownloadTask) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, task := range tasks {
		idx := i + 1
		sb.WriteString(fmt.Sprintf("File%d=%s\n", idx, filepath.Base(task.Path)))
		sb.WriteString(fmt.Sprintf("Title%d=%s\n", idx, title(task)))
		sb.WriteString(fmt.Sprintf("Length%d=-1\n", idx))
	}

	sb.WriteString(fmt.Sprintf("NumberOfEntries=%d\n", len(tasks)))
	sb.WriteString("Version=2\n")

	return sb.String()
}

func title(task *model.DownloadTask) string {
	if task.Label != "" {
		return task.Label
	}
	return strings.TrimSuffix(task.FileName, task.Kind.Extension())
}
