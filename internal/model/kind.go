package model

import (
	"fmt"
	"strings"
)

// ArtifactKind identifies which of the two payloads of a call record a task
// downloads.
type ArtifactKind int

const (
	// ArtifactAudio is the call recording, saved as an .mp3 file in the
	// export root.
	ArtifactAudio ArtifactKind = iota

	// ArtifactTranscript is the call transcript, saved as a .json file in
	// the transcripts subdirectory.
	ArtifactTranscript
)

// AllKinds lists the artifact kinds in the order they are exported.
var AllKinds = []ArtifactKind{ArtifactAudio, ArtifactTranscript}

// String returns the lowercase name of the kind.
func (k ArtifactKind) String() string {
	switch k {
	case ArtifactAudio:
		return "audio"
	case ArtifactTranscript:
		return "transcript"
	default:
		return fmt.Sprintf("ArtifactKind(%d)", int(k))
	}
}

// Extension returns the file extension for the kind, including the dot.
//
// Returns:
//   - ".mp3" for ArtifactAudio
//   - ".json" for ArtifactTranscript
func (k ArtifactKind) Extension() string {
	switch k {
	case ArtifactTranscript:
		return ".json"
	default:
		return ".mp3"
	}
}

// Subdir returns the directory, relative to the export root, that holds
// files of this kind. Audio files live in the root itself.
func (k ArtifactKind) Subdir() string {
	if k == ArtifactTranscript {
		return "transcripts"
	}
	return ""
}

// Accept returns the Accept header to send when fetching this kind, or ""
// when the request should go out without one.
func (k ArtifactKind) Accept() string {
	if k == ArtifactTranscript {
		return "application/json"
	}
	return ""
}

// ParseArtifactKind converts a name such as "audio" or "transcripts" into an
// ArtifactKind.
func ParseArtifactKind(s string) (ArtifactKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "audio", "recording", "recordings":
		return ArtifactAudio, nil
	case "transcript", "transcripts":
		return ArtifactTranscript, nil
	default:
		return 0, fmt.Errorf("unknown artifact kind %q", s)
	}
}
