package audio

import (
	"os"

	"github.com/bogem/id3v2"
	"github.com/handiism/call-export/internal/model"
)

// TagEditAction defines how to handle individual ID3 tags.
type TagEditAction int

const (
	// TagEmpty clears the tag value (sets to empty string).
	TagEmpty TagEditAction = iota

	// TagModify updates the tag with the value from the manifest.
	TagModify

	// TagDoNotModify leaves the existing tag value unchanged.
	TagDoNotModify
)

// TagConfig holds tagging configuration for each ID3 field.
//
// Example:
//
//	cfg := &TagConfig{
//	    Album:      "Support line",
//	    TrackTitle: TagModify,      // file name column, e.g. "2024 01 01"
//	    AlbumTitle: TagModify,      // Album above
//	    Comments:   TagModify,      // recording URL or call id
//	    Genre:      TagDoNotModify,
//	}
type TagConfig struct {
	// Album is written to TALB when AlbumTitle is TagModify.
	Album string

	// TrackTitle controls the TIT2 (Title) frame.
	TrackTitle TagEditAction

	// AlbumTitle controls the TALB (Album title) frame.
	AlbumTitle TagEditAction

	// Comments controls the COMM (Comments) frame.
	Comments TagEditAction

	// Genre controls the TCON (Content type) frame, set to "Speech".
	Genre TagEditAction
}

// DefaultTagConfig returns the default tag configuration.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		Album:      "Call recordings",
		TrackTitle: TagModify,
		AlbumTitle: TagModify,
		Comments:   TagModify,
		Genre:      TagModify,
	}
}

// Tagger writes ID3 tags to downloaded recordings.
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//
//	// After the recording is on disk
//	if err := tagger.SaveTags(task); err != nil {
//	    log.Printf("Failed to tag %s: %v", task.Path, err)
//	}
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// SaveTags writes ID3 tags to the task's file.
//
// The file must already exist. Tagging rewrites the file, so the bytes on
// disk no longer match the downloaded body.
func (t *Tagger) SaveTags(task *model.DownloadTask) error {
	if _, err := os.Stat(task.Path); err != nil {
		return err
	}

	tag, err := id3v2.Open(task.Path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	t.updateStringTags(tag, task)

	return tag.Save()
}

// updateStringTags updates text-based ID3 frames based on configuration.
func (t *Tagger) updateStringTags(tag *id3v2.Tag, task *model.DownloadTask) {
	// Title (TIT2)
	switch t.config.TrackTitle {
	case TagEmpty:
		tag.SetTitle("")
	case TagModify:
		tag.SetTitle(task.Label)
	}

	// Album (TALB)
	switch t.config.AlbumTitle {
	case TagEmpty:
		tag.SetAlbum("")
	case TagModify:
		tag.SetAlbum(t.config.Album)
	}

	// Comments (COMM)
	switch t.config.Comments {
	case TagEmpty:
		tag.DeleteFrames(tag.CommonID("Comments"))
	case TagModify:
		tag.DeleteFrames(tag.CommonID("Comments"))
		tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding:    id3v2.EncodingUTF8,
			Language:    "eng",
			Description: "record",
			Text:        task.RecordID,
		})
	}

	// Genre (TCON)
	switch t.config.Genre {
	case TagEmpty:
		tag.SetGenre("")
	case TagModify:
		tag.SetGenre("Speech")
	}
}
