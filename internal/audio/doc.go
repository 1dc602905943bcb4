// Package audio provides post-processing for exported call recordings:
// ID3 tag writing and playlist generation.
//
// # ID3 Tagging
//
// Use the Tagger to label downloaded recordings:
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	err := tagger.SaveTags(task)
//
// The tagger writes:
//   - Title, from the manifest file name column
//   - Album, from settings
//   - Comment, holding the recording URL
//   - Genre
//
// # Playlist Generation
//
// Generate a playlist of the recordings that were downloaded:
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true) // extended M3U
//	content := creator.CreatePlaylist(tasks)
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
package audio
