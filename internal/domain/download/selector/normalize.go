// Package selector picks the video and audio streams to merge
package selector

import (
	"strings"

	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/entities"
)

// Normalized holds the candidate lists the selector works on
type Normalized struct {
	Video []entities.EncodingCandidate
	Audio []entities.EncodingCandidate
}

// Empty reports whether nothing can be selected
func (n Normalized) Empty() bool {
	return len(n.Video) == 0 && len(n.Audio) == 0
}

// disqualifiedProtocols cannot be merged into a single progressive file reliably
var disqualifiedProtocols = map[string]struct{}{
	"m3u8":                         {},
	"m3u8_native":                  {},
	"http_dash_segments":           {},
	"http_dash_segments_generator": {},
	"f4m":                          {},
	"ism":                          {},
	"mhtml":                        {},
	"rtmp":                         {},
	"rtmpe":                        {},
	"rtsp":                         {},
	"mms":                          {},
	"websocket_frag":               {},
}

// Normalize splits raw candidates into video-capable and audio-capable lists.
// Duplicated ids keep their first occurrence and input order is preserved.
// Audio prefers pure audio streams and falls back to any stream carrying audio.
func Normalize(formats []entities.EncodingCandidate) Normalized {
	var n Normalized
	if len(formats) == 0 {
		return n
	}

	seen := make(map[string]struct{}, len(formats))
	var pureAudio, anyAudio []entities.EncodingCandidate

	for _, f := range formats {
		if _, dup := seen[f.ID]; dup {
			continue
		}
		seen[f.ID] = struct{}{}

		if !protocolAllowed(f.Protocol) {
			continue
		}

		if f.HasVideo {
			n.Video = append(n.Video, f)
		}
		if f.HasAudio {
			anyAudio = append(anyAudio, f)
			if !f.HasVideo {
				pureAudio = append(pureAudio, f)
			}
		}
	}

	n.Audio = pureAudio
	if len(n.Audio) == 0 {
		n.Audio = anyAudio
	}

	return n
}

// protocolAllowed checks every part of a possibly combined protocol such as "https+https"
func protocolAllowed(protocol string) bool {
	for _, part := range strings.Split(strings.ToLower(protocol), "+") {
		if _, bad := disqualifiedProtocols[strings.TrimSpace(part)]; bad {
			return false
		}
	}
	return true
}
