package selector

import "github.com/magicxor/ytdl-inline-bot/internal/domain/download/entities"

func size(v int64) *int64 { return &v }

func intp(v int) *int { return &v }

func rate(v float64) *float64 { return &v }

func video(id, codec string, height int, filesize *int64) entities.EncodingCandidate {
	return entities.EncodingCandidate{
		ID:         id,
		HasVideo:   true,
		VideoCodec: codec,
		Protocol:   "https",
		Height:     intp(height),
		Width:      intp(height * 16 / 9),
		Filesize:   filesize,
	}
}

func audio(id, lang string, bitrate float64, filesize *int64) entities.EncodingCandidate {
	return entities.EncodingCandidate{
		ID:         id,
		HasAudio:   true,
		AudioCodec: "mp4a.40.2",
		Protocol:   "https",
		Language:   lang,
		Bitrate:    rate(bitrate),
		Filesize:   filesize,
	}
}

func constraints() entities.SelectionConstraints {
	return entities.SelectionConstraints{
		MaxVideoBytes:        15_000_000,
		MaxAudioBytes:        8_000_000,
		MaxCombinedBytes:     50_000_000,
		PreferredLanguages:   []string{"en-US", "en", "ru-RU", "ru"},
		RequireKnownFilesize: true,
	}
}
