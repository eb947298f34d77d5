package selector

import (
	"sort"
	"strings"

	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/entities"
)

// Select picks at most one video and at most one audio candidate.
// It never fails: an empty choice is reported as a nil stream in the result.
func Select(n Normalized, c entities.SelectionConstraints, meta entities.CatalogMeta) entities.SelectionResult {
	result := entities.SelectionResult{
		Video:           SelectVideo(n.Video, c),
		Audio:           SelectAudio(n.Audio, c),
		Title:           meta.Title,
		DurationSeconds: meta.DurationSeconds,
	}
	if result.DurationSeconds < 0 {
		result.DurationSeconds = 0
	}
	if result.Video != nil {
		result.Width = result.Video.Width
		result.Height = result.Video.Height
	}
	return result
}

// SelectVideo prefers broadly compatible codecs at the highest resolution that fits the ceiling
func SelectVideo(candidates []entities.EncodingCandidate, c entities.SelectionConstraints) *entities.EncodingCandidate {
	if len(candidates) == 0 {
		return nil
	}

	all := rankVideo(candidates)
	compatible := make([]entities.EncodingCandidate, 0, len(all))
	for _, cand := range all {
		if isCompatibleVideoCodec(cand.VideoCodec) {
			compatible = append(compatible, cand)
		}
	}

	relaxed := !c.RequireKnownFilesize && !anySized(all)

	if chosen := firstFitting(compatible, c.MaxVideoBytes, relaxed); chosen != nil {
		return chosen
	}
	if chosen := firstFitting(all, c.MaxVideoBytes, relaxed); chosen != nil {
		return chosen
	}

	if chosen := smallest(compatible); chosen != nil {
		return chosen
	}
	return smallest(all)
}

// SelectAudio walks preferred language tiers, then bitrate order, then the smallest stream
func SelectAudio(candidates []entities.EncodingCandidate, c entities.SelectionConstraints) *entities.EncodingCandidate {
	if len(candidates) == 0 {
		return nil
	}

	all := rankAudio(candidates)
	relaxed := !c.RequireKnownFilesize && !anySized(all)

	for _, tag := range c.PreferredLanguages {
		if tag == "" {
			continue
		}

		var tier []entities.EncodingCandidate
		for _, cand := range all {
			if matchesLanguage(cand.Language, tag) && fits(cand, c.MaxAudioBytes, relaxed) {
				tier = append(tier, cand)
			}
		}
		if len(tier) == 0 {
			continue
		}

		for _, cand := range tier {
			if isOriginalTrack(cand) {
				return clone(cand)
			}
		}
		return clone(tier[0])
	}

	if chosen := firstFitting(all, c.MaxAudioBytes, relaxed); chosen != nil {
		return chosen
	}
	return smallest(all)
}

// matchesLanguage is case-sensitive and asymmetric: tag "en" matches "en-US" but "en-US" does not match "en"
func matchesLanguage(language, tag string) bool {
	return language == tag || strings.HasPrefix(language, tag)
}

func isOriginalTrack(c entities.EncodingCandidate) bool {
	return strings.Contains(strings.ToLower(c.FormatNote), "original") ||
		strings.Contains(strings.ToLower(c.ID), "original")
}

func isCompatibleVideoCodec(codec string) bool {
	codec = strings.ToLower(codec)
	return strings.HasPrefix(codec, "avc") || strings.Contains(codec, "h264")
}

func fits(c entities.EncodingCandidate, limit int64, acceptUnsized bool) bool {
	if c.Filesize == nil {
		return acceptUnsized
	}
	return *c.Filesize <= limit
}

func firstFitting(ranked []entities.EncodingCandidate, limit int64, acceptUnsized bool) *entities.EncodingCandidate {
	for _, c := range ranked {
		if fits(c, limit, acceptUnsized) {
			return clone(c)
		}
	}
	return nil
}

// smallest returns the sized candidate with the lowest filesize, keeping rank order on ties
func smallest(ranked []entities.EncodingCandidate) *entities.EncodingCandidate {
	var best *entities.EncodingCandidate
	for i := range ranked {
		if ranked[i].Filesize == nil {
			continue
		}
		if best == nil || *ranked[i].Filesize < *best.Filesize {
			best = &ranked[i]
		}
	}
	if best == nil {
		return nil
	}
	return clone(*best)
}

func anySized(candidates []entities.EncodingCandidate) bool {
	for _, c := range candidates {
		if c.Filesize != nil {
			return true
		}
	}
	return false
}

func clone(c entities.EncodingCandidate) *entities.EncodingCandidate {
	return &c
}

// rankVideo orders by height, then filesize, then bitrate, all descending
func rankVideo(candidates []entities.EncodingCandidate) []entities.EncodingCandidate {
	return rank(candidates, func(c entities.EncodingCandidate) []float64 {
		return []float64{float64(c.HeightOrZero()), float64(c.SizeOrZero()), c.BitrateOrZero()}
	})
}

// rankAudio orders by bitrate, then filesize, both descending
func rankAudio(candidates []entities.EncodingCandidate) []entities.EncodingCandidate {
	return rank(candidates, func(c entities.EncodingCandidate) []float64 {
		return []float64{c.BitrateOrZero(), float64(c.SizeOrZero())}
	})
}

func rank(candidates []entities.EncodingCandidate, keyFn func(entities.EncodingCandidate) []float64) []entities.EncodingCandidate {
	type keyed struct {
		cand entities.EncodingCandidate
		key  []float64
	}

	items := make([]keyed, len(candidates))
	for i, c := range candidates {
		items[i] = keyed{cand: c, key: keyFn(c)}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return compareKeys(items[i].key, items[j].key)
	})

	ranked := make([]entities.EncodingCandidate, len(items))
	for i, item := range items {
		ranked[i] = item.cand
	}
	return ranked
}

// compareKeys reports whether a ranks strictly before b
func compareKeys(a, b []float64) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] == b[i] {
			continue
		}
		return a[i] > b[i]
	}
	return false
}
