// Package entities contains domain entities of the download pipeline
package entities

// EncodingCandidate is one independently downloadable stream offered by the source
type EncodingCandidate struct {
	ID         string
	HasVideo   bool
	HasAudio   bool
	VideoCodec string
	AudioCodec string
	Protocol   string
	// Filesize is nil when the source does not report it
	Filesize   *int64
	Bitrate    *float64
	Width      *int
	Height     *int
	Language   string
	FormatNote string
}

// SizeOrZero returns the filesize, counting an unknown size as 0
func (c *EncodingCandidate) SizeOrZero() int64 {
	if c == nil || c.Filesize == nil {
		return 0
	}
	return *c.Filesize
}

// HeightOrZero returns the vertical resolution, 0 when unknown
func (c *EncodingCandidate) HeightOrZero() int {
	if c == nil || c.Height == nil {
		return 0
	}
	return *c.Height
}

// BitrateOrZero returns the bitrate, 0 when unknown
func (c *EncodingCandidate) BitrateOrZero() float64 {
	if c == nil || c.Bitrate == nil {
		return 0
	}
	return *c.Bitrate
}

// CatalogMeta is the descriptive part of a catalog
type CatalogMeta struct {
	Title           string
	DurationSeconds int
}

// Catalog is the response of a catalog source
type Catalog struct {
	CatalogMeta
	Formats []EncodingCandidate
}
