package entities

// MediaKind distinguishes placeholder replacement media
type MediaKind string

const (
	MediaKindVideo MediaKind = "video"
	MediaKindPhoto MediaKind = "photo"
)

// MediaSpec describes media that replaces the placeholder.
// Source is either a URL or a media reference returned by SendMedia.
type MediaSpec struct {
	Kind              MediaKind
	Source            string
	Caption           string
	Width             int
	Height            int
	Duration          int
	SupportsStreaming bool
}

// PlaceholderSpec describes the provisional inline result shown while a job runs
type PlaceholderSpec struct {
	ResultID     string
	VideoURL     string
	ThumbnailURL string
	Title        string
	Caption      string
	ButtonText   string
	ButtonData   string
	Width        int
	Height       int
	Duration     int
}

// UploadMeta is the metadata sent along with a merged file
type UploadMeta struct {
	Caption  string
	Width    int
	Height   int
	Duration int
}

// DownloadRequest asks a download source for a merged local file
type DownloadRequest struct {
	URL        string
	FormatSpec string
	OutputPath string
}
