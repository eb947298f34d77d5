package ytdlp

// Info models the parts of yt-dlp JSON output the bot reads
type Info struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	FullTitle string   `json:"fulltitle"`
	Duration  *float64 `json:"duration"`
	Width     *int     `json:"width"`
	Height    *int     `json:"height"`
	Formats   []Format `json:"formats"`
}

// Format is one entry of the formats list
type Format struct {
	FormatID   string   `json:"format_id"`
	FormatNote string   `json:"format_note"`
	Format     string   `json:"format"`
	Ext        string   `json:"ext"`
	Protocol   string   `json:"protocol"`
	VCodec     *string  `json:"vcodec"`
	ACodec     *string  `json:"acodec"`
	Filesize   *int64   `json:"filesize"`
	TBR        *float64 `json:"tbr"`
	ABR        *float64 `json:"abr"`
	VBR        *float64 `json:"vbr"`
	Width      *int     `json:"width"`
	Height     *int     `json:"height"`
	Language   *string  `json:"language"`
}
