package metadata

// ytDlpJSON mirrors the parts of the yt-dlp -J document in use
type ytDlpJSON struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Uploader       string        `json:"uploader"`
	Channel        string        `json:"channel"`
	UploaderID     string        `json:"uploader_id"`
	Duration       float64       `json:"duration"`
	DurationString string        `json:"duration_string"`
	Thumbnail      string        `json:"thumbnail"`
	Thumbnails     []ytDlpThumb  `json:"thumbnails"`
	WebpageURL     string        `json:"webpage_url"`
	FormatID       string        `json:"format_id"`
	URL            string        `json:"url"`
	Ext            string        `json:"ext"`
	Height         int           `json:"height"`
	Filesize       *float64      `json:"filesize"`
	FilesizeApprox *float64      `json:"filesize_approx"`
	Formats        []ytDlpFormat `json:"formats"`
}

type ytDlpThumb struct {
	URL string `json:"url"`
}

type ytDlpFormat struct {
	FormatID       string   `json:"format_id"`
	Ext            string   `json:"ext"`
	Height         int      `json:"height"`
	Width          int      `json:"width"`
	Filesize       *float64 `json:"filesize"`
	FilesizeApprox *float64 `json:"filesize_approx"`
	URL            string   `json:"url"`
	VCodec         string   `json:"vcodec"`
	ACodec         string   `json:"acodec"`
	FormatNote     string   `json:"format_note"`
	Resolution     string   `json:"resolution"`
	TBR            float64  `json:"tbr"`
}

func (f ytDlpFormat) audioOnly() bool {
	return f.VCodec == "none"
}

// size returns the exact size, the approximate one, or nil
func size(exact, approx *float64) *uint64 {
	for _, v := range []*float64{exact, approx} {
		if v != nil && *v > 0 {
			n := uint64(*v)
			return &n
		}
	}
	return nil
}
