package models

// Sentiment carries the label and confidence attached to a caption after
// scoring. The two always travel together; an unscored variant has a nil
// *Sentiment rather than partial fields.
type Sentiment struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// PostVariant is one generated caption+hashtags+emojis unit. Hashtags and
// Emojis are never nil in normalized output, only possibly empty.
type PostVariant struct {
	Caption   string     `json:"caption"`
	Hashtags  []string   `json:"hashtags"`
	Emojis    []string   `json:"emojis"`
	Sentiment *Sentiment `json:"sentiment,omitempty"`
}

// ImagePayload is an optional image attached to a generation request.
type ImagePayload struct {
	Data     []byte
	MimeType string
}

// GenerationRequest is the validated user input for one pipeline run.
type GenerationRequest struct {
	Keywords  string
	PostType  string
	Platforms []string
	Count     int
	Image     *ImagePayload
}

var postTypes = []string{
	"Inspirational",
	"Informative",
	"Promotional",
	"Announcement",
	"General",
	"Question/Engagement",
	"Behind-the-Scenes",
	"Tutorial/How-To",
	"Success Story",
}

var platforms = []string{
	"Instagram",
	"LinkedIn",
	"Twitter",
	"Facebook",
	"TikTok",
	"Pinterest",
	"YouTube Community",
}

// PostTypes returns the supported post tones, in display order.
func PostTypes() []string {
	return append([]string(nil), postTypes...)
}

// Platforms returns the supported target platforms, in display order.
func Platforms() []string {
	return append([]string(nil), platforms...)
}

func ValidPostType(s string) bool {
	for _, t := range postTypes {
		if t == s {
			return true
		}
	}
	return false
}

func ValidPlatform(s string) bool {
	for _, p := range platforms {
		if p == s {
			return true
		}
	}
	return false
}
