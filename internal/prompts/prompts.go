package prompts

import (
	"fmt"
	"strings"

	"github.com/spacesedan/captionflow/internal/models"
)

// Build assembles the single generation prompt for a request. Pure: the same
// request always produces the same prompt string.
func Build(req models.GenerationRequest) (string, error) {
	if err := Validate(req); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("You are a social media content generator.\n")
	fmt.Fprintf(&sb, "Generate exactly %d distinct social media posts based on the keywords, post type, and target platforms below.\n", req.Count)
	sb.WriteString("Each post must include:\n")
	sb.WriteString("- a social media caption suited to every selected platform\n")
	sb.WriteString("- a list of relevant hashtags (up to 10, without the '#' prefix)\n")
	sb.WriteString("- a list of appropriate emojis\n")
	if req.Image != nil {
		sb.WriteString("An image is attached. Consider its content when writing each post.\n")
	}
	sb.WriteString("\nRespond ONLY with a JSON array, no markdown fences and no commentary. Each element must have this exact structure:\n")
	sb.WriteString(`{"caption": "Your generated caption here.", "hashtags": ["hashtag1", "hashtag2"], "emojis": ["✨", "🚀"]}`)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Keywords: %s\n", strings.TrimSpace(req.Keywords))
	fmt.Fprintf(&sb, "Post type: %s\n", req.PostType)
	fmt.Fprintf(&sb, "Platforms: %s\n", strings.Join(req.Platforms, ", "))
	sb.WriteString("\nEnsure each caption is engaging and suitable for the selected platforms.\n")

	return sb.String(), nil
}

// Validate rejects unusable requests before any network call is made.
func Validate(req models.GenerationRequest) error {
	if strings.TrimSpace(req.Keywords) == "" {
		return &models.ValidationError{Field: "keywords", Reason: "must not be empty"}
	}
	if req.Count < 1 {
		return &models.ValidationError{Field: "count", Reason: "must be at least 1"}
	}
	if len(req.Platforms) == 0 {
		return &models.ValidationError{Field: "platforms", Reason: "select at least one platform"}
	}
	for _, p := range req.Platforms {
		if !models.ValidPlatform(strings.TrimSpace(p)) {
			return &models.ValidationError{Field: "platforms", Reason: fmt.Sprintf("unknown platform %q", p)}
		}
	}
	if !models.ValidPostType(req.PostType) {
		return &models.ValidationError{Field: "post_type", Reason: fmt.Sprintf("unknown post type %q", req.PostType)}
	}
	return nil
}
