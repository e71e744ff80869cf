package enums

import "fmt"

// MediaPrefix selects the object-storage path prefix an upload lands under.
type MediaPrefix string

const (
	MediaPrefixProductImages MediaPrefix = "product-images"
	MediaPrefixBlogImages    MediaPrefix = "blog-images"
	MediaPrefixTeamPhotos    MediaPrefix = "team-photos"
)

var validMediaPrefixes = []MediaPrefix{
	MediaPrefixProductImages,
	MediaPrefixBlogImages,
	MediaPrefixTeamPhotos,
}

// String implements fmt.Stringer.
func (m MediaPrefix) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MediaPrefix.
func (m MediaPrefix) IsValid() bool {
	for _, candidate := range validMediaPrefixes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMediaPrefix converts raw input into a MediaPrefix.
func ParseMediaPrefix(value string) (MediaPrefix, error) {
	for _, candidate := range validMediaPrefixes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid media prefix %q", value)
}
