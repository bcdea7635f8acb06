package coordinator

import "regexp"

// Accepted YouTube URL shapes: watch, shorts, short-domain, embed. Anything
// else is rejected before a job record exists.
var youtubePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https?://(?:www\.)?youtube\.com/watch\?v=[\w-]+`),
	regexp.MustCompile(`^https?://(?:www\.)?youtube\.com/shorts/[\w-]+`),
	regexp.MustCompile(`^https?://youtu\.be/[\w-]+`),
	regexp.MustCompile(`^https?://(?:www\.)?youtube\.com/embed/[\w-]+`),
}

// IsValidYouTubeURL reports whether the string matches one of the accepted
// YouTube URL shapes
func IsValidYouTubeURL(url string) bool {
	for _, pattern := range youtubePatterns {
		if pattern.MatchString(url) {
			return true
		}
	}
	return false
}
