package feed

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var bareVideoRe = regexp.MustCompile(`https?://[^\s"'<>]+\.mp4[^\s"'<>]*`)

// extractMedia collects image and video URLs from feed markup. Tagged media
// is found via document inspection, with a fallback scan for bare .mp4 links
// that some feeds embed as plain text. Order of first appearance is kept and
// duplicates are dropped.
func extractMedia(rawHTML string) (images, videos []string) {
	seenImg := make(map[string]bool)
	seenVid := make(map[string]bool)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err == nil {
		doc.Find("img").Each(func(_ int, s *goquery.Selection) {
			if src, ok := s.Attr("src"); ok && src != "" && !seenImg[src] {
				seenImg[src] = true
				images = append(images, src)
			}
		})
		doc.Find("video").Each(func(_ int, s *goquery.Selection) {
			if src, ok := s.Attr("src"); ok && src != "" && !seenVid[src] {
				seenVid[src] = true
				videos = append(videos, src)
			}
		})
	}

	for _, m := range bareVideoRe.FindAllString(rawHTML, -1) {
		if !seenVid[m] {
			seenVid[m] = true
			videos = append(videos, m)
		}
	}

	return images, videos
}
