package gallery

import (
	"regexp"
	"strings"

	"young-portfolio/model"
)

// TagPriority orders tags for the single-badge display slot.
var TagPriority = []string{
	"後製", "夜拍", "人像", "望遠", "廣角", "淺景深", "標準", "日光",
	"室內", "室外", "高速快門", "慢速快門", "深景深",
}

// SmartTags derives descriptive tags from shooting parameters and the
// filename, appends the user's comma-separated tags, and deduplicates.
// There is always at least the generic fallback tag.
func SmartTags(info model.PhotoInfo, filename, userTags string) []string {
	var tags []string

	if info.FocalLength > 0 {
		tags = append(tags, CategorizeFocalLength(info.FocalLength))
	}
	if info.Aperture > 0 {
		if info.Aperture <= 2.8 {
			tags = append(tags, "淺景深")
		} else if info.Aperture >= 8 {
			tags = append(tags, "深景深")
		}
	}
	if info.ISO > 0 {
		if info.ISO >= 800 {
			tags = append(tags, "夜拍")
		} else if info.ISO <= 200 {
			tags = append(tags, "日光")
		}
	}
	if info.ShutterSpeed > 0 {
		if info.ShutterSpeed <= 0.002 {
			tags = append(tags, "高速快門")
		} else if info.ShutterSpeed >= 0.1 {
			tags = append(tags, "慢速快門")
		}
	}

	if strings.Contains(filename, "編輯") || strings.Contains(filename, "edit") {
		tags = append(tags, "後製")
	}
	if strings.Contains(filename, "室內") || strings.Contains(filename, "indoor") {
		tags = append(tags, "室內")
	} else if strings.Contains(filename, "室外") || strings.Contains(filename, "outdoor") {
		tags = append(tags, "室外")
	}

	for _, tag := range strings.Split(userTags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	if len(tags) == 0 {
		tags = append(tags, "攝影")
	}

	seen := map[string]bool{}
	out := tags[:0]
	for _, tag := range tags {
		if !seen[tag] {
			seen[tag] = true
			out = append(out, tag)
		}
	}
	return out
}

// PrimaryTag picks the most telling tag by priority, falling back to the
// first tag; nil-safe, "" when there are no tags.
func PrimaryTag(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	for _, p := range TagPriority {
		for _, tag := range tags {
			if tag == p {
				return p
			}
		}
	}
	return tags[0]
}

var dscNumber = regexp.MustCompile(`DSC_(\d+)`)
var fileExt = regexp.MustCompile(`\.[^/.]+$`)

// AutoTitleDescription derives a display title and description from filename
// patterns when the uploader left them blank.
func AutoTitleDescription(filename string) (title, description string) {
	if m := dscNumber.FindStringSubmatch(filename); m != nil {
		return "攝影作品 #" + m[1], "數位單眼相機拍攝作品"
	}
	if strings.Contains(filename, "編輯") {
		return "後製攝影作品", "經過後製處理的攝影作品"
	}
	base := fileExt.ReplaceAllString(filename, "")
	return strings.ReplaceAll(base, "-", " "), "攝影作品"
}

// DisplayTitle prefers a camera-roll style label for photographs.
func DisplayTitle(w model.Work) string {
	if w.Photo != nil && w.Photo.Camera != "" {
		if m := dscNumber.FindStringSubmatch(w.Filename); m != nil {
			return "攝影 #" + m[1]
		}
		return "攝影作品"
	}
	return w.Title
}
