package engine

import (
	"regexp"
	"strings"
)

// defaultFilenamePatterns match titles left at a camera, phone, capture tool or
// editor default. Each is anchored and matched case-insensitively on the trimmed title.
var defaultFilenamePatterns = compileAll([]string{
	// camera and phone rolls
	`^IMG[\s_-]\d{3,}`,
	`^DSC[NF]?[\s_-]?\d{3,}`,
	`^MOV[\s_-]\d{3,}`,
	`^VID[\s_-]?\d{4,}`,
	`^MVI[\s_-]\d{3,}`,
	`^SAM[\s_-]\d{3,}`,
	`^P\d{7}`,
	`^CIMG\d{3,}`,
	`^PICT\d{3,}`,
	`^CRW[\s_-]\d{3,}`,
	`^IMGP\d{3,}`,
	`^_MG_\d{3,}`,
	`^100[\s_-]\d{3,}`,
	// action cameras and drones
	`^GOPR?\d{3,}`,
	`^G[XHP]\d{4,}`,
	`^DJI[\s_-]\d{3,}`,
	// date stamps
	`^20\d{2}[\s_-]?\d{2}[\s_-]?\d{2}`,
	// generic editor and upload defaults
	`^video[\s_-]?\d{1,4}$`,
	`^clip[\s_-]?\d`,
	`^trim[\s._]`,
	`^Untitled`,
	`^Movie on \d`,
	`^new video$`,
	`^test$`,
	`^copy of `,
	`^video$`,
	`^FullSizeRender`,
	`^RPReplay`,
	`^InShot[\s_-]`,
	// screen and webcam capture
	`^recording[\s_-]?\d`,
	`^Screen Recording`,
	`^Screencast`,
	`^capture[\s_-]?\d`,
	`^vlcsnap`,
	`^bandicam`,
	`^OBS[\s_-]`,
	`^Rec[\s_-]\d`,
	`^WIN[\s_-]\d`,
	// bare numbers and hashes
	`^\d{3,4}[\s_-]\d{3,4}$`,
	`^\d{10,}$`,
	`^[0-9a-f]{8,}$`,
	`^[A-Z]{2,4}[\s_-]\d{4,}$`,
})

func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

// IsDefaultFilename reports whether title looks like an untouched device or tool default.
func IsDefaultFilename(title string) bool {
	t := strings.TrimSpace(title)
	if t == "" {
		return false
	}
	for _, re := range defaultFilenamePatterns {
		if re.MatchString(t) {
			return true
		}
	}
	return false
}

// WeirdnessBoosters are phrases that suggest found footage, liminal spaces or lost media.
// The scorer counts them in titles and descriptions; query generators mix them into searches.
var WeirdnessBoosters = []string{
	"found footage", "abandoned", "3am", "liminal", "backrooms", "vhs",
	"old tape", "camcorder", "security camera", "cctv", "dashcam", "trail cam",
	"baby monitor", "answering machine", "voicemail", "thrift store", "yard sale",
	"estate sale", "dumpster", "strange noise", "unknown", "mysterious",
	"unexplained", "glitch", "corrupted", "cursed", "weird", "creepy", "empty",
	"nobody", "forgotten", "lost media", "found in attic", "found in basement",
	"hidden camera", "ring doorbell", "infrared", "night vision", "thermal",
	"police scanner", "ham radio", "shortwave", "numbers station", "elevator",
	"stairwell", "parking garage", "tunnel", "underwater", "cave", "sewer",
	"drain", "time capsule", "1990s", "2000s", "childhood", "before internet",
	"dialup", "geocities",
}

// CountBoosters returns how many booster phrases occur in text (case-insensitive).
func CountBoosters(text string) int {
	text = strings.ToLower(text)
	n := 0
	for _, kw := range WeirdnessBoosters {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}
