// Package queries builds search query lists: filename patterns, weirdness boosters,
// and randomized strategies that wander into rarely searched corners.
package queries

// FilenamePattern is a default camera or tool filename and the query that finds it.
type FilenamePattern struct {
	Key      string `json:"key"`
	Query    string `json:"query"`
	Category string `json:"category"`
}

// Pattern categories.
const (
	CatCamera  = "camera"
	CatPhone   = "phone"
	CatAction  = "action_drone"
	CatGeneric = "generic"
	CatScreen  = "screen_capture"
	CatWebcam  = "webcam_call"
)

// FilenamePatterns lists every known pattern in display order.
var FilenamePatterns = []FilenamePattern{
	{"IMG_XXXX", "IMG_", CatCamera},
	{"DSC_XXXX", "DSC_", CatCamera},
	{"DSCN_XXXX", "DSCN_", CatCamera},
	{"DSCF_XXXX", "DSCF_", CatCamera},
	{"MVI_XXXX", "MVI_", CatCamera},
	{"P10XXXXX", "P10", CatCamera},
	{"SAM_XXXX", "SAM_", CatCamera},
	{"CIMG_XXXX", "CIMG", CatCamera},
	{"PICT_XXXX", "PICT", CatCamera},
	{"CRW_XXXX", "CRW_", CatCamera},
	{"IMGP_XXXX", "IMGP", CatCamera},
	{"_MG_XXXX", "_MG_", CatCamera},

	{"MOV_XXXX", "MOV_", CatPhone},
	{"VID_XXXX", "VID_", CatPhone},
	{"VIDEO_XXXX", "VIDEO_", CatPhone},
	{"Trim_XXXX", "trim", CatPhone},
	{"Screen Recording", "screen recording", CatPhone},
	{"Screencast", "screencast", CatPhone},
	{"20XX-XX-XX", "2009-", CatPhone},
	{"FullSizeRender", "FullSizeRender", CatPhone},
	{"RPReplay", "RPReplay", CatPhone},
	{"InShot", "InShot_", CatPhone},

	{"GOPR_XXXX", "GOPR", CatAction},
	{"GP_XXXXXX", "GP0", CatAction},
	{"GX_XXXXXX", "GX01", CatAction},
	{"HERO_XXXX", "HERO", CatAction},
	{"GH_XXXXXX", "GH01", CatAction},
	{"DJI_XXXX", "DJI_", CatAction},
	{"DJI_0XXX", "DJI_0", CatAction},

	{"DCIM", "DCIM", CatGeneric},
	{"100MEDIA", "100MEDIA", CatGeneric},
	{"100ANDRO", "100ANDRO", CatGeneric},
	{"Untitled", "Untitled", CatGeneric},
	{"New Video", "new video", CatGeneric},
	{"Video 1", `"video 1"`, CatGeneric},
	{"test", "test video upload", CatGeneric},
	{"Copy of", "copy of", CatGeneric},
	{"Movie on", "movie on", CatGeneric},
	{"clip", `"clip"`, CatGeneric},
	{"recording", `"recording"`, CatGeneric},
	{"capture", `"capture"`, CatGeneric},

	{"vlcsnap", "vlcsnap", CatScreen},
	{"bandicam", "bandicam", CatScreen},
	{"OBS_", "OBS ", CatScreen},
	{"Rec_", "Rec_", CatScreen},
	{"WIN_", "WIN_", CatScreen},

	{"Skype call", "skype call", CatWebcam},
	{"Zoom_", "zoom meeting recording", CatWebcam},
	{"Hangouts", "hangouts video", CatWebcam},
	{"Facetime", "facetime recording", CatWebcam},
}

var patternByKey = func() map[string]string {
	m := make(map[string]string, len(FilenamePatterns))
	for _, p := range FilenamePatterns {
		m[p.Key] = p.Query
	}
	return m
}()

// PatternQuery resolves a pattern key to its query; unknown keys are used as-is.
func PatternQuery(key string) string {
	if q, ok := patternByKey[key]; ok {
		return q
	}
	return key
}

// PatternsIn returns the pattern keys of one category.
func PatternsIn(category string) []string {
	var keys []string
	for _, p := range FilenamePatterns {
		if p.Category == category {
			keys = append(keys, p.Key)
		}
	}
	return keys
}

// DeepCategory is a themed bucket of hand-picked queries.
type DeepCategory struct {
	Name    string   `json:"name"`
	Queries []string `json:"queries"`
}

// DeepCategories feed the deep strategy.
var DeepCategories = []DeepCategory{
	{"filename_roulette", []string{
		"IMG_0001", "VID_20100315", "MVI_3842", "GOPR0001",
		"DSC00001", "MOV_0023", "DJI_0042", "DSCN4521",
		"trim.8A3B2C1D", "P1070832", "SAM_1234", "100_0001",
		"IMG_2847", "VID_20080723", "DSCF0019", "MVI_8392",
	}},
	{"analog_tape", []string{
		"vhs tape", "camcorder footage", "home video 1990",
		"tape recording", "8mm film", "hi8 footage",
		"betamax", "vhs-c", "handycam", "super 8",
		"film transfer", "digitized tape", "mini dv",
	}},
	{"abandoned_liminal", []string{
		"abandoned building walk", "empty mall footage",
		"liminal space video", "empty parking lot night",
		"closed store footage", "dead mall walking",
		"abandoned school inside", "empty hallway",
		"motel room", "empty pool", "closed amusement park",
	}},
	{"surveillance", []string{
		"cctv footage", "security camera recording", "dashcam footage",
		"trail cam animal", "ring doorbell night", "baby monitor",
		"parking lot camera", "elevator camera footage",
		"warehouse camera", "doorbell cam", "nanny cam",
	}},
	{"street_footage", []string{
		"street walk", "driving through town", "bus ride window",
		"train window view", "ferry ride video", "road trip footage",
		"walking around", "bike ride POV", "neighborhood walk",
	}},
	{"found_footage", []string{
		"found footage", "found this tape", "found camera",
		"found phone video", "old sd card", "found usb",
		"thrift store tape", "estate sale video", "found in trash",
	}},
	{"glitch_corrupt", []string{
		"corrupted video", "glitch footage", "datamosh",
		"broken video file", "video error", "codec error",
		"video artifact", "rendering error",
	}},
	{"night_dark", []string{
		"night footage", "3am video", "night walk",
		"night drive", "infrared camera", "night vision video",
		"dark room", "flashlight exploration",
	}},
	{"mundane", []string{
		"my cat sleeping", "cooking dinner", "backyard video",
		"my room tour 2009", "first video", "unboxing 2007",
		"my dog", "my house", "my car",
	}},
	{"non_english", []string{
		"ビデオ", "فيديو", "видео", "비디오", "วิดีโอ",
		"video casero", "vídeo de casa", "altes video",
	}},
	{"date_uploads", []string{
		"2007-06-15", "2008-12-25", "2009-03-01",
		"2010-08-20", "2011-01-01", "2006-09-10",
		"january 2008", "christmas 2007", "summer 2009",
	}},
	{"silent_minimal", []string{
		"no sound", "silent video", "muted video",
		"screen recording no audio", "quiet", "no audio",
	}},
}
