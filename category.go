package archive

// Canonical content categories, as stored in content_items.type. The
// database check constraint mirrors this list.
const (
	CategoryLetter         = "letter"
	CategoryDiaryEntry     = "diary_entry"
	CategoryPhoto          = "photo"
	CategoryAudioRecording = "audio_recording"
	CategoryVideo          = "video"
	CategoryNewsClipping   = "news_clipping"
	CategoryAnecdote       = "anecdote"
	CategoryInterview      = "interview"
	CategoryDocument       = "document"
	CategoryTranscript     = "transcript"
)

// Categories lists every canonical category.
var Categories = []string{
	CategoryLetter,
	CategoryDiaryEntry,
	CategoryPhoto,
	CategoryAudioRecording,
	CategoryVideo,
	CategoryNewsClipping,
	CategoryAnecdote,
	CategoryInterview,
	CategoryDocument,
	CategoryTranscript,
}

// categoryAliases maps every accepted input spelling to its canonical
// category: the canonical values themselves, the legacy short forms the
// browse links still emit, the write-form values, and the plural collection
// labels. The table grows when the UI does; lookups are case-sensitive
// because they match values the UI emits verbatim.
var categoryAliases = map[string]string{
	CategoryLetter:         CategoryLetter,
	CategoryDiaryEntry:     CategoryDiaryEntry,
	CategoryPhoto:          CategoryPhoto,
	CategoryAudioRecording: CategoryAudioRecording,
	CategoryVideo:          CategoryVideo,
	CategoryNewsClipping:   CategoryNewsClipping,
	CategoryAnecdote:       CategoryAnecdote,
	CategoryInterview:      CategoryInterview,
	CategoryDocument:       CategoryDocument,
	CategoryTranscript:     CategoryTranscript,

	// legacy short forms
	"diary":     CategoryDiaryEntry,
	"recording": CategoryAudioRecording,
	"story":     CategoryAnecdote,

	// write-form values
	"tribute": CategoryDocument,
	"recipe":  CategoryDocument,
	"poem":    CategoryDocument,

	// plural collection labels
	"letters":        CategoryLetter,
	"diaries":        CategoryDiaryEntry,
	"photos":         CategoryPhoto,
	"recordings":     CategoryAudioRecording,
	"videos":         CategoryVideo,
	"news_clippings": CategoryNewsClipping,
	"stories":        CategoryAnecdote,
	"anecdotes":      CategoryAnecdote,
	"interviews":     CategoryInterview,
	"documents":      CategoryDocument,
	"transcripts":    CategoryTranscript,
}

// NormalizeCategory resolves a UI-facing category spelling to its canonical
// value. Unknown spellings pass through unchanged so that categories added
// to the store ahead of this table are not silently dropped; the database
// enum constraint is the enforcement point for genuine typos.
func NormalizeCategory(raw string) string {
	if canonical, ok := categoryAliases[raw]; ok {
		return canonical
	}
	return raw
}

// IsCanonicalCategory reports whether s is one of the stored enum values.
func IsCanonicalCategory(s string) bool {
	for _, c := range Categories {
		if c == s {
			return true
		}
	}
	return false
}

var defaultTitles = map[string]string{
	CategoryLetter:         "Letter",
	CategoryDiaryEntry:     "Diary Entry",
	CategoryPhoto:          "Photo",
	CategoryAudioRecording: "Audio Recording",
	CategoryVideo:          "Video",
	CategoryNewsClipping:   "News Clipping",
	CategoryAnecdote:       "Anecdote",
	CategoryInterview:      "Interview",
	CategoryDocument:       "Document",
	CategoryTranscript:     "Transcript",
}

// DefaultTitle returns the placeholder title used when a submission arrives
// without one.
func DefaultTitle(canonical string) string {
	if title, ok := defaultTitles[canonical]; ok {
		return title
	}
	return "Untitled"
}
