package cli

// Flags holds all command-line flag values
type Flags struct {
	// Global flags
	CfgFile     string
	DBPath      string
	CacheDir    string
	Provider    string
	Fallback    string
	AudioFormat string
	Player      string
	Debug       bool

	// seed flags
	WordsFile    string
	ExamplesFile string
	Reset        bool
	Archive      bool

	// play flags
	Example bool

	// OpenAI flags
	OpenAIModel string
	OpenAIVoice string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Provider:    "gtts",
		AudioFormat: "mp3",
		Player:      "command",
		OpenAIModel: "gpt-4o-mini-tts",
		OpenAIVoice: "alloy",
	}
}
