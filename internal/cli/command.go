package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/hebrewtrainer/internal"
)

// AppName is used for the config file, env prefix and data directory
const AppName = "hebrewtrainer"

// Runner executes the subcommands once configuration is loaded
type Runner interface {
	RunGUI() error
	Seed() error
	List() error
	Examples(wordID int64) error
	Play(id int64) error
	CacheStats() error
	CacheClear() error
	Models() error
}

// RunnerFactory builds a Runner after flags and config have been parsed
type RunnerFactory func(flags *Flags) (Runner, error)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags, newRunner RunnerFactory) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hebrewtrainer",
		Short: "Hebrew vocabulary trainer with spoken words",
		Long: `hebrewtrainer drills Hebrew/English word pairs and example phrases.

Clicking a word or phrase plays its Hebrew pronunciation. Audio is
synthesized on first use and cached on disk for every later request.

Examples:
  hebrewtrainer                                      # Launch the GUI (default)
  hebrewtrainer seed --words words.txt --examples examples.txt
  hebrewtrainer list                                 # Show all words
  hebrewtrainer play 3                               # Speak word 3`,
		Args:          cobra.NoArgs,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRunner(flags)
			if err != nil {
				return err
			}
			return r.RunGUI()
		},
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	rootCmd.AddCommand(
		newSeedCommand(flags, newRunner),
		newListCommand(flags, newRunner),
		newExamplesCommand(flags, newRunner),
		newPlayCommand(flags, newRunner),
		newCacheCommand(flags, newRunner),
		newModelsCommand(flags, newRunner),
	)

	return rootCmd
}

func newSeedCommand(flags *Flags, newRunner RunnerFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load words and example phrases from tab separated files",
		Long: `Load words and example phrases into the database.

The words file holds one "hebrew<TAB>english" pair per line. The examples
file holds "word<TAB>hebrew phrase<TAB>english phrase" per line, where word
must match a Hebrew word from the words file exactly.

Seeding refuses to run on a database that already holds words; use --reset
to delete and recreate it first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRunner(flags)
			if err != nil {
				return err
			}
			return r.Seed()
		},
	}

	cmd.Flags().StringVarP(&flags.WordsFile, "words", "w", "", "Words file (hebrew<TAB>english)")
	cmd.Flags().StringVarP(&flags.ExamplesFile, "examples", "e", "", "Examples file (word<TAB>hebrew<TAB>english), optional")
	cmd.Flags().BoolVar(&flags.Reset, "reset", false, "Delete and recreate the database before seeding")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "With --reset, move the old database and audio cache to the archive first")
	_ = cmd.MarkFlagRequired("words")

	return cmd
}

func newListCommand(flags *Flags, newRunner RunnerFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all words with their ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRunner(flags)
			if err != nil {
				return err
			}
			return r.List()
		},
	}
}

func newExamplesCommand(flags *Flags, newRunner RunnerFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "examples WORD_ID",
		Short: "List the example phrases of a word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			r, err := newRunner(flags)
			if err != nil {
				return err
			}
			return r.Examples(id)
		},
	}
}

func newPlayCommand(flags *Flags, newRunner RunnerFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play ID",
		Short: "Speak a word (or with --example an example phrase)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			r, err := newRunner(flags)
			if err != nil {
				return err
			}
			return r.Play(id)
		},
	}

	cmd.Flags().BoolVar(&flags.Example, "example", false, "ID refers to an example phrase")
	return cmd
}

func newCacheCommand(flags *Flags, newRunner RunnerFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the audio cache",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "stats",
			Short: "Show number and size of cached audio files",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				r, err := newRunner(flags)
				if err != nil {
					return err
				}
				return r.CacheStats()
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete all cached audio files (they are regenerated on demand)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				r, err := newRunner(flags)
				if err != nil {
					return err
				}
				return r.CacheClear()
			},
		},
	)

	return cmd
}

func newModelsCommand(flags *Flags, newRunner RunnerFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the OpenAI speech models and voices available to your API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRunner(flags)
			if err != nil {
				return err
			}
			return r.Models()
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive number", s)
	}
	return id, nil
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Default locations follow the XDG data directory
	defaultDB, _ := DefaultDatabasePath()
	defaultCache, _ := DefaultCacheDir()

	// Global flags
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.hebrewtrainer.yaml)")
	pf.StringVar(&flags.DBPath, "db", defaultDB, "SQLite database file")
	pf.StringVar(&flags.CacheDir, "cache-dir", defaultCache, "Directory for generated audio files")
	pf.StringVarP(&flags.Provider, "provider", "p", flags.Provider, "Speech provider: gtts, openai, google, gemini")
	pf.StringVar(&flags.Fallback, "fallback", "", "Provider to use when the first one fails")
	pf.StringVarP(&flags.AudioFormat, "format", "f", flags.AudioFormat, "Audio format (mp3 or wav; gemini always writes wav)")
	pf.StringVar(&flags.Player, "player", flags.Player, "Playback backend: command or oto")
	pf.BoolVar(&flags.Debug, "debug", false, "Enable debug logging")

	// OpenAI flags
	pf.StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	pf.StringVar(&flags.OpenAIVoice, "openai-voice", flags.OpenAIVoice, "OpenAI voice: alloy, ash, coral, echo, fable, onyx, nova, sage, shimmer")

	// Bind flags to viper
	bindFlagsToViper(cmd.PersistentFlags())
}

func bindFlagsToViper(pf *pflag.FlagSet) {
	viper.BindPFlag("database.path", pf.Lookup("db"))
	viper.BindPFlag("audio.cache_dir", pf.Lookup("cache-dir"))
	viper.BindPFlag("audio.provider", pf.Lookup("provider"))
	viper.BindPFlag("audio.fallback", pf.Lookup("fallback"))
	viper.BindPFlag("audio.format", pf.Lookup("format"))
	viper.BindPFlag("audio.openai_model", pf.Lookup("openai-model"))
	viper.BindPFlag("audio.openai_voice", pf.Lookup("openai-voice"))
	viper.BindPFlag("playback.backend", pf.Lookup("player"))
}

// DefaultDatabasePath returns hebrew.db in the user's data directory
func DefaultDatabasePath() (string, error) {
	return gap.NewScope(gap.User, AppName).DataPath("hebrew.db")
}

// DefaultCacheDir returns tts_files in the user's data directory
func DefaultCacheDir() (string, error) {
	return gap.NewScope(gap.User, AppName).DataPath("tts_files")
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	// A .env file in the working directory may carry API keys
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("Failed to load .env file", "error", err)
	}

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".hebrewtrainer" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("." + AppName)
	}

	// Environment variables
	viper.SetEnvPrefix("HEBREWTRAINER")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		log.Debug("Using config file", "path", viper.ConfigFileUsed())
	}
}

// SetupLogging configures the default logger
func SetupLogging(debug bool) {
	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportCaller(true)
		return
	}
	log.SetLevel(log.InfoLevel)
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("audio.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	for _, env := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}
	return viper.GetString("audio.gemini_key")
}

// GetGoogleCredentials returns the Google Cloud credentials file, if any
func GetGoogleCredentials() string {
	if path := viper.GetString("audio.google_credentials"); path != "" {
		return path
	}
	return os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
}
