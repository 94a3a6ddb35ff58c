package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"

	"codeberg.org/snonux/hebrewtrainer/internal/archive"
	"codeberg.org/snonux/hebrewtrainer/internal/audio"
	"codeberg.org/snonux/hebrewtrainer/internal/cli"
	"codeberg.org/snonux/hebrewtrainer/internal/gui"
	"codeberg.org/snonux/hebrewtrainer/internal/models"
	"codeberg.org/snonux/hebrewtrainer/internal/playback"
	"codeberg.org/snonux/hebrewtrainer/internal/resolver"
	"codeberg.org/snonux/hebrewtrainer/internal/seed"
	"codeberg.org/snonux/hebrewtrainer/internal/session"
	"codeberg.org/snonux/hebrewtrainer/internal/store"
)

// Processor runs the subcommands against one database and audio cache
type Processor struct {
	flags    *cli.Flags
	store    *store.Store
	cacheDir string
	logger   *log.Logger
	out      io.Writer

	// Built on first use; tests may set them up front
	provider audio.Provider
	backend  playback.Backend
	resolver *resolver.Resolver
}

// NewProcessor creates a processor from flags and viper configuration
func NewProcessor(flags *cli.Flags) (*Processor, error) {
	dbPath, err := configuredPath("database.path", flags.DBPath, cli.DefaultDatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to determine database path: %w", err)
	}
	cacheDir, err := configuredPath("audio.cache_dir", flags.CacheDir, cli.DefaultCacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to determine cache directory: %w", err)
	}

	return &Processor{
		flags:    flags,
		store:    store.New(dbPath),
		cacheDir: cacheDir,
		logger:   log.Default(),
		out:      os.Stdout,
	}, nil
}

// configuredPath prefers the viper value, then the flag, then the default
func configuredPath(key, flagValue string, def func() (string, error)) (string, error) {
	if v := viper.GetString(key); v != "" {
		return v, nil
	}
	if flagValue != "" {
		return flagValue, nil
	}
	return def()
}

// audioConfig builds the provider configuration from viper
func (p *Processor) audioConfig() *audio.Config {
	config := audio.DefaultProviderConfig()

	if v := stringSetting("audio.provider", p.flags.Provider); v != "" {
		config.Provider = v
	}
	config.Fallback = stringSetting("audio.fallback", p.flags.Fallback)
	if v := stringSetting("audio.format", p.flags.AudioFormat); v != "" {
		config.OutputFormat = v
	}
	if v := viper.GetString("audio.language"); v != "" {
		config.Language = v
	}
	if v := viper.GetString("audio.gtts_command"); v != "" {
		config.GTTSCommand = v
	}
	config.GTTSSlow = viper.GetBool("audio.gtts_slow")
	if v := viper.GetInt("audio.requests_per_minute"); v > 0 {
		config.RequestsPerMinute = v
	}

	config.OpenAIKey = cli.GetOpenAIKey()
	config.OpenAIBaseURL = viper.GetString("audio.openai_base_url")
	if v := stringSetting("audio.openai_model", p.flags.OpenAIModel); v != "" {
		config.OpenAIModel = v
	}
	if v := stringSetting("audio.openai_voice", p.flags.OpenAIVoice); v != "" {
		config.OpenAIVoice = v
	}
	if v := viper.GetFloat64("audio.openai_speed"); v > 0 {
		config.OpenAISpeed = v
	}
	if v := viper.GetString("audio.openai_instruction"); v != "" {
		config.OpenAIInstruction = v
	}

	config.GoogleCredentialsFile = cli.GetGoogleCredentials()
	config.GoogleVoice = viper.GetString("audio.google_voice")

	config.GeminiKey = cli.GetGeminiKey()
	if v := viper.GetString("audio.gemini_model"); v != "" {
		config.GeminiModel = v
	}
	if v := viper.GetString("audio.gemini_voice"); v != "" {
		config.GeminiVoice = v
	}

	if v := viper.GetUint32("audio.breaker_failures"); v > 0 {
		config.BreakerFailures = v
	}
	if v := viper.GetDuration("audio.breaker_timeout"); v > 0 {
		config.BreakerTimeout = v
	}

	return config
}

func stringSetting(key, flagValue string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return flagValue
}

// getResolver builds the provider chain and resolver on first use
func (p *Processor) getResolver() (*resolver.Resolver, error) {
	if p.resolver != nil {
		return p.resolver, nil
	}

	config := p.audioConfig()
	if p.provider == nil {
		provider, err := audio.BuildProvider(config, p.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create audio provider: %w", err)
		}
		if err := provider.IsAvailable(); err != nil {
			p.logger.Warn("Audio provider may not work", "provider", provider.Name(), "error", err)
		}
		p.provider = provider
	}

	p.resolver = resolver.New(p.store, p.provider, p.cacheDir, config.OutputFormat, p.logger)
	return p.resolver, nil
}

// getPlayer builds the configured playback backend on first use
func (p *Processor) getPlayer() (*playback.Player, error) {
	if p.backend == nil {
		backend, err := playback.NewBackend(stringSetting("playback.backend", p.flags.Player), p.logger)
		if err != nil {
			return nil, err
		}
		// A configured player command replaces detection
		if cb, ok := backend.(*playback.CommandBackend); ok && viper.GetString("playback.command") != "" {
			cb.Command = viper.GetString("playback.command")
			cb.Args = viper.GetStringSlice("playback.args")
		}
		p.backend = backend
	}
	return playback.NewPlayer(p.backend, p.logger), nil
}

// Seed loads the word and example files into the database
func (p *Processor) Seed() error {
	if p.flags.Reset && p.flags.Archive {
		archiveDir := filepath.Join(filepath.Dir(p.store.Path()), "archive")
		archivePath, err := archive.Backup(archiveDir, p.store.Path(), p.cacheDir)
		if err != nil {
			return fmt.Errorf("failed to archive previous data: %w", err)
		}
		if archivePath != "" {
			fmt.Fprintf(p.out, "Archived previous data to %s\n", archivePath)
		}
	}

	loader := seed.NewLoader(p.store, p.logger)
	words, examples, err := loader.Seed(seed.Options{
		WordsFile:    p.flags.WordsFile,
		ExamplesFile: p.flags.ExamplesFile,
		Reset:        p.flags.Reset,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(p.out, "Inserted %d words (%d malformed lines skipped)\n", words.Inserted, words.Skipped)
	if p.flags.ExamplesFile != "" {
		fmt.Fprintf(p.out, "Inserted %d examples (%d malformed lines skipped, %d without a matching word)\n",
			examples.Inserted, examples.Skipped, examples.Unmatched)
	}
	fmt.Fprintf(p.out, "Database: %s\n", p.store.Path())
	return nil
}

// List prints all words
func (p *Processor) List() error {
	words, err := p.store.ListWords()
	if err != nil {
		return err
	}
	if len(words) == 0 {
		fmt.Fprintln(p.out, "No words found")
		return nil
	}
	for _, w := range words {
		fmt.Fprintf(p.out, "%d\t%s\t%s\n", w.ID, w.Hebrew, w.English)
	}
	return nil
}

// Examples prints the examples of one word
func (p *Processor) Examples(wordID int64) error {
	word, err := p.store.GetWord(wordID)
	if err != nil {
		return err
	}
	examples, err := p.store.ListExamples(wordID)
	if err != nil {
		return err
	}

	fmt.Fprintf(p.out, "%s (%s)\n", word.Hebrew, word.English)
	if len(examples) == 0 {
		fmt.Fprintln(p.out, "No examples found")
		return nil
	}
	for _, e := range examples {
		fmt.Fprintf(p.out, "%d\t%s\t%s\n", e.ID, e.Hebrew, e.English)
	}
	return nil
}

// Play speaks one word, or one example with --example, and waits for the end.
// Playback failures are logged but do not fail the command.
func (p *Processor) Play(id int64) error {
	kind := store.KindWord
	if p.flags.Example {
		kind = store.KindExample
	}

	r, err := p.getResolver()
	if err != nil {
		return err
	}
	player, err := p.getPlayer()
	if err != nil {
		return err
	}

	ctrl := session.NewController(r, player, p.logger)
	task, err := ctrl.Speak(context.Background(), id, kind)
	if err != nil {
		return err
	}

	fmt.Fprintf(p.out, "Playing %s\n", task.Path())
	if err := task.Wait(); err != nil {
		p.logger.Warn("Playback failed", "path", task.Path(), "error", err)
	}
	return nil
}

// CacheStats prints the number and total size of cached audio files
func (p *Processor) CacheStats() error {
	r := resolver.New(p.store, nil, p.cacheDir, "", p.logger)
	files, size, err := r.Stats()
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Cache directory: %s\n", p.cacheDir)
	fmt.Fprintf(p.out, "Files: %d\n", files)
	fmt.Fprintf(p.out, "Size: %s\n", humanize.Bytes(uint64(size)))
	return nil
}

// CacheClear deletes all cached audio files. Stored references become stale
// and are regenerated on the next play.
func (p *Processor) CacheClear() error {
	r := resolver.New(p.store, nil, p.cacheDir, "", p.logger)
	if err := r.Clear(); err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Cleared audio cache %s\n", p.cacheDir)
	return nil
}

// Models lists the OpenAI speech models and voices
func (p *Processor) Models() error {
	config := p.audioConfig()
	lister := models.NewLister(config.OpenAIKey, config.OpenAIBaseURL)
	return lister.Print(context.Background(), p.out, config.OpenAIModel, config.OpenAIVoice)
}

// RunGUI opens the trainer window and blocks until it is closed
func (p *Processor) RunGUI() error {
	r, err := p.getResolver()
	if err != nil {
		return err
	}
	player, err := p.getPlayer()
	if err != nil {
		return err
	}

	app := gui.New(&gui.Config{
		Source:     p.store,
		Controller: session.NewController(r, player, p.logger),
		Logger:     p.logger,
	})
	app.Run()
	return nil
}
