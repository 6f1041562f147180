// Package main provides the sample player CLI entry point.
package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/samplebox/internal/app/catalog"
	"github.com/osa030/samplebox/internal/app/command"
	"github.com/osa030/samplebox/internal/app/host"
	"github.com/osa030/samplebox/internal/app/playback"
	"github.com/osa030/samplebox/internal/domain/sample"
	"github.com/osa030/samplebox/internal/infra/config"
	"github.com/osa030/samplebox/internal/infra/logger"
)

var (
	app        = kingpin.New("sampleplayer", "Audiobook sample player")
	configPath = app.Flag("config", "Path to config file").Default("config/samplebox.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: from config)").String()

	// list command
	listCmd = app.Command("list", "List catalog samples")

	// play command
	playCmd    = app.Command("play", "Play a catalog sample interactively")
	playID     = playCmd.Arg("id", "Sample id").Required().String()
	playFollow = playCmd.Flag("follow", "Print the status on every tick").Bool()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger, command-line flags win over the config file
	loggerConfig := logger.Config{
		Output: cfg.Log.Output,
		Level:  cfg.Log.Level,
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	reg, err := buildCatalog(cfg)
	if err != nil {
		zlog.Fatal().Msgf("Failed to build catalog: %v", err)
	}

	switch cmd {
	case listCmd.FullCommand():
		printCatalog(reg)
	case playCmd.FullCommand():
		if err := play(cfg, reg, *playID, *playFollow); err != nil {
			zlog.Error().Msgf("Player error: %v", err)
			os.Exit(1)
		}
	}
}

// buildCatalog registers the configured samples.
func buildCatalog(cfg *config.Config) (*catalog.Registry, error) {
	entries := make([]catalog.Entry, 0, len(cfg.Samples))
	for _, s := range cfg.Samples {
		entries = append(entries, catalog.Entry{ID: s.ID, Descriptor: s.Descriptor})
	}
	return catalog.New(entries)
}

// playbackConfig converts the player section of the config.
func playbackConfig(cfg *config.Config) playback.Config {
	return playback.Config{
		SkipStep:     time.Duration(cfg.Player.SkipStepSec) * time.Second,
		RestartAtEnd: cfg.Player.RestartAtEnd,
		EventBuffer:  cfg.Player.EventBuffer,
	}
}

// printCatalog prints the available samples.
func printCatalog(reg *catalog.Registry) {
	fmt.Printf("Available Samples (%d):\n", reg.Count())
	for _, e := range reg.List() {
		d := e.Descriptor
		fmt.Printf("  %-20s %6s  %s by %s, read by %s\n",
			e.ID, sample.FormatClock(d.TotalDuration()), d.Title, d.Author, d.Narrator)
	}
}

// play opens a sample and drives it from stdin until quit, EOF or a signal.
func play(cfg *config.Config, reg *catalog.Registry, id string, follow bool) error {
	d, err := reg.Get(id)
	if err != nil {
		return err
	}

	slot := host.NewSlot(playbackConfig(cfg))
	// Unmount cancels the tick process on every exit path.
	defer slot.Unmount()

	dispatcher := command.NewDispatcher(slot, d)
	status, err := dispatcher.Execute(command.Open)
	if err != nil {
		return errors.Wrap(err, "failed to open sample")
	}
	fmt.Println(d.Label())
	fmt.Println(status)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	events := slot.Controller().Events()
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			cmd, err := command.Parse(line)
			if err != nil {
				fmt.Println(err)
				continue
			}
			out, err := dispatcher.Execute(cmd)
			if errors.Is(err, command.ErrQuit) {
				return nil
			}
			if err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Println(out)

		case e, ok := <-events:
			if !ok {
				return nil
			}
			switch {
			case e.Type == playback.EventEnded:
				fmt.Println("End of sample")
				fmt.Println(command.Render(e.State))
			case e.Type == playback.EventProgress && follow:
				fmt.Println(command.Render(e.State))
			}

		case <-sigCh:
			zlog.Info().Msg("Received shutdown signal...")
			return nil
		}
	}
}
