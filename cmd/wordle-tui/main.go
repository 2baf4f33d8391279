// Command wordle-tui plays Wordle in the terminal against the same engine,
// word lists and stats tables as the HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-wordle/assets"
	"github.com/robalobadob/wordle/apps/go-wordle/internal/config"
	"github.com/robalobadob/wordle/apps/go-wordle/internal/sqlitedb"
	"github.com/robalobadob/wordle/apps/go-wordle/internal/stats"
	"github.com/robalobadob/wordle/apps/go-wordle/internal/words"
)

const localPlayer = "local"

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (env vars override it)")
	logPath := flag.String("log", "", "write logs to this file (the terminal is taken by the UI)")
	flag.Parse()

	_ = godotenv.Load()
	if err := run(*configPath, *logPath); err != nil {
		fmt.Fprintf(os.Stderr, "wordle-tui: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, logPath string) error {
	var out io.Writer = io.Discard
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	log.Logger = zerolog.New(out).With().Timestamp().Str("app", "wordle-tui").Logger()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	db, err := sqlitedb.OpenAndMigrate(cfg.DatabasePath, assets.Migrations())
	if err != nil {
		return err
	}
	defer db.Close()

	lists, err := words.LoadLists(cfg.Words.AnswersFile, cfg.Words.AllowedFile)
	if err != nil {
		return err
	}

	var validator words.Validator = lists
	providers := []words.Source{words.ListSource{Lists: lists}}
	if cfg.Words.Remote {
		validator = words.FallbackValidator{
			Primary:   words.NewDictionaryAPI(cfg.Words.DictionaryURL, cfg.Words.HTTPTimeout),
			Secondary: lists,
		}
		remote := make([]words.Source, 0, len(cfg.Words.SourceURLs)+1)
		for _, u := range cfg.Words.SourceURLs {
			remote = append(remote, words.NewHTTPSource(u, u, cfg.Words.HTTPTimeout))
		}
		providers = append(remote, providers...)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := &App{
		ctx:         ctx,
		screen:      screen,
		picker:      &words.Chain{Providers: providers, Validator: validator, Fallback: words.FallbackWords, Attempts: cfg.Words.PickAttempts},
		validator:   validator,
		stats:       stats.NewSQLiteStore(db),
		player:      localPlayer,
		maxAttempts: cfg.Game.MaxAttempts,
	}
	if err := app.NewMatch(); err != nil {
		return err
	}
	app.Run()
	return nil
}
