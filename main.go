package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-wordle/assets"
	"github.com/robalobadob/wordle/apps/go-wordle/internal/config"
	"github.com/robalobadob/wordle/apps/go-wordle/internal/httpserver"
	"github.com/robalobadob/wordle/apps/go-wordle/internal/sqlitedb"
	"github.com/robalobadob/wordle/apps/go-wordle/internal/stats"
	"github.com/robalobadob/wordle/apps/go-wordle/internal/store"
	"github.com/robalobadob/wordle/apps/go-wordle/internal/words"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (env vars override it)")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if !cfg.Production() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlitedb.OpenAndMigrate(cfg.DatabasePath, assets.Migrations())
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("open database")
	}
	defer db.Close()

	lists, err := words.LoadLists(cfg.Words.AnswersFile, cfg.Words.AllowedFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}
	a, g := lists.Stats()
	log.Info().Int("answers", a).Int("allowed", g).Msg("word lists loaded")

	var validator words.Validator = lists
	var definer words.Definer
	providers := []words.Source{}
	if cfg.Words.Remote {
		dict := words.NewDictionaryAPI(cfg.Words.DictionaryURL, cfg.Words.HTTPTimeout)
		validator = words.FallbackValidator{Primary: dict, Secondary: lists}
		definer = dict
		for _, u := range cfg.Words.SourceURLs {
			providers = append(providers, words.NewHTTPSource(u, u, cfg.Words.HTTPTimeout))
		}
	}
	providers = append(providers, words.ListSource{Lists: lists})
	picker := &words.Chain{
		Providers: providers,
		Validator: validator,
		Fallback:  words.FallbackWords,
		Attempts:  cfg.Words.PickAttempts,
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		if rdb, err = store.Connect(ctx, cfg.Redis.Addr); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("connect redis")
		}
		defer rdb.Close()
	}

	var sessions store.Store
	if rdb != nil {
		sessions = store.NewRedis(rdb, cfg.Game.SessionTTL)
	} else {
		mem := store.NewMemoryStore(cfg.Game.SessionTTL)
		go sweep(ctx, mem, time.Minute)
		sessions = mem
	}

	var statsStore stats.Store
	switch cfg.Stats.Backend {
	case "redis":
		statsStore = stats.NewRedisStore(rdb)
	case "memory":
		statsStore = stats.NewMemoryStore()
	default:
		statsStore = stats.NewSQLiteStore(db)
	}

	srv := httpserver.New(httpserver.Deps{
		Config:    cfg,
		Sessions:  sessions,
		DB:        db,
		Lists:     lists,
		Picker:    picker,
		Validator: validator,
		Definer:   definer,
		Stats:     statsStore,
	})

	log.Info().Str("port", cfg.HTTPPort).Str("stats", cfg.Stats.Backend).Bool("redis", rdb != nil).Msg("starting go-wordle")
	if err := srv.Start(ctx, ":"+cfg.HTTPPort); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// sweep drops expired in-memory sessions until ctx is done.
func sweep(ctx context.Context, mem *store.Memory, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := mem.Sweep(); n > 0 {
				log.Debug().Int("removed", n).Msg("swept expired games")
			}
		}
	}
}
