package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordlemon/internal/catalog"
	"github.com/robalobadob/wordlemon/internal/config"
	"github.com/robalobadob/wordlemon/internal/controller"
	"github.com/robalobadob/wordlemon/internal/daily"
	"github.com/robalobadob/wordlemon/internal/db"
	"github.com/robalobadob/wordlemon/internal/game"
	"github.com/robalobadob/wordlemon/internal/httpserver"
	"github.com/robalobadob/wordlemon/internal/results"
	"github.com/robalobadob/wordlemon/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	cat, err := loadCatalog(cfg.CatalogFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load catalog")
	}
	log.Info().Int("entities", cat.Len()).Msg("catalog loaded")

	sqlDB, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer sqlDB.Close()
	if err := db.Migrate(sqlDB); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	var sessions store.Store
	switch cfg.SessionStore {
	case config.StoreSQLite:
		sessions = store.NewSQLStore(sqlDB)
	default:
		sessions = store.NewMemoryStore()
	}

	var picker game.Picker = game.RandomPicker{}
	if cfg.TargetMode == config.ModeDaily {
		picker = daily.Picker{Salt: cfg.Key("daily-target")}
	}

	ctl := controller.New(cat, sessions, picker)
	srv := httpserver.New(ctl, results.NewStore(sqlDB), httpserver.Options{
		CookieName:   cfg.CookieName,
		CookieKey:    cfg.Key("session-cookie"),
		Secure:       cfg.Production(),
		ClientOrigin: cfg.ClientOrigin,
		Timeout:      cfg.Timeout,
		Mode:         cfg.TargetMode,
	})

	log.Info().Str("port", cfg.Port).Str("sessions", cfg.SessionStore).Str("mode", cfg.TargetMode).Msg("starting go-server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// loadCatalog reads the configured catalog file, or the embedded default.
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}
