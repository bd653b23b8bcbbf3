package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/ecosnap/ecosnap/internal/advisor"
	"github.com/ecosnap/ecosnap/internal/config"
	"github.com/ecosnap/ecosnap/internal/engine"
	"github.com/ecosnap/ecosnap/internal/geo"
	"github.com/ecosnap/ecosnap/internal/history"
	"github.com/ecosnap/ecosnap/internal/service"
	"github.com/ecosnap/ecosnap/internal/storage"
	"github.com/ecosnap/ecosnap/internal/vision"
)

// initHistory opens the configured database, runs migrations, and
// loads the saved history. The returned closer releases the database.
func initHistory(ctx context.Context) (*history.Store, func() error, error) {
	dbPath := config.ExpandPath(viper.GetString("database.path"))

	kv, err := storage.NewSQLiteKV(dbPath)
	if err != nil {
		return nil, nil, err
	}

	if err := kv.Migrate(ctx); err != nil {
		_ = kv.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	store := history.NewStore(kv)
	if err := store.Load(ctx); err != nil {
		_ = kv.Close()
		return nil, nil, fmt.Errorf("loading history: %w", err)
	}

	return store, kv.Close, nil
}

// classifierConfig assembles the vision configuration from viper.
func classifierConfig() vision.Config {
	return vision.Config{
		Provider:   viper.GetString("classifier.provider"),
		APIKey:     viper.GetString("classifier.api_key"),
		Model:      viper.GetString("classifier.model"),
		MaxRetries: viper.GetInt("classifier.max_retries"),
		RetryDelay: time.Second,
		RateLimit:  viper.GetInt("classifier.rate_limit"),
	}
}

// buildLocator picks a position source from config. Returns nil when
// location is disabled; suggestions then omit nearby facilities.
func buildLocator() service.Locator {
	switch viper.GetString("location.source") {
	case "static":
		return geo.StaticLocator{
			Lat: viper.GetFloat64("location.lat"),
			Lon: viper.GetFloat64("location.lon"),
		}
	case "ip":
		return geo.NewIPLocator("")
	default:
		return nil
	}
}

// buildAdvisor loads disposal guidance, from a custom file when one
// is configured.
func buildAdvisor() (*advisor.Advisor, error) {
	if path := viper.GetString("advisor.facilities_file"); path != "" {
		data, err := advisor.LoadData(config.ExpandPath(path))
		if err != nil {
			return nil, fmt.Errorf("loading facilities file: %w", err)
		}
		return advisor.New(data), nil
	}

	data, err := advisor.DefaultData()
	if err != nil {
		return nil, err
	}
	return advisor.New(data), nil
}

// buildEngine wires the full pipeline. The returned closer releases
// the classifier and the database.
func buildEngine(ctx context.Context) (*engine.Engine, func(), error) {
	store, closeDB, err := initHistory(ctx)
	if err != nil {
		return nil, nil, err
	}

	classifier, err := vision.NewClassifier(classifierConfig(), slog.Default())
	if err != nil {
		_ = closeDB()
		return nil, nil, err
	}

	adv, err := buildAdvisor()
	if err != nil {
		_ = classifier.Close()
		_ = closeDB()
		return nil, nil, err
	}

	eng, err := engine.New(engine.Config{
		Classifier: classifier,
		Advisor:    adv,
		Locator:    buildLocator(),
		History:    store,
		Logger:     slog.Default(),
	})
	if err != nil {
		_ = classifier.Close()
		_ = closeDB()
		return nil, nil, err
	}

	cleanup := func() {
		if err := classifier.Close(); err != nil {
			slog.Warn("closing classifier", "error", err)
		}
		if err := closeDB(); err != nil {
			slog.Warn("closing database", "error", err)
		}
	}
	return eng, cleanup, nil
}
