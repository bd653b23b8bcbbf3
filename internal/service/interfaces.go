// Package service defines the shared contracts between components.
package service

import (
	"context"
	"time"

	"github.com/ecosnap/ecosnap/internal/model"
)

// KVStore is the durable persistence collaborator: one serialized blob per key.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Locator is the geolocation collaborator.
type Locator interface {
	CurrentPosition(ctx context.Context) (model.Location, error)
}

// Advisor produces ordered disposal guidance for a category.
type Advisor interface {
	Suggest(category model.WasteCategory, location *model.Location) []string
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
