package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
)

// LoadList reads the JSON array stored under key. An absent key or a
// document that fails to parse yields an empty list, never an error; the
// ledger always presents a valid data set rather than failing to load.
func LoadList[T any](ctx context.Context, store Store, logger *slog.Logger, key string) []T {
	raw, err := store.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) && logger != nil {
			logger.Warn("kvstore load failed", slog.String("key", key), slog.Any("error", err))
		}
		return nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		if logger != nil {
			logger.Warn("kvstore document corrupt", slog.String("key", key), slog.Any("error", err))
		}
		return nil
	}
	return items
}

// SaveList writes the list as a JSON array under key. Write failures are
// logged and swallowed so that a failed save never aborts a booking flow;
// callers keep the in-memory value either way.
func SaveList[T any](ctx context.Context, store Store, logger *slog.Logger, key string, items []T) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		if logger != nil {
			logger.Error("kvstore encode failed", slog.String("key", key), slog.Any("error", err))
		}
		return
	}
	if err := store.Save(ctx, key, data); err != nil {
		if logger != nil {
			logger.Error("kvstore save failed", slog.String("key", key), slog.Any("error", err))
		}
	}
}
