package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/gema-mentorship/internal/config"
	"github.com/noah-isme/gema-mentorship/internal/store"
	"github.com/noah-isme/gema-mentorship/internal/utils"
)

// CodeStoreUnavailable tags a health response where at least one collection could not be read.
const CodeStoreUnavailable = "STORE_UNAVAILABLE"

const collectionReadTimeout = 2 * time.Second

// CollectionHealth reports whether one persisted collection could be read.
type CollectionHealth struct {
	Name      string `json:"name"`
	Reachable bool   `json:"reachable"`
	Bytes     int    `json:"bytes"`
	Error     string `json:"error,omitempty"`
}

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string             `json:"status"`
	Timestamp   time.Time          `json:"timestamp"`
	Service     string             `json:"service"`
	Environment string             `json:"environment"`
	Store       string             `json:"store"`
	Collections []CollectionHealth `json:"collections"`
}

// HealthCheck reads every collection of the store and answers 503 when any of them fails.
// A nil reader reports service info only.
func HealthCheck(cfg config.Config, reader store.Reader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			Store:       cfg.StoreDriver,
			Collections: []CollectionHealth{},
		}

		if reader != nil {
			payload.Collections = checkCollections(c.UserContext(), reader)
			for _, col := range payload.Collections {
				if !col.Reachable {
					payload.Status = "degraded"
					break
				}
			}
		}

		if payload.Status != "ok" {
			return utils.SendErrorCode(c, fiber.StatusServiceUnavailable, CodeStoreUnavailable, "store degraded", payload)
		}
		return utils.SendSuccess(c, "service healthy", payload)
	}
}

func checkCollections(ctx context.Context, reader store.Reader) []CollectionHealth {
	collections := store.Collections()
	out := make([]CollectionHealth, 0, len(collections))
	for _, collection := range collections {
		readCtx, cancel := context.WithTimeout(ctx, collectionReadTimeout)
		payload, err := reader.Read(readCtx, collection)
		cancel()

		entry := CollectionHealth{Name: collection.String(), Reachable: err == nil, Bytes: len(payload)}
		if err != nil {
			entry.Error = err.Error()
		}
		out = append(out, entry)
	}
	return out
}
