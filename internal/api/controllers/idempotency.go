package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	mem "payflow/pkg/memcache"
	"payflow/pkg/utils"
)

const IdempotencyHeader = "Idempotency-Key"

// reservationTTL bounds how long a key stays locked by a request that never
// finished, e.g. after a crash between reserve and complete.
const reservationTTL = time.Minute

type idempotencyGuard struct {
	store mem.IdempotencyStore
	ttl   time.Duration
	log   *zap.Logger
}

// reserve claims key for the calling request. owned is true when the caller
// must create the resource and then call complete or release. Otherwise
// replayID names the resource an earlier request produced, or is empty when
// that request is still running.
func (g idempotencyGuard) reserve(c *gin.Context, key string) (replayID string, owned bool) {
	ctx := c.Request.Context()
	won, err := g.store.Remember(ctx, key, "", reservationTTL)
	if err != nil {
		g.log.Warn("idempotency reserve", zap.String("key", key), zap.Error(err))
		return "", true
	}
	if won {
		return "", true
	}

	id, _, err := g.store.Get(ctx, key)
	if err != nil {
		g.log.Warn("idempotency lookup", zap.String("key", key), zap.Error(err))
	}
	return id, false
}

func (g idempotencyGuard) complete(c *gin.Context, key, resourceID string) {
	if err := g.store.Complete(c.Request.Context(), key, resourceID, g.ttl); err != nil {
		g.log.Warn("remember idempotency key", zap.String("key", key), zap.Error(err))
	}
}

func (g idempotencyGuard) release(c *gin.Context, key string) {
	if err := g.store.Forget(c.Request.Context(), key); err != nil {
		g.log.Warn("release idempotency key", zap.String("key", key), zap.Error(err))
	}
}

func respondInProgress(c *gin.Context) {
	utils.RespondError(c, http.StatusConflict, "A request with this Idempotency-Key is still in progress")
}
