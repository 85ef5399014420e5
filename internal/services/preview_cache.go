package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/m4rrec0s/cesto-damore-backend-sub007/internal/logger"
)

// PreviewCache holds rendered preview PNGs keyed by the content hash
// of whatever produced them. Entries expire on their own; nothing
// invalidates them because a changed input changes the key.
type PreviewCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, png []byte)
	Close() error
}

type previewCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewPreviewCache(log *logger.Logger) (PreviewCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	ttl := 15 * time.Minute
	if raw := strings.TrimSpace(os.Getenv("PREVIEW_CACHE_TTL_SECONDS")); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			ttl = time.Duration(secs) * time.Second
		}
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &previewCache{
		log: log.With("service", "PreviewCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func (pc *previewCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if pc == nil || pc.rdb == nil {
		return nil, false
	}
	data, err := pc.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, false
	}
	if err != nil {
		pc.log.Warn("Preview cache read failed", "key", key, "error", err)
		return nil, false
	}
	return data, true
}

func (pc *previewCache) Set(ctx context.Context, key string, png []byte) {
	if pc == nil || pc.rdb == nil || len(png) == 0 {
		return
	}
	if err := pc.rdb.Set(ctx, key, png, pc.ttl).Err(); err != nil {
		pc.log.Warn("Preview cache write failed", "key", key, "error", err)
	}
}

func (pc *previewCache) Close() error {
	if pc == nil || pc.rdb == nil {
		return nil
	}
	return pc.rdb.Close()
}

// PreviewCacheKey hashes everything that feeds a preview render.
func PreviewCacheKey(templateID string, assignmentsJSON []byte, maxWidth int) string {
	h := sha256.New()
	h.Write([]byte(templateID))
	h.Write([]byte{0})
	h.Write(assignmentsJSON)
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(maxWidth)))
	return "preview:" + hex.EncodeToString(h.Sum(nil))
}
