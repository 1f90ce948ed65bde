package cache

import (
	"context"

	cacherepositories "github.com/thebartekbanach/imsquash/pkg/cache/repositories"
)

type CachedPayload struct {
	Info cacherepositories.CachedPayloadModel
	Data []byte
}

type CacheService interface {
	Get(ctx context.Context, requestSignature string) (CachedPayload, error)
	Save(ctx context.Context, payloadInfo cacherepositories.CachedPayloadModel, data []byte) error
	InvalidateAllEntriesForURL(ctx context.Context, sourceURL string) ([]cacherepositories.CachedPayloadModel, error)
}
