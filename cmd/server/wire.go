//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/thebartekbanach/imsquash/pkg/cache"
	cacherepositories "github.com/thebartekbanach/imsquash/pkg/cache/repositories"
	"github.com/thebartekbanach/imsquash/pkg/proxy"
)

func InitializeCache(ctx context.Context) cache.CacheService {
	wire.Build(
		InitializeMinioConnectionConfig,
		InitializeMinioConnection,
		cacherepositories.NewCachedPayloadsStorage,

		InitializeMongoConnectionConfig,
		InitializeMongoConnection,
		cacherepositories.NewCachedPayloadsRepository,

		cache.NewCacheService,
	)

	return nil
}

func InitializeProxy(config Config, cacheService cache.CacheService) proxy.ProxyService {
	wire.Build(
		InitializeScheduler,
		InitializeOriginFetcher,
		InitializeBypassFetcher,

		InitializeCodecRegistry,
		InitializeImageEncoder,
		InitializeAssembler,
		InitializeRedirectFallback,

		InitializeProxyConfig,
		InitializeProxyService,
	)

	return nil
}
