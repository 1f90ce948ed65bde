package main

import (
	"context"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/thebartekbanach/imsquash/pkg/assembler"
	"github.com/thebartekbanach/imsquash/pkg/bypass"
	"github.com/thebartekbanach/imsquash/pkg/cache"
	dbconnections "github.com/thebartekbanach/imsquash/pkg/cache/repositories/connections"
	"github.com/thebartekbanach/imsquash/pkg/encoder"
	"github.com/thebartekbanach/imsquash/pkg/encoder/codecservice"
	"github.com/thebartekbanach/imsquash/pkg/fetcher"
	"github.com/thebartekbanach/imsquash/pkg/proxy"
	"github.com/thebartekbanach/imsquash/pkg/scheduler"
	"github.com/thebartekbanach/imsquash/pkg/transportcodec"
)

// OriginFetcher and BypassFetcher give the two fetcher.Fetcher instances
// distinct types, so the injector can tell them apart.
type OriginFetcher fetcher.Fetcher

type BypassFetcher fetcher.Fetcher

func envOr(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}

	return fallback
}

func InitializeMongoConnectionConfig() dbconnections.CacheDBConfig {
	config := dbconnections.CacheDBConfig{
		ConnectionString: envOr("IMSQUASH_MONGO_CONNECTION_STRING", ""),
	}

	if config.ConnectionString == "" {
		log.Panic().Msg("IMSQUASH_MONGO_CONNECTION_STRING is required environment variable")
	}

	parsedConnectionString, err := url.Parse(config.ConnectionString)
	if err != nil {
		log.Panic().Err(err).Msg("parsing of IMSQUASH_MONGO_CONNECTION_STRING failed")
	}

	if parsedConnectionString.User == nil {
		log.Panic().Msg("IMSQUASH_MONGO_CONNECTION_STRING must contain credentials")
	}

	return config
}

func InitializeMongoConnection(ctx context.Context, mongoConfig dbconnections.CacheDBConfig) dbconnections.CacheDBConnection {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	cacheDBConnection, err := dbconnections.NewCacheDBProductionConnection(ctx, mongoConfig)
	if err != nil {
		log.Panic().Err(err).Msg("MongoDB connection initialization failed")
	}

	return cacheDBConnection
}

func InitializeMinioConnectionConfig() dbconnections.MinioBlockStorageProductionConnectionConfig {
	config := dbconnections.MinioBlockStorageProductionConnectionConfig{
		Endpoint:  envOr("IMSQUASH_MINIO_ENDPOINT", ""),
		AccessKey: envOr("IMSQUASH_MINIO_ACCESS_KEY", ""),
		SecretKey: envOr("IMSQUASH_MINIO_SECRET_KEY", ""),
		Location:  envOr("IMSQUASH_MINIO_LOCATION", "us-east-1"),
		Bucket:    envOr("IMSQUASH_MINIO_BUCKET", ""),
		UseSSL:    envOr("IMSQUASH_MINIO_SSL", "") == "true",
	}

	if config.Endpoint == "" {
		log.Panic().Msg("IMSQUASH_MINIO_ENDPOINT is required environment variable")
	}

	if config.AccessKey == "" {
		log.Panic().Msg("IMSQUASH_MINIO_ACCESS_KEY is required environment variable")
	}

	if config.SecretKey == "" {
		log.Panic().Msg("IMSQUASH_MINIO_SECRET_KEY is required environment variable")
	}

	if config.Bucket == "" {
		log.Panic().Msg("IMSQUASH_MINIO_BUCKET is required environment variable")
	}

	return config
}

func InitializeMinioConnection(ctx context.Context, minioConfig dbconnections.MinioBlockStorageProductionConnectionConfig) dbconnections.BlockStorageConnection {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	minioBlockStorageConnection, err := dbconnections.NewMinioBlockStorageProductionConnection(ctx, minioConfig)
	if err != nil {
		log.Panic().Err(err).Msg("Minio connection initialization failed")
	}

	return &minioBlockStorageConnection
}

func InitializeScheduler(config Config) scheduler.Scheduler {
	spacing := config.MinRequestSpacing()
	if spacing == 0 {
		spacing = scheduler.DefaultMinSpacing
	}

	return scheduler.NewPacedScheduler(spacing)
}

func InitializeOriginFetcher(sched scheduler.Scheduler) OriginFetcher {
	return OriginFetcher(fetcher.NewOriginFetcher(sched))
}

func InitializeBypassFetcher(config Config) BypassFetcher {
	var upstreamProxy *url.URL
	if config.UpstreamProxy != "" {
		parsed, err := url.Parse(config.UpstreamProxy)
		if err != nil {
			log.Panic().Err(err).Msg("parsing of upstreamProxy configuration entry failed")
		}

		upstreamProxy = parsed
	}

	return BypassFetcher(bypass.NewBypassFetcher(upstreamProxy))
}

func InitializeCodecRegistry() *transportcodec.Registry {
	return transportcodec.NewRegistry()
}

func InitializeImageEncoder(config Config) encoder.ImageEncoder {
	if config.CodecServiceURL == "" {
		log.Panic().Msg("codecServiceURL is required configuration entry")
	}

	if _, err := url.Parse(config.CodecServiceURL); err != nil {
		log.Panic().Err(err).Msg("parsing of codecServiceURL configuration entry failed")
	}

	client := codecservice.NewClient(codecservice.Config{CodecServiceURL: config.CodecServiceURL})
	return &client
}

func InitializeAssembler(imageEncoder encoder.ImageEncoder, codecs *transportcodec.Registry) assembler.Assembler {
	return assembler.NewResponseAssembler(
		sizeDecider{},
		&compressSender{imageEncoder, codecs},
		&bypassSender{codecs},
	)
}

func InitializeRedirectFallback() proxy.RedirectFallback {
	return redirectFallback{}
}

func InitializeProxyConfig(config Config) proxy.ProxyServiceConfig {
	proxyConfig := proxy.ProxyServiceConfig{
		AllowedDomains: config.AllowedDomains,
		AllowedOrigins: config.AllowedOrigins,
	}

	if len(proxyConfig.AllowedDomains) == 0 {
		proxyConfig.AllowedDomains = []string{"*"}
	}

	if len(proxyConfig.AllowedOrigins) == 0 {
		proxyConfig.AllowedOrigins = []string{"*"}
	}

	return proxyConfig
}

func InitializeProxyService(
	proxyConfig proxy.ProxyServiceConfig,
	cacheService cache.CacheService,
	originFetcher OriginFetcher,
	bypassFetcher BypassFetcher,
	codecs *transportcodec.Registry,
	responseAssembler assembler.Assembler,
	fallback proxy.RedirectFallback,
) proxy.ProxyService {
	return proxy.NewProxyService(
		proxyConfig,
		cacheService,
		fetcher.Fetcher(originFetcher),
		fetcher.Fetcher(bypassFetcher),
		codecs,
		responseAssembler,
		fallback,
	)
}
