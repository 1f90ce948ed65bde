package proxy

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/ryanuber/go-glob"
	"github.com/thebartekbanach/imsquash/pkg/assembler"
	"github.com/thebartekbanach/imsquash/pkg/cache"
	cacherepositories "github.com/thebartekbanach/imsquash/pkg/cache/repositories"
	"github.com/thebartekbanach/imsquash/pkg/fetcher"
	"github.com/thebartekbanach/imsquash/pkg/transportcodec"
)

type ProxyServiceConfig struct {
	AllowedDomains []string
	AllowedOrigins []string
}

type proxyService struct {
	config        ProxyServiceConfig
	cache         cache.CacheService
	originFetcher fetcher.Fetcher
	bypassFetcher fetcher.Fetcher
	codecs        *transportcodec.Registry
	assembler     assembler.Assembler
	fallback      RedirectFallback
}

var _ ProxyService = (*proxyService)(nil)

func NewProxyService(
	config ProxyServiceConfig,
	cacheService cache.CacheService,
	originFetcher fetcher.Fetcher,
	bypassFetcher fetcher.Fetcher,
	codecs *transportcodec.Registry,
	responseAssembler assembler.Assembler,
	fallback RedirectFallback,
) ProxyService {
	return &proxyService{
		config:        config,
		cache:         cacheService,
		originFetcher: originFetcher,
		bypassFetcher: bypassFetcher,
		codecs:        codecs,
		assembler:     responseAssembler,
		fallback:      fallback,
	}
}

func (p *proxyService) Handle(ctx context.Context, request ClientRequest, w http.ResponseWriter) {
	logger := log.With().
		Str("requestId", uuid.NewString()).
		Str("request", request.RawRequest).
		Str("target", request.TargetURL).
		Logger()

	if !p.isAllowedOrigin(request.CallerOrigin) {
		http.Error(w, "request origin not allowed", http.StatusForbidden)
		return
	}

	if !p.isAllowedTargetDomain(request.TargetURL) {
		logger.Debug().Str("origin", request.CallerOrigin).Msg("target domain not allowed, redirecting client to origin")
		p.fallback.Redirect(w, request.TargetURL)
		return
	}

	signature := p.generateSignature(request)

	cached, err := p.cache.Get(ctx, signature)
	if err == nil {
		logger.Debug().Msg("serving payload from cache")
		p.serveCached(w, request, cached)
		return
	}
	if err != cache.ErrEntryNotFound {
		logger.Warn().Err(err).Msg("cache lookup failed, falling through to origin fetch")
	}

	response, err := p.originFetcher.Fetch(ctx, fetcher.FetchRequest{
		URL:     request.TargetURL,
		Headers: request.Headers,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("origin fetch failed, redirecting client to origin")
		p.fallback.Redirect(w, request.TargetURL)
		return
	}

	if response.StatusCode == http.StatusForbidden || response.StatusCode == http.StatusServiceUnavailable {
		logger.Info().Int("status", response.StatusCode).Msg("origin looks bot-protected, retrying through bypass fetcher")

		response, err = p.bypassFetcher.Fetch(ctx, fetcher.FetchRequest{
			URL:     request.TargetURL,
			Headers: request.Headers,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("bypass fetch failed, redirecting client to origin")
			p.fallback.Redirect(w, request.TargetURL)
			return
		}
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		logger.Info().Int("status", response.StatusCode).Msg("origin response not usable, redirecting client to origin")
		p.fallback.Redirect(w, request.TargetURL)
		return
	}

	decoded := p.codecs.Decode(response.Body, response.ContentEncoding)

	payload := assembler.Payload{
		Body:           decoded.Data,
		AcceptEncoding: request.AcceptEncoding,
		Params:         request.Params,
		OriginType:     p.contentTypeOf(response),
		OriginSize:     len(decoded.Data),
	}

	sent, err := p.assembler.Assemble(ctx, w, response, payload)
	if err != nil {
		// headers are already on the wire at this point, logging is all
		// that is left to do
		logger.Error().Err(err).Msg("response assembly failed")
		return
	}

	payloadInfo := cacherepositories.CachedPayloadModel{
		RequestSignature: signature,
		SourceURL:        request.TargetURL,
		ContentType:      sent.ContentType,
		OriginSize:       int64(len(decoded.Data)),
		CompressedSize:   int64(len(sent.Body)),
		EncodingParams:   p.encodingParamsOf(request),
	}

	go func() {
		if err := p.cache.Save(context.Background(), payloadInfo, sent.Body); err != nil && err != cache.ErrEntryAlreadyExists {
			logger.Warn().Err(err).Msg("caching of served payload failed")
		}
	}()
}

func (p *proxyService) serveCached(w http.ResponseWriter, request ClientRequest, cached cache.CachedPayload) {
	assembler.ApplySecurityHeaders(w.Header())

	encoded := p.codecs.Encode(cached.Data, request.AcceptEncoding)
	if encoded.Encoding != transportcodec.EncodingIdentity {
		w.Header().Set("Content-Encoding", encoded.Encoding)
	}

	w.Header().Set("Content-Type", cached.Info.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(encoded.Data)))
	w.Header().Set("X-Original-Size", strconv.FormatInt(cached.Info.OriginSize, 10))
	w.Header().Set("X-Bytes-Saved", strconv.FormatInt(cached.Info.OriginSize-cached.Info.CompressedSize, 10))

	w.WriteHeader(http.StatusOK)
	w.Write(encoded.Data)
}

func (p *proxyService) contentTypeOf(response fetcher.OriginResponse) string {
	contentType := response.Headers.Get("Content-Type")
	if contentType == "" {
		return "application/octet-stream"
	}

	return contentType
}

func (p *proxyService) generateSignature(request ClientRequest) string {
	params := p.encodingParamsOf(request)

	signature := "|" + request.TargetURL + "|"
	for _, key := range p.getSortedMapKeys(params) {
		currentValue := ""
		for _, value := range params[key] {
			currentValue += value + ","
		}

		currentValue = strings.TrimRight(currentValue, ",")
		signature += key + "=" + currentValue + "|"
	}

	return signature
}

func (p *proxyService) encodingParamsOf(request ClientRequest) map[string][]string {
	params := map[string][]string{}

	if request.Params.Quality != 0 {
		params["quality"] = []string{strconv.Itoa(request.Params.Quality)}
	}
	if request.Params.Grayscale {
		params["grayscale"] = []string{"true"}
	}
	if request.Params.Format != "" {
		params["format"] = []string{request.Params.Format}
	}

	return params
}

func (p *proxyService) getSortedMapKeys(mapToSort map[string][]string) []string {
	keys := make([]string, 0, len(mapToSort))
	for key := range mapToSort {
		keys = append(keys, key)
	}

	sort.Strings(keys)
	return keys
}

func (p *proxyService) isAllowedOrigin(origin string) bool {
	if len(p.config.AllowedOrigins) == 0 {
		return true
	}

	for _, allowedOrigin := range p.config.AllowedOrigins {
		if glob.Glob(allowedOrigin, origin) {
			return true
		}
	}

	return false
}

func (p *proxyService) isAllowedTargetDomain(targetURL string) bool {
	if len(p.config.AllowedDomains) == 0 {
		return true
	}

	url, err := url.Parse(targetURL)
	if err != nil {
		return false
	}

	targetDomain := url.Hostname()
	for _, allowedDomain := range p.config.AllowedDomains {
		if glob.Glob(allowedDomain, targetDomain) {
			return true
		}
	}

	return false
}
