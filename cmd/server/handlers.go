package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/thebartekbanach/imsquash/pkg/assembler"
	"github.com/thebartekbanach/imsquash/pkg/cache"
	"github.com/thebartekbanach/imsquash/pkg/encoder"
	"github.com/thebartekbanach/imsquash/pkg/proxy"
)

func handleImageRequest(ctx context.Context, proxyService proxy.ProxyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		processingCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()

		if assembler.EnforceHTTPS(w, r) {
			return
		}

		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			w.Write([]byte("only GET method is allowed"))
			return
		}

		targetURL := r.URL.Query().Get("url")
		if targetURL == "" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("url query parameter is required"))
			return
		}

		request := proxy.ClientRequest{
			RawRequest:     r.URL.Path + "?" + r.URL.RawQuery,
			TargetURL:      targetURL,
			CallerOrigin:   r.Header.Get("Origin"),
			Headers:        r.Header,
			AcceptEncoding: r.Header.Get("Accept-Encoding"),
			Params:         parseEncodingParams(r),
		}

		proxyService.Handle(processingCtx, request, w)
		r.Body.Close()
	}
}

func parseEncodingParams(r *http.Request) encoder.Params {
	params := encoder.Params{}

	if quality, err := strconv.Atoi(r.URL.Query().Get("quality")); err == nil {
		params.Quality = quality
	}

	params.Grayscale = r.URL.Query().Get("grayscale") == "true"
	params.Format = r.URL.Query().Get("format")

	return params
}

func handleInvalidationRequest(ctx context.Context, cacheService cache.CacheService) http.HandlerFunc {
	rawAccessToken := os.Getenv("IMSQUASH_INVALIDATE_SECURITY_TOKEN")
	accessToken := fmt.Sprintf("Bearer %s", rawAccessToken)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()

		if r.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			w.Write([]byte("only DELETE method is allowed"))
			return
		}

		if rawAccessToken != "" && r.Header.Get("Authorization") != accessToken {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("access token authorization failed"))
			return
		}

		sourceURL := r.URL.Query().Get("url")
		if sourceURL == "" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("url query parameter is required"))
			return
		}

		removedEntries, invalidationErr := cacheService.InvalidateAllEntriesForURL(ctx, sourceURL)
		jsonResult, marshalErr := json.Marshal(removedEntries)
		if marshalErr != nil {
			log.Error().Err(marshalErr).Msg("marshalling of invalidated entries failed")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("marshalling of invalidated entries failed"))
			return
		}

		if invalidationErr != nil {
			log.Error().Err(invalidationErr).Str("url", sourceURL).Msg("invalidation failed")
			w.WriteHeader(http.StatusInternalServerError)
		} else {
			w.WriteHeader(http.StatusOK)
		}

		w.Write(jsonResult)
	}
}
