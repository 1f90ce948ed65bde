package cache

import (
	"context"
	"errors"

	cacherepositories "github.com/thebartekbanach/imsquash/pkg/cache/repositories"
)

type cacheService struct {
	payloadsRepository cacherepositories.CachedPayloadsRepository
	payloadsStorage    cacherepositories.CachedPayloadsStorage
}

var _ CacheService = (*cacheService)(nil)

func NewCacheService(
	payloadsRepository cacherepositories.CachedPayloadsRepository,
	payloadsStorage cacherepositories.CachedPayloadsStorage,
) CacheService {
	return &cacheService{
		payloadsRepository,
		payloadsStorage,
	}
}

func (s *cacheService) Get(ctx context.Context, requestSignature string) (CachedPayload, error) {
	info, err := s.payloadsRepository.GetCachedPayloadInfo(ctx, requestSignature)
	if err != nil {
		if err == cacherepositories.ErrCachedPayloadNotFound {
			return CachedPayload{}, ErrEntryNotFound
		}

		return CachedPayload{}, err
	}

	data, err := s.payloadsStorage.Get(ctx, requestSignature)
	if err != nil {
		if err == cacherepositories.ErrPayloadNotFound {
			return CachedPayload{}, ErrEntryNotFound
		}

		return CachedPayload{}, err
	}

	return CachedPayload{Info: info, Data: data}, nil
}

func (s *cacheService) Save(ctx context.Context, payloadInfo cacherepositories.CachedPayloadModel, data []byte) error {
	if err := s.payloadsRepository.CreateCachedPayloadInfo(ctx, payloadInfo); err != nil {
		if err == cacherepositories.ErrCachedPayloadAlreadyExists {
			return ErrEntryAlreadyExists
		}

		return err
	}

	if err := s.payloadsStorage.Save(ctx, payloadInfo.RequestSignature, payloadInfo.ContentType, data); err != nil {
		s.payloadsRepository.DeleteCachedPayloadInfo(ctx, payloadInfo.RequestSignature)
		s.payloadsStorage.Delete(ctx, payloadInfo.RequestSignature)
		return err
	}

	return nil
}

func (s *cacheService) InvalidateAllEntriesForURL(ctx context.Context, sourceURL string) (removedEntries []cacherepositories.CachedPayloadModel, err error) {
	entries, err := s.payloadsRepository.GetCachedPayloadInfosOfSource(ctx, sourceURL)
	if err != nil {
		return
	}

	for _, entry := range entries {
		err = s.payloadsRepository.DeleteCachedPayloadInfo(ctx, entry.RequestSignature)
		if err != nil {
			return
		}

		err = s.payloadsStorage.Delete(ctx, entry.RequestSignature)
		if err != nil {
			return
		}

		removedEntries = append(removedEntries, entry)
	}

	return
}

var (
	ErrEntryNotFound      = errors.New("entry not found")
	ErrEntryAlreadyExists = errors.New("entry already exists")
)
