package mock_cacherepositories

import (
	context "context"
	"sync"

	cacherepositories "github.com/thebartekbanach/imsquash/pkg/cache/repositories"
)

type MockCachedPayloadsRepository struct {
	infos map[string]cacherepositories.CachedPayloadModel
	lock  sync.Mutex
	err   error
}

var _ cacherepositories.CachedPayloadsRepository = (*MockCachedPayloadsRepository)(nil)

func NewMockCachedPayloadsRepository() *MockCachedPayloadsRepository {
	return &MockCachedPayloadsRepository{
		infos: make(map[string]cacherepositories.CachedPayloadModel),
		lock:  sync.Mutex{},
	}
}

func (r *MockCachedPayloadsRepository) InstantSave(info cacherepositories.CachedPayloadModel) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.infos[info.RequestSignature] = info
}

func (r *MockCachedPayloadsRepository) ReturnError(err error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.err = err
}

func (r *MockCachedPayloadsRepository) CreateCachedPayloadInfo(ctx context.Context, info cacherepositories.CachedPayloadModel) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.err != nil {
		return r.err
	}

	if _, exists := r.infos[info.RequestSignature]; exists {
		return cacherepositories.ErrCachedPayloadAlreadyExists
	}

	r.infos[info.RequestSignature] = info
	return nil
}

func (r *MockCachedPayloadsRepository) DeleteCachedPayloadInfo(ctx context.Context, requestSignature string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.err != nil {
		return r.err
	}

	if _, exists := r.infos[requestSignature]; !exists {
		return cacherepositories.ErrCachedPayloadNotFound
	}

	delete(r.infos, requestSignature)
	return nil
}

func (r *MockCachedPayloadsRepository) GetCachedPayloadInfo(ctx context.Context, requestSignature string) (cacherepositories.CachedPayloadModel, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.err != nil {
		return cacherepositories.CachedPayloadModel{}, r.err
	}

	if info, ok := r.infos[requestSignature]; ok {
		return info, nil
	}

	return cacherepositories.CachedPayloadModel{}, cacherepositories.ErrCachedPayloadNotFound
}

func (r *MockCachedPayloadsRepository) GetCachedPayloadInfosOfSource(ctx context.Context, sourceURL string) ([]cacherepositories.CachedPayloadModel, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.err != nil {
		return nil, r.err
	}

	infos := []cacherepositories.CachedPayloadModel{}
	for _, info := range r.infos {
		if info.SourceURL == sourceURL {
			infos = append(infos, info)
		}
	}

	return infos, nil
}
