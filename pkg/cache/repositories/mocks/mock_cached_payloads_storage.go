package mock_cacherepositories

import (
	context "context"
	"sync"

	cacherepositories "github.com/thebartekbanach/imsquash/pkg/cache/repositories"
)

type MockCachedPayloadsStorage struct {
	payloads map[string][]byte
	lock     sync.Mutex
	err      error
}

var _ cacherepositories.CachedPayloadsStorage = (*MockCachedPayloadsStorage)(nil)

func NewMockCachedPayloadsStorage() *MockCachedPayloadsStorage {
	return &MockCachedPayloadsStorage{
		payloads: make(map[string][]byte),
		lock:     sync.Mutex{},
	}
}

func (s *MockCachedPayloadsStorage) InstantSave(requestSignature string, data []byte) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.payloads[requestSignature] = data
}

func (s *MockCachedPayloadsStorage) ReturnError(err error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.err = err
}

func (s *MockCachedPayloadsStorage) Save(ctx context.Context, requestSignature, contentType string, data []byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.err != nil {
		return s.err
	}

	if _, exists := s.payloads[requestSignature]; exists {
		return cacherepositories.ErrPayloadAlreadyExists
	}

	stored := make([]byte, len(data))
	copy(stored, data)
	s.payloads[requestSignature] = stored
	return nil
}

func (s *MockCachedPayloadsStorage) Get(ctx context.Context, requestSignature string) ([]byte, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	if data, ok := s.payloads[requestSignature]; ok {
		return data, nil
	}

	return nil, cacherepositories.ErrPayloadNotFound
}

func (s *MockCachedPayloadsStorage) Delete(ctx context.Context, requestSignature string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.err != nil {
		return s.err
	}

	if _, ok := s.payloads[requestSignature]; !ok {
		return cacherepositories.ErrPayloadNotFound
	}

	delete(s.payloads, requestSignature)
	return nil
}
