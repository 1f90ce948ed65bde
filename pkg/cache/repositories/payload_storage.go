package cacherepositories

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"

	dbconnections "github.com/thebartekbanach/imsquash/pkg/cache/repositories/connections"
)

type cachedPayloadsStorage struct {
	conn dbconnections.BlockStorageConnection
}

var _ CachedPayloadsStorage = (*cachedPayloadsStorage)(nil)

func NewCachedPayloadsStorage(conn dbconnections.BlockStorageConnection) CachedPayloadsStorage {
	return &cachedPayloadsStorage{conn}
}

func (s *cachedPayloadsStorage) Save(ctx context.Context, requestSignature, contentType string, data []byte) error {
	resourceID := s.makeResourceID(requestSignature)
	exists, err := s.conn.ObjectExists(ctx, resourceID)
	if err != nil {
		return err
	}
	if exists {
		return ErrPayloadAlreadyExists
	}

	return s.conn.PutObject(ctx, resourceID, int64(len(data)), contentType, bytes.NewReader(data))
}

func (s *cachedPayloadsStorage) Get(ctx context.Context, requestSignature string) ([]byte, error) {
	resourceID := s.makeResourceID(requestSignature)
	reader, err := s.conn.GetObject(ctx, resourceID)
	if err != nil {
		return nil, s.convertToKnownError(err)
	}

	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	return data, nil
}

func (s *cachedPayloadsStorage) Delete(ctx context.Context, requestSignature string) error {
	resourceID := s.makeResourceID(requestSignature)
	exists, err := s.conn.ObjectExists(ctx, resourceID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrPayloadNotFound
	}

	return s.conn.DeleteObject(ctx, resourceID)
}

func (s *cachedPayloadsStorage) convertToKnownError(err error) error {
	if err == dbconnections.ErrObjectNotFound {
		return ErrPayloadNotFound
	}

	return err
}

func (s *cachedPayloadsStorage) makeResourceID(requestSignature string) string {
	return url.PathEscape(requestSignature)
}

var (
	ErrPayloadAlreadyExists = errors.New("payload already exists")
	ErrPayloadNotFound      = errors.New("payload not found")
)
