package cacherepositories

import "context"

// CachedPayloadModel describes one cached proxied payload. The body itself
// lives in blob storage; this is the metadata record.
type CachedPayloadModel struct {
	RequestSignature string `json:"requestSignature" bson:"requestSignature"`
	SourceURL        string `json:"sourceURL" bson:"sourceURL"`

	ContentType string `json:"contentType" bson:"contentType"`

	OriginSize     int64 `json:"originSize" bson:"originSize"`
	CompressedSize int64 `json:"compressedSize" bson:"compressedSize"`

	EncodingParams map[string][]string `json:"encodingParams" bson:"encodingParams"`
}

type CachedPayloadsRepository interface {
	CreateCachedPayloadInfo(ctx context.Context, info CachedPayloadModel) error
	DeleteCachedPayloadInfo(ctx context.Context, requestSignature string) error
	GetCachedPayloadInfo(ctx context.Context, requestSignature string) (CachedPayloadModel, error)
	GetCachedPayloadInfosOfSource(ctx context.Context, sourceURL string) ([]CachedPayloadModel, error)
}

type CachedPayloadsStorage interface {
	Save(ctx context.Context, requestSignature, contentType string, data []byte) error
	Get(ctx context.Context, requestSignature string) ([]byte, error)
	Delete(ctx context.Context, requestSignature string) error
}
