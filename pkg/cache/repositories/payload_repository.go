package cacherepositories

import (
	"context"
	"errors"

	dbconnections "github.com/thebartekbanach/imsquash/pkg/cache/repositories/connections"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type cachedPayloadsRepository struct {
	conn dbconnections.CacheDBConnection
}

var _ CachedPayloadsRepository = (*cachedPayloadsRepository)(nil)

func NewCachedPayloadsRepository(conn dbconnections.CacheDBConnection) CachedPayloadsRepository {
	return &cachedPayloadsRepository{conn}
}

func (repo *cachedPayloadsRepository) CreateCachedPayloadInfo(ctx context.Context, info CachedPayloadModel) error {
	collection := repo.conn.Collection("cachedPayloads")

	result := collection.FindOne(ctx, bson.M{"requestSignature": info.RequestSignature})
	if result.Err() != mongo.ErrNoDocuments {
		return ErrCachedPayloadAlreadyExists
	}

	_, err := collection.InsertOne(ctx, info)
	return err
}

func (repo *cachedPayloadsRepository) DeleteCachedPayloadInfo(ctx context.Context, requestSignature string) error {
	collection := repo.conn.Collection("cachedPayloads")

	result, err := collection.DeleteOne(ctx, bson.M{"requestSignature": requestSignature})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return ErrCachedPayloadNotFound
	}

	return nil
}

func (repo *cachedPayloadsRepository) GetCachedPayloadInfo(ctx context.Context, requestSignature string) (CachedPayloadModel, error) {
	collection := repo.conn.Collection("cachedPayloads")

	var info CachedPayloadModel
	if err := collection.FindOne(ctx, bson.M{"requestSignature": requestSignature}).Decode(&info); err != nil {
		if err == mongo.ErrNoDocuments {
			return info, ErrCachedPayloadNotFound
		}

		return CachedPayloadModel{}, err
	}

	return info, nil
}

func (repo *cachedPayloadsRepository) GetCachedPayloadInfosOfSource(ctx context.Context, sourceURL string) ([]CachedPayloadModel, error) {
	collection := repo.conn.Collection("cachedPayloads")

	cursor, err := collection.Find(ctx, bson.M{"sourceURL": sourceURL})
	if err != nil {
		return nil, err
	}

	infos := []CachedPayloadModel{}
	if err := cursor.All(ctx, &infos); err != nil {
		return nil, err
	}

	return infos, nil
}

var (
	ErrCachedPayloadNotFound      = errors.New("cached payload not found")
	ErrCachedPayloadAlreadyExists = errors.New("cached payload already exists")
)
