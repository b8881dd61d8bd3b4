package minio

import (
	"bytes"
	"context"

	"github.com/DRSN-tech/quotes-backend/internal/cfg"
	"github.com/DRSN-tech/quotes-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// SnapshotRepo хранит снапшоты отрисованных графиков поверх MinIO.
type SnapshotRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewSnapshotRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *SnapshotRepo {
	return &SnapshotRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Store загружает PNG в MinIO и возвращает ключ объекта.
func (s *SnapshotRepo) Store(ctx context.Context, key string, png []byte) (string, error) {
	reader := bytes.NewReader(png)

	info, err := s.mc.PutObject(ctx, s.cfg.BucketName, key, reader, int64(len(png)), minio.PutObjectOptions{
		ContentType: "image/png",
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return info.Key, nil
}

// PresignedURL возвращает временную ссылку на снапшот.
func (s *SnapshotRepo) PresignedURL(ctx context.Context, key string) (string, error) {
	url, err := s.mc.PresignedGetObject(ctx, s.cfg.BucketName, key, s.cfg.PresignTTL, nil)
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return url.String(), nil
}
