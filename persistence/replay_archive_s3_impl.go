// Copyright (c) 2026 opcg-sim-backend Authors
// SPDX-License-Identifier: Apache-2.0

package persistence

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log"
	"github.com/gx5gyqe2-art/opcg-sim-backend/common/log/tag"
	"github.com/gx5gyqe2-art/opcg-sim-backend/config"
	"github.com/gx5gyqe2-art/opcg-sim-backend/persistence/data_models"
)

const replayObjectPrefix = "replays/"

type s3ReplayArchive struct {
	client *minio.Client
	bucket string
	logger log.Logger
}

// NewS3ReplayArchive stores compressed replays in an S3-compatible bucket.
// The bucket is created when it does not exist yet.
func NewS3ReplayArchive(cfg config.S3ArchiveConfig, logger log.Logger) (ReplayArchive, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	return &s3ReplayArchive{
		client: client,
		bucket: cfg.Bucket,
		logger: logger,
	}, nil
}

func (a *s3ReplayArchive) Store(ctx context.Context, replay *data_models.ReplayLog) error {
	compressed, err := encodeReplay(replay)
	if err != nil {
		return err
	}
	key := replayObjectPrefix + replayObjectName(replay.GameID)
	_, err = a.client.PutObject(ctx, a.bucket, key,
		bytes.NewReader(compressed), int64(len(compressed)),
		minio.PutObjectOptions{ContentType: "application/zstd"})
	if err != nil {
		return err
	}
	a.logger.Debug("stored replay object", tag.GameID(replay.GameID), tag.Key(key))
	return nil
}

func (a *s3ReplayArchive) Read(ctx context.Context, gameId string) (*data_models.ReplayLog, error) {
	key := replayObjectPrefix + replayObjectName(gameId)
	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = obj.Close() }()

	compressed, err := io.ReadAll(obj)
	if err != nil {
		return nil, err
	}
	return decodeReplay(compressed)
}
