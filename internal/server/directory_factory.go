package server

import (
	"context"
	"log/slog"

	"gocloud.dev/blob"

	"github.com/preston-bernstein/games-api/internal/config"
	"github.com/preston-bernstein/games-api/internal/developers"
	"github.com/preston-bernstein/games-api/internal/metrics"
)

type directoryComponents struct {
	directory *developers.Directory
	bucket    *blob.Bucket
}

func buildDirectory(ctx context.Context, cfg config.DevelopersConfig, logger *slog.Logger, recorder *metrics.Recorder) (directoryComponents, error) {
	bucket, err := developers.OpenBucket(ctx, cfg.BucketURL)
	if err != nil {
		return directoryComponents{}, err
	}
	return directoryComponents{
		directory: developers.NewDirectory(bucket, cfg.Key, logger, recorder),
		bucket:    bucket,
	}, nil
}
