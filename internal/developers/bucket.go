package developers

import (
	"context"
	"fmt"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

// OpenBucket opens the bucket holding the developer list from a gocloud.dev URL.
// Supported schemes: s3://bucket?region=..., file:///path, mem://.
func OpenBucket(ctx context.Context, bucketURL string) (*blob.Bucket, error) {
	if bucketURL == "" {
		return nil, fmt.Errorf("developer bucket url required")
	}
	bk, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("open developer bucket %s: %w", bucketURL, err)
	}
	return bk, nil
}
