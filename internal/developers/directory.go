// Package developers loads the list of developers allowed to publish games.
package developers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"
	"golang.org/x/sync/singleflight"

	domaingames "github.com/preston-bernstein/games-api/internal/domain/games"
	"github.com/preston-bernstein/games-api/internal/logging"
	"github.com/preston-bernstein/games-api/internal/metrics"
)

var (
	// ErrDirectoryNotFound is returned when the developer document is missing from the bucket.
	ErrDirectoryNotFound = errors.New("developer list not found")
	// ErrDirectoryDecode is returned when the developer document is not a valid developers envelope.
	ErrDirectoryDecode = errors.New("developer list malformed")

	errNoBucket = errors.New("developer bucket not configured")
)

const defaultFetchTimeout = 10 * time.Second

// Directory is a read-through cache of the authorised developer list. The first successful
// fetch is kept for the life of the process; concurrent first callers share a single fetch.
type Directory struct {
	bucket   *blob.Bucket
	key      string
	logger   *slog.Logger
	recorder *metrics.Recorder

	group  singleflight.Group
	cached atomic.Pointer[[]domaingames.Developer]
	now    func() time.Time
	retry  retryPolicy
	readFn func(ctx context.Context) ([]domaingames.Developer, error)
	// fetchTimeout bounds the shared fetch, independent of the callers' deadlines.
	fetchTimeout time.Duration
}

// NewDirectory builds a Directory that reads key from bucket.
func NewDirectory(bucket *blob.Bucket, key string, logger *slog.Logger, recorder *metrics.Recorder) *Directory {
	d := &Directory{
		bucket:       bucket,
		key:          key,
		logger:       logger,
		recorder:     recorder,
		now:          time.Now,
		retry:        newRetryPolicy(0, 0),
		fetchTimeout: defaultFetchTimeout,
	}
	d.readFn = d.read
	return d
}

// AuthorisedDevelopers returns the cached list, fetching it on first use.
// Failed fetches are not cached.
func (d *Directory) AuthorisedDevelopers(ctx context.Context) ([]domaingames.Developer, error) {
	if devs := d.cached.Load(); devs != nil {
		return *devs, nil
	}
	// The shared fetch outlives any single caller; each caller waits only as long as its own ctx allows.
	ch := d.group.DoChan(d.key, func() (any, error) {
		if devs := d.cached.Load(); devs != nil {
			return *devs, nil
		}
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.fetchTimeout)
		defer cancel()
		devs, err := d.fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		d.cached.Store(&devs)
		return devs, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]domaingames.Developer), nil
	}
}

// Warm loads the list ahead of the first request.
func (d *Directory) Warm(ctx context.Context) error {
	devs, err := d.AuthorisedDevelopers(ctx)
	if err != nil {
		return err
	}
	logging.Info(d.logger, "developer list loaded", logging.FieldCount, len(devs))
	return nil
}

// Loaded reports whether the list has been fetched.
func (d *Directory) Loaded() bool {
	return d.cached.Load() != nil
}

func (d *Directory) fetch(ctx context.Context) (devs []domaingames.Developer, err error) {
	start := d.now()
	defer func() {
		d.recorder.RecordDirectoryLoad(d.now().Sub(start), err)
		if err != nil {
			logging.Error(d.logger, "developer list load failed", err, "key", d.key)
		}
	}()

	if d.bucket == nil {
		return nil, errNoBucket
	}
	var loaded []domaingames.Developer
	err = d.retry.do(ctx, d.logger, func(ctx context.Context) error {
		var readErr error
		loaded, readErr = d.readFn(ctx)
		return readErr
	})
	if err != nil {
		return nil, err
	}
	return loaded, nil
}

func (d *Directory) read(ctx context.Context) ([]domaingames.Developer, error) {
	r, err := d.bucket.NewReader(ctx, d.key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, fmt.Errorf("%w: %s: %w", ErrDirectoryNotFound, d.key, err)
		}
		return nil, fmt.Errorf("read %s: %w", d.key, err)
	}
	defer r.Close()

	var doc domaingames.Developers
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDirectoryDecode, d.key, err)
	}
	if doc.Developers == nil {
		return nil, fmt.Errorf("%w: %s has no developers array", ErrDirectoryDecode, d.key)
	}
	return doc.Developers, nil
}
