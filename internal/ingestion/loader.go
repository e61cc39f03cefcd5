package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	v1 "github.com/s3meta/s3meta/internal/api/v1"
	"github.com/s3meta/s3meta/internal/core/storage"
	"golang.org/x/time/rate"
)

const maxPageSize = 1000

// LoaderOptions configures one bucket listing.
type LoaderOptions struct {
	Bucket         string
	Prefix         string
	PageSize       int
	PagesPerSecond float64 // 0 = unlimited
}

// LoadStats summarizes one Load.
type LoadStats struct {
	Pages    int
	Listed   int
	Inserted int
	Skipped  int
}

// Loader lists a bucket and appends every object's metadata to the raw table.
// The listing continuation token is stored after each page so an interrupted
// load resumes where it stopped.
type Loader struct {
	client  s3.ListObjectsV2APIClient
	store   storage.ObjectStore
	tokens  storage.ListingTokenStore
	opts    LoaderOptions
	limiter *rate.Limiter
}

// NewS3Client builds an S3 client from the default AWS credential chain.
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	var optFns []func(*awsconfig.LoadOptions) error
	if region != "" {
		optFns = append(optFns, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// NewLoader creates a Loader for opts.Bucket.
func NewLoader(client s3.ListObjectsV2APIClient, store storage.ObjectStore, tokens storage.ListingTokenStore, opts LoaderOptions) (*Loader, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("loader: bucket is required")
	}
	if opts.PageSize <= 0 || opts.PageSize > maxPageSize {
		opts.PageSize = maxPageSize
	}

	l := &Loader{
		client: client,
		store:  store,
		tokens: tokens,
		opts:   opts,
	}
	if opts.PagesPerSecond > 0 {
		l.limiter = rate.NewLimiter(rate.Limit(opts.PagesPerSecond), 1)
	}
	return l, nil
}

// Load lists the bucket from the stored continuation token to the end.
func (l *Loader) Load(ctx context.Context) (LoadStats, error) {
	var stats LoadStats

	token, err := l.tokens.ReadListingToken(ctx, l.opts.Bucket)
	if err != nil {
		return stats, fmt.Errorf("read listing token: %w", err)
	}

	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(l.opts.Bucket),
		MaxKeys: aws.Int32(int32(l.opts.PageSize)),
	}
	if l.opts.Prefix != "" {
		input.Prefix = aws.String(l.opts.Prefix)
	}
	if token != "" {
		input.ContinuationToken = aws.String(token)
	}

	slog.Info("[Loader] Starting bucket listing",
		"bucket", l.opts.Bucket,
		"prefix", l.opts.Prefix,
		"page_size", l.opts.PageSize,
		"resume", token != "",
	)

	paginator := s3.NewListObjectsV2Paginator(l.client, input, func(o *s3.ListObjectsV2PaginatorOptions) {
		o.Limit = int32(l.opts.PageSize)
	})

	for paginator.HasMorePages() {
		if l.limiter != nil {
			if err := l.limiter.Wait(ctx); err != nil {
				return stats, err
			}
		}

		page, err := paginator.NextPage(ctx)
		if err != nil {
			return stats, fmt.Errorf("list %s page %d: %w", l.opts.Bucket, stats.Pages+1, err)
		}
		stats.Pages++

		records := make([]*v1.ObjectRecord, 0, len(page.Contents))
		for _, obj := range page.Contents {
			stats.Listed++
			rec, ok := toRecord(obj)
			if !ok {
				stats.Skipped++
				slog.Warn("[Loader] Skipping object with missing attributes", "key", aws.ToString(obj.Key))
				continue
			}
			records = append(records, rec)
		}

		inserted, err := l.store.SaveObjects(ctx, records)
		if err != nil {
			return stats, fmt.Errorf("persist page %d: %w", stats.Pages, err)
		}
		stats.Inserted += inserted

		if page.NextContinuationToken != nil {
			if err := l.tokens.WriteListingToken(ctx, l.opts.Bucket, *page.NextContinuationToken); err != nil {
				return stats, fmt.Errorf("write listing token: %w", err)
			}
		}

		slog.Debug("[Loader] Page persisted",
			"bucket", l.opts.Bucket,
			"page", stats.Pages,
			"objects", len(records),
			"inserted", inserted,
		)
	}

	slog.Info("[Loader] Bucket listing complete",
		"bucket", l.opts.Bucket,
		"pages", stats.Pages,
		"listed", stats.Listed,
		"inserted", stats.Inserted,
		"skipped", stats.Skipped,
	)
	return stats, nil
}

// toRecord converts a listing entry. Entries without key, size, storage
// class or last-modified time are rejected.
func toRecord(obj types.Object) (*v1.ObjectRecord, bool) {
	if obj.Key == nil || obj.Size == nil || obj.StorageClass == "" || obj.LastModified == nil {
		return nil, false
	}

	key := aws.ToString(obj.Key)
	return &v1.ObjectRecord{
		Key:           key,
		Size:          aws.ToInt64(obj.Size),
		ModifiedEpoch: obj.LastModified.Unix(),
		Name:          path.Base(key),
		StorageClass:  string(obj.StorageClass),
	}, true
}
