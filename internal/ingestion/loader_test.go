package ingestion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	v1 "github.com/s3meta/s3meta/internal/api/v1"
	storagemocks "github.com/s3meta/s3meta/internal/mocks/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeLister serves pages keyed by the continuation token of the request.
// The first page is keyed by "".
type fakeLister struct {
	pages     map[string]*s3.ListObjectsV2Output
	requested []string
	err       error
}

func (f *fakeLister) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	token := aws.ToString(in.ContinuationToken)
	f.requested = append(f.requested, token)
	if f.err != nil {
		return nil, f.err
	}
	page, ok := f.pages[token]
	if !ok {
		return nil, errors.New("unknown continuation token " + token)
	}
	return page, nil
}

var listedAt = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func listedObject(key string, size int64) types.Object {
	return types.Object{
		Key:          aws.String(key),
		Size:         aws.Int64(size),
		LastModified: aws.Time(listedAt),
		StorageClass: types.ObjectStorageClassStandard,
	}
}

func listPage(next string, objs ...types.Object) *s3.ListObjectsV2Output {
	out := &s3.ListObjectsV2Output{
		Contents:    objs,
		IsTruncated: aws.Bool(next != ""),
		KeyCount:    aws.Int32(int32(len(objs))),
	}
	if next != "" {
		out.NextContinuationToken = aws.String(next)
	}
	return out
}

func TestNewLoader_RequiresBucket(t *testing.T) {
	_, err := NewLoader(&fakeLister{}, storagemocks.NewObjectStore(t), storagemocks.NewListingTokenStore(t), LoaderOptions{})
	require.Error(t, err)
}

func TestNewLoader_ClampsPageSize(t *testing.T) {
	for _, size := range []int{0, -5, 5000} {
		l, err := NewLoader(&fakeLister{}, storagemocks.NewObjectStore(t), storagemocks.NewListingTokenStore(t),
			LoaderOptions{Bucket: "b", PageSize: size})
		require.NoError(t, err)
		assert.Equal(t, maxPageSize, l.opts.PageSize, "page size %d", size)
	}
}

func TestLoader_Load_AllPages(t *testing.T) {
	ctx := context.Background()
	lister := &fakeLister{pages: map[string]*s3.ListObjectsV2Output{
		"":   listPage("t1", listedObject("logs/a.log", 10), listedObject("logs/b.log", 20)),
		"t1": listPage("", listedObject("data/c.csv", 30)),
	}}

	store := storagemocks.NewObjectStore(t)
	store.EXPECT().
		SaveObjects(ctx, mock.MatchedBy(func(objs []*v1.ObjectRecord) bool {
			return len(objs) == 2 && objs[0].Key == "logs/a.log" && objs[0].Name == "a.log" &&
				objs[0].ModifiedEpoch == listedAt.Unix() && objs[0].StorageClass == "STANDARD"
		})).
		Return(2, nil).
		Once()
	store.EXPECT().
		SaveObjects(ctx, mock.MatchedBy(func(objs []*v1.ObjectRecord) bool {
			return len(objs) == 1 && objs[0].Key == "data/c.csv"
		})).
		Return(1, nil).
		Once()

	tokens := storagemocks.NewListingTokenStore(t)
	tokens.EXPECT().ReadListingToken(ctx, "bucket").Return("", nil).Once()
	tokens.EXPECT().WriteListingToken(ctx, "bucket", "t1").Return(nil).Once()

	l, err := NewLoader(lister, store, tokens, LoaderOptions{Bucket: "bucket", PageSize: 2})
	require.NoError(t, err)

	stats, err := l.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, LoadStats{Pages: 2, Listed: 3, Inserted: 3}, stats)
	assert.Equal(t, []string{"", "t1"}, lister.requested)
}

func TestLoader_Load_ResumesFromStoredToken(t *testing.T) {
	ctx := context.Background()
	lister := &fakeLister{pages: map[string]*s3.ListObjectsV2Output{
		"t1": listPage("", listedObject("data/c.csv", 30)),
	}}

	store := storagemocks.NewObjectStore(t)
	store.EXPECT().SaveObjects(ctx, mock.Anything).Return(0, nil).Once()

	tokens := storagemocks.NewListingTokenStore(t)
	tokens.EXPECT().ReadListingToken(ctx, "bucket").Return("t1", nil).Once()

	l, err := NewLoader(lister, store, tokens, LoaderOptions{Bucket: "bucket"})
	require.NoError(t, err)

	stats, err := l.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Pages)
	assert.Equal(t, 0, stats.Inserted)
	assert.Equal(t, []string{"t1"}, lister.requested)
}

func TestLoader_Load_SkipsIncompleteObjects(t *testing.T) {
	ctx := context.Background()
	noSize := listedObject("no-size", 0)
	noSize.Size = nil
	noClass := listedObject("no-class", 1)
	noClass.StorageClass = ""
	noTime := listedObject("no-time", 1)
	noTime.LastModified = nil

	lister := &fakeLister{pages: map[string]*s3.ListObjectsV2Output{
		"": listPage("", noSize, listedObject("ok.txt", 1), noClass, noTime),
	}}

	store := storagemocks.NewObjectStore(t)
	store.EXPECT().
		SaveObjects(ctx, mock.MatchedBy(func(objs []*v1.ObjectRecord) bool {
			return len(objs) == 1 && objs[0].Key == "ok.txt"
		})).
		Return(1, nil).
		Once()

	tokens := storagemocks.NewListingTokenStore(t)
	tokens.EXPECT().ReadListingToken(ctx, "bucket").Return("", nil).Once()

	l, err := NewLoader(lister, store, tokens, LoaderOptions{Bucket: "bucket"})
	require.NoError(t, err)

	stats, err := l.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, LoadStats{Pages: 1, Listed: 4, Inserted: 1, Skipped: 3}, stats)
}

func TestLoader_Load_StoreErrorKeepsToken(t *testing.T) {
	ctx := context.Background()
	lister := &fakeLister{pages: map[string]*s3.ListObjectsV2Output{
		"": listPage("t1", listedObject("a", 1)),
	}}

	store := storagemocks.NewObjectStore(t)
	store.EXPECT().SaveObjects(ctx, mock.Anything).Return(0, errors.New("connection reset")).Once()

	tokens := storagemocks.NewListingTokenStore(t)
	tokens.EXPECT().ReadListingToken(ctx, "bucket").Return("", nil).Once()

	l, err := NewLoader(lister, store, tokens, LoaderOptions{Bucket: "bucket"})
	require.NoError(t, err)

	_, err = l.Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist page 1")
	tokens.AssertNotCalled(t, "WriteListingToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoader_Load_ListError(t *testing.T) {
	ctx := context.Background()
	lister := &fakeLister{err: errors.New("access denied")}

	tokens := storagemocks.NewListingTokenStore(t)
	tokens.EXPECT().ReadListingToken(ctx, "bucket").Return("", nil).Once()

	l, err := NewLoader(lister, storagemocks.NewObjectStore(t), tokens, LoaderOptions{Bucket: "bucket"})
	require.NoError(t, err)

	_, err = l.Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list bucket page 1")
}

func TestLoader_Load_TokenReadError(t *testing.T) {
	ctx := context.Background()
	tokens := storagemocks.NewListingTokenStore(t)
	tokens.EXPECT().ReadListingToken(ctx, "bucket").Return("", errors.New("boom")).Once()

	l, err := NewLoader(&fakeLister{}, storagemocks.NewObjectStore(t), tokens, LoaderOptions{Bucket: "bucket"})
	require.NoError(t, err)

	_, err = l.Load(ctx)
	require.ErrorContains(t, err, "read listing token")
}
