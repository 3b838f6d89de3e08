package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	obserrors "github.com/vango-dev/observer/internal/errors"
)

// ErrNotFound is returned when no snapshot is stored under a key.
var ErrNotFound = errors.New("snapshot: not found")

// Store is the interface for snapshot storage backends.
type Store interface {
	// Put stores data under key, replacing any previous value.
	Put(ctx context.Context, key string, data []byte) error

	// Get returns the data stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
}

func storeError(op string, err error) error {
	return obserrors.New(obserrors.CodeSnapshotStore).WithOp(op).Wrap(err)
}

// cleanKey rejects keys that would escape the store's root.
func cleanKey(op, key string) (string, error) {
	clean := path.Clean(strings.TrimPrefix(key, "/"))
	if key == "" || clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", obserrors.New(obserrors.CodeSnapshotStore).
			WithOp(op).
			WithDetail(fmt.Sprintf("invalid snapshot key %q", key))
	}
	return clean, nil
}

// DirStore keeps snapshots as files in a directory.
type DirStore struct {
	dir string
}

// NewDirStore creates the directory if needed.
func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, storeError("snapshot.NewDirStore", err)
	}
	return &DirStore{dir: dir}, nil
}

// Dir returns the store directory.
func (s *DirStore) Dir() string {
	return s.dir
}

// Put writes data atomically: a temp file is renamed over the target.
func (s *DirStore) Put(_ context.Context, key string, data []byte) error {
	key, err := cleanKey("snapshot.DirStore.Put", key)
	if err != nil {
		return err
	}
	target := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return storeError("snapshot.DirStore.Put", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".snapshot-*")
	if err != nil {
		return storeError("snapshot.DirStore.Put", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return storeError("snapshot.DirStore.Put", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return storeError("snapshot.DirStore.Put", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return storeError("snapshot.DirStore.Put", err)
	}
	return nil
}

// Get reads the file stored under key.
func (s *DirStore) Get(_ context.Context, key string) ([]byte, error) {
	key, err := cleanKey("snapshot.DirStore.Get", key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, filepath.FromSlash(key)))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeError("snapshot.DirStore.Get", err)
	}
	return data, nil
}

// S3API is the subset of *s3.Client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store keeps snapshots as objects in an S3 bucket.
//
// Example usage:
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	store := snapshot.NewS3Store(s3.NewFromConfig(cfg), "my-bucket", "thermostat/")
type S3Store struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Store creates a store over client. Keys are prefixed with prefix.
func NewS3Store(client S3API, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

// NewS3StoreFromEnv builds an S3 client from the default AWS credential
// chain. An empty region keeps the chain's region.
func NewS3StoreFromEnv(ctx context.Context, bucket, prefix, region string) (*S3Store, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, storeError("snapshot.NewS3StoreFromEnv", err)
	}
	return NewS3Store(s3.NewFromConfig(cfg), bucket, prefix), nil
}

func (s *S3Store) objectKey(op, key string) (string, error) {
	key, err := cleanKey(op, key)
	if err != nil {
		return "", err
	}
	return s.prefix + key, nil
}

// Put uploads data under key.
func (s *S3Store) Put(ctx context.Context, key string, data []byte) error {
	objKey, err := s.objectKey("snapshot.S3Store.Put", key)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType(key)),
	})
	if err != nil {
		return storeError("snapshot.S3Store.Put", fmt.Errorf("s3 upload failed: %w", err))
	}
	return nil
}

// Get downloads the object stored under key.
func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	objKey, err := s.objectKey("snapshot.S3Store.Get", key)
	if err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objKey),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrNotFound
		}
		return nil, storeError("snapshot.S3Store.Get", fmt.Errorf("s3 download failed: %w", err))
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, storeError("snapshot.S3Store.Get", err)
	}
	return data, nil
}

func contentType(key string) string {
	if path.Ext(key) == CBOR.Extension() {
		return "application/cbor"
	}
	return "application/json"
}
