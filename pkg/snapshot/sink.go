package snapshot

import (
	"bytes"
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/componenttree/internal/errors"
)

// Sink is the interface for snapshot storage backends.
type Sink interface {
	// Put stores data under name, replacing any previous object.
	Put(ctx context.Context, name string, data []byte) error
}

// FileSink stores snapshots in a local directory.
type FileSink struct {
	dir string
}

// NewFileSink creates a FileSink, creating dir if needed.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.New("S002").Wrap(err)
	}
	return &FileSink{dir: dir}, nil
}

// Dir returns the directory snapshots are written to.
func (s *FileSink) Dir() string {
	return s.dir
}

// Put writes data to dir/name.
func (s *FileSink) Put(_ context.Context, name string, data []byte) error {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return errors.New("S002").WithDetail("invalid snapshot name " + name)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0644); err != nil {
		return errors.New("S002").Wrap(err)
	}
	return nil
}

// S3PutObjectAPI is the subset of *s3.Client used by S3Sink.
type S3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink stores snapshots in an S3 bucket.
//
// Example usage:
//
//	client := snapshot.NewS3Client("eu-west-1", "")
//	sink := snapshot.NewS3Sink(client, "my-bucket", "trees/")
type S3Sink struct {
	client S3PutObjectAPI
	bucket string
	prefix string
}

// NewS3Sink creates a new S3 snapshot sink. prefix is prepended to object
// names as is.
func NewS3Sink(client S3PutObjectAPI, bucket, prefix string) *S3Sink {
	return &S3Sink{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Put uploads data to bucket/prefix+name.
func (s *S3Sink) Put(ctx context.Context, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.prefix + name),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return errors.New("S002").
			WithDetail("s3://" + s.bucket + "/" + s.prefix + name).
			Wrap(err)
	}
	return nil
}

// NewS3Client creates an S3 client from the standard AWS environment
// variables (AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, AWS_SESSION_TOKEN).
// endpoint selects an S3-compatible service and enables path-style
// addressing; empty means AWS.
func NewS3Client(region, endpoint string) *s3.Client {
	return s3.New(s3.Options{
		Region: region,
		Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{
				AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
				SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
				SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
				Source:          "environment",
			}, nil
		}),
		BaseEndpoint: nonEmpty(endpoint),
		UsePathStyle: endpoint != "",
	})
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}

// Target is a parsed snapshot destination.
type Target struct {
	// Bucket is set for s3:// targets.
	Bucket string

	// Prefix is the key prefix inside Bucket, ending in "/" when not empty.
	Prefix string

	// Dir is set for local directory targets.
	Dir string
}

// IsS3 reports whether the target is an S3 bucket.
func (t Target) IsS3() bool {
	return t.Bucket != ""
}

// String returns the target in the form accepted by ParseTarget.
func (t Target) String() string {
	if t.IsS3() {
		return "s3://" + t.Bucket + "/" + t.Prefix
	}
	return t.Dir
}

// ParseTarget parses "s3://bucket/prefix" or a directory path.
func ParseTarget(target string) (Target, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return Target{}, errors.New("S003").WithDetail("empty snapshot target")
	}
	if !strings.HasPrefix(target, "s3://") {
		if strings.Contains(target, "://") {
			return Target{}, errors.New("S003").
				WithDetail("unsupported scheme in " + target).
				WithSuggestion("Use a directory path or s3://bucket/prefix")
		}
		return Target{Dir: filepath.Clean(target)}, nil
	}

	u, err := url.Parse(target)
	if err != nil {
		return Target{}, errors.New("S003").Wrap(err)
	}
	if u.Host == "" {
		return Target{}, errors.New("S003").WithDetail("missing bucket in " + target)
	}
	prefix := strings.Trim(path.Clean("/"+u.Path), "/")
	if prefix != "" {
		prefix += "/"
	}
	return Target{Bucket: u.Host, Prefix: prefix}, nil
}

// Open parses target and returns the matching sink. client is used for s3
// targets; when nil, NewS3Client is called with AWS_REGION and
// AWS_ENDPOINT_URL from the environment.
func Open(target string, client S3PutObjectAPI) (Sink, error) {
	t, err := ParseTarget(target)
	if err != nil {
		return nil, err
	}
	if !t.IsS3() {
		return NewFileSink(t.Dir)
	}
	if client == nil {
		client = NewS3Client(os.Getenv("AWS_REGION"), os.Getenv("AWS_ENDPOINT_URL"))
	}
	return NewS3Sink(client, t.Bucket, t.Prefix), nil
}
