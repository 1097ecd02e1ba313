package scenario

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/dynbind/internal/errors"
)

// Source loads scenarios by location.
type Source interface {
	Load(ctx context.Context, location string) (*Scenario, error)
}

// FileSource loads scenarios from the local filesystem.
type FileSource struct{}

// Load reads and parses the file at path.
func (FileSource) Load(_ context.Context, path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New("S003").WithDetail(path).Wrap(err)
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		return nil, atLocation(err, path)
	}
	return s, nil
}

// S3GetObjectAPI is the subset of the S3 client used by S3Source.
type S3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source loads scenarios stored as S3 objects.
type S3Source struct {
	client S3GetObjectAPI
}

// NewS3Source creates a source backed by client.
func NewS3Source(client S3GetObjectAPI) *S3Source {
	return &S3Source{client: client}
}

// Load fetches and parses the object at an s3://bucket/key location.
func (s *S3Source) Load(ctx context.Context, location string) (*Scenario, error) {
	bucket, key, err := ParseS3URL(location)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.New("S003").WithDetail(location).Wrap(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.New("S003").WithDetail(location).Wrap(err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, atLocation(err, location)
	}
	return sc, nil
}

// atLocation prefixes the detail of a parse error with where it came from.
func atLocation(err error, location string) error {
	e := errors.FromError(err, "S001")
	if e.Detail == "" {
		return e.WithDetail(location)
	}
	return e.WithDetailf("%s: %s", location, e.Detail)
}

// ParseS3URL splits s3://bucket/key into its bucket and key.
func ParseS3URL(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, "s3://")
	if !ok {
		return "", "", errors.New("S003").WithDetailf("%q is not an s3:// location", location)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", errors.New("S003").WithDetailf("%q needs a bucket and a key", location)
	}
	return bucket, key, nil
}

// Loader picks a source by location: s3:// locations go to S3, everything
// else is read from disk.
type Loader struct {
	Files FileSource
	S3    Source
}

// Load loads the scenario at location.
func (l *Loader) Load(ctx context.Context, location string) (*Scenario, error) {
	if strings.HasPrefix(location, "s3://") {
		if l.S3 == nil {
			return nil, errors.New("S003").
				WithDetail(location).
				WithSuggestion("Configure the s3 section of dynbind.json")
		}
		return l.S3.Load(ctx, location)
	}
	return l.Files.Load(ctx, location)
}

// S3Options configures NewS3Client.
type S3Options struct {
	Region       string
	Endpoint     string
	UsePathStyle bool
}

// NewS3Client builds an S3 client. Credentials come from AWS_ACCESS_KEY_ID
// and AWS_SECRET_ACCESS_KEY when set; otherwise requests are anonymous.
func NewS3Client(opts S3Options) *s3.Client {
	o := s3.Options{
		Region:       opts.Region,
		UsePathStyle: opts.UsePathStyle,
		Credentials:  envCredentials(),
	}
	if opts.Endpoint != "" {
		o.BaseEndpoint = aws.String(opts.Endpoint)
	}
	return s3.New(o)
}

func envCredentials() aws.CredentialsProvider {
	id := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.AnonymousCredentials{}
	}
	token := os.Getenv("AWS_SESSION_TOKEN")
	return aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    token,
			Source:          "environment",
		}, nil
	})
}
