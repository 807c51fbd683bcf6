package normalizer

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed sample.json
var sampleRecords []byte

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ObjectGetter is the subset of the S3 client used to read input objects.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config selects the bucket endpoint. Credentials come from the default chain.
type S3Config struct {
	Region    string
	Endpoint  string
	PathStyle bool
}

// NewS3Client builds an S3 client from the default AWS configuration.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// Loader reads project records from the local filesystem, S3 or the
// built-in sample set.
type Loader struct {
	fs     afero.Fs
	s3     ObjectGetter
	logger *zap.Logger
}

// NewLoader returns a Loader. s3 may be nil when no s3:// inputs are used.
func NewLoader(fs afero.Fs, s3 ObjectGetter, logger *zap.Logger) *Loader {
	return &Loader{fs: fs, s3: s3, logger: logger.Named("loader")}
}

// Load reads and parses the records at location: a path, an s3://bucket/key
// URL, or "" for the built-in sample.
func (l *Loader) Load(ctx context.Context, location string) ([]ProjectRecord, error) {
	if location == "" {
		l.logger.Info("using built-in sample records")
		return Parse(sampleRecords, FormatJSON)
	}

	format, err := formatOf(location)
	if err != nil {
		return nil, err
	}

	var data []byte
	if bucket, key, ok := parseS3URL(location); ok {
		data, err = l.readS3(ctx, bucket, key)
	} else {
		data, err = afero.ReadFile(l.fs, location)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", location, err)
	}

	records, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", location, err)
	}
	l.logger.Info("loaded project records", zap.String("location", location), zap.Int("records", len(records)))
	return records, nil
}

func (l *Loader) readS3(ctx context.Context, bucket, key string) ([]byte, error) {
	if l.s3 == nil {
		return nil, fmt.Errorf("no S3 client configured")
	}
	out, err := l.s3.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

// Parse decodes a record list in the given format.
func Parse(data []byte, format Format) ([]ProjectRecord, error) {
	var records []ProjectRecord
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &records)
	case FormatYAML:
		err = yaml.Unmarshal(data, &records)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return records, nil
}

func formatOf(location string) (Format, error) {
	switch strings.ToLower(path.Ext(location)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, location)
	}
}

func parseS3URL(location string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(location, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}
