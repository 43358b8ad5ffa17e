package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"hotel/config"
	"hotel/infras/otel"
	"hotel/shared/constant"
)

const (
	otelAttrObjectKey = "object_key"
	otelAttrBucket    = "bucket"
	region            = "auto"
)

var ErrUploadFailed = errors.New("failed to upload one or more files")

// Object describes a stored upload.
type Object struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type S3 interface {
	Upload(ctx context.Context, directory string, fileHeader *multipart.FileHeader) (Object, error)
	UploadBytes(ctx context.Context, directory, fileName, contentType string, data []byte) (Object, error)
	Delete(ctx context.Context, objectKey string) error
	KeyFromURL(url string) string
}

type s3Impl struct {
	client *s3.Client
	config *config.Config
	otel   otel.Otel
}

func New(cfg *config.Config, otl otel.Otel) S3 {
	provider := credentials.NewStaticCredentialsProvider(
		cfg.External.S3.AccessKeyID,
		cfg.External.S3.SecretAccessKey,
		constant.Empty,
	)

	awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(), awsConfig.WithCredentialsProvider(provider))
	if err != nil {
		log.Error().Err(err).Msg("Error loading AWS configuration")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.External.S3.APIEndpoint)
		o.UsePathStyle = true
		o.Region = region
	})

	return &s3Impl{
		client: client,
		config: cfg,
		otel:   otl,
	}
}

func (svc *s3Impl) Upload(ctx context.Context, directory string, fileHeader *multipart.FileHeader) (obj Object, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".Upload")
	defer scope.End()
	defer scope.TraceIfError(err)

	file, err := fileHeader.Open()
	if err != nil {
		return Object{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return Object{}, fmt.Errorf("failed to read file: %w", err)
	}

	contentType := fileHeader.Header.Get(constant.RequestHeaderContentType)

	return svc.put(ctx, directory, ObjectName(fileHeader.Filename), contentType, data)
}

func (svc *s3Impl) UploadBytes(ctx context.Context, directory, fileName, contentType string, data []byte) (obj Object, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".UploadBytes")
	defer scope.End()
	defer scope.TraceIfError(err)

	return svc.put(ctx, directory, fileName, contentType, data)
}

func (svc *s3Impl) Delete(ctx context.Context, objectKey string) (err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	bucket := svc.config.External.S3.BucketName
	scope.SetAttributes(map[string]any{
		otelAttrObjectKey: objectKey,
		otelAttrBucket:    bucket,
	})

	_, err = svc.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		log.Error().Err(err).Str("key", objectKey).Msg("failed to delete file from S3")

		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}

// KeyFromURL returns the object key of a URL produced by this store, or
// empty when the URL points elsewhere.
func (svc *s3Impl) KeyFromURL(url string) string {
	return keyFromURL(svc.config.External.S3.PublicDomain, url)
}

func (svc *s3Impl) put(ctx context.Context, directory, fileName, contentType string, data []byte) (Object, error) {
	bucket := svc.config.External.S3.BucketName
	key := path.Join(directory, fileName)

	_, err := svc.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return Object{}, fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return Object{
		URL:         strings.TrimSuffix(svc.config.External.S3.PublicDomain, "/") + "/" + key,
		Key:         key,
		ContentType: contentType,
		Size:        int64(len(data)),
	}, nil
}

func keyFromURL(publicDomain, url string) string {
	prefix := strings.TrimSuffix(publicDomain, "/") + "/"
	if publicDomain == constant.Empty || !strings.HasPrefix(url, prefix) {
		return constant.Empty
	}

	return strings.TrimPrefix(url, prefix)
}

// ObjectName gives an upload a collision-free name keeping its extension.
func ObjectName(original string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(original))
}

// UploadMany uploads every file concurrently and waits for all of them.
// Successful uploads are kept even when another file fails; the caller only
// learns that the batch failed.
func UploadMany(ctx context.Context, store S3, directory string, files []*multipart.FileHeader) ([]Object, error) {
	objects := make([]Object, len(files))

	var group errgroup.Group

	for idx, file := range files {
		group.Go(func() error {
			obj, err := store.Upload(ctx, directory, file)
			if err != nil {
				log.Error().Err(err).Str("file", file.Filename).Msg("failed to upload file")

				return err
			}

			objects[idx] = obj

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, ErrUploadFailed
	}

	return objects, nil
}

// DeleteURLs removes the objects behind urls, logging failures.
func DeleteURLs(ctx context.Context, store S3, urls ...string) {
	for _, url := range urls {
		key := store.KeyFromURL(url)
		if key == constant.Empty {
			continue
		}

		if err := store.Delete(ctx, key); err != nil {
			log.Error().Err(err).Str("url", url).Msg("failed to delete stored object")
		}
	}
}
