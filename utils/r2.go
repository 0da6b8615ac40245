// utils/r2.go
package utils

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// R2Store keeps image blobs in a Cloudflare R2 bucket (S3 API) and serves
// them through the public CDN base URL.
type R2Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewR2Store builds the S3 client against the account's R2 endpoint.
func NewR2Store(accountID, accessKeyID, accessKeySecret, bucket, cdnBaseURL string) (*R2Store, error) {
	if cdnBaseURL == "" {
		cdnBaseURL = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, accessKeySecret, "",
		)),
		awsconfig.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID),
				}, nil
			}),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	return &R2Store{
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		baseURL: strings.TrimSuffix(cdnBaseURL, "/"),
	}, nil
}

// Save uploads the blob and returns its public CDN URL.
func (s *R2Store) Save(key string, r io.Reader, contentType string) (string, error) {
	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, r); err != nil {
		return "", fmt.Errorf("failed to read blob: %w", err)
	}

	_, err := s.client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        buf,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to R2: %w", err)
	}

	return s.baseURL + "/" + key, nil
}

func (s *R2Store) Delete(key string) error {
	_, err := s.client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

// DeletePrefix removes every object under prefix. Object stores have no
// empty directories, so deleting the keys is the whole of the cleanup.
func (s *R2Store) DeletePrefix(prefix string) error {
	objs, err := s.List(prefix)
	if err != nil {
		return err
	}
	for _, obj := range objs {
		if err := s.Delete(obj.Key); err != nil {
			return fmt.Errorf("failed to delete %s: %w", obj.Key, err)
		}
	}
	return nil
}

// List pages through ListObjectsV2 for the prefix.
func (s *R2Store) List(prefix string) ([]StoredObject, error) {
	var objs []StoredObject
	var token *string
	for {
		out, err := s.client.ListObjectsV2(context.TODO(), &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", prefix, err)
		}
		for _, obj := range out.Contents {
			so := StoredObject{Key: aws.ToString(obj.Key)}
			if obj.LastModified != nil {
				so.ModTime = *obj.LastModified
			}
			objs = append(objs, so)
		}
		if out.IsTruncated == nil || !*out.IsTruncated {
			return objs, nil
		}
		token = out.NextContinuationToken
	}
}

// KeyFromURL strips the CDN base off a URL returned by Save.
func (s *R2Store) KeyFromURL(url string) string {
	return strings.TrimPrefix(url, s.baseURL+"/")
}
