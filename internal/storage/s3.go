// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage provides an S3-compatible object storage client that
// issues pre-signed upload URLs for app icons. It wraps the AWS SDK v2 and
// is configured for path-style access so it works against CEPH, MinIO and
// Hetzner as well as AWS.
package storage

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Client wraps an S3 client for a single public bucket.
type Client struct {
	presigner *s3.PresignClient
	bucket    string
	endpoint  string
	publicURL string // optional CDN/direct URL for public files
}

// PresignedUpload is a signed PUT request the browser sends directly to
// the bucket. Header lists the headers that must accompany the body.
type PresignedUpload struct {
	URL    string
	Header http.Header
}

// New creates an S3 storage client with path-style addressing. Returns
// (nil, nil) if the bucket or credentials are empty, allowing the app to
// start without storage. An empty endpoint selects the AWS endpoint for
// region.
func New(endpoint, region, accessKey, secretKey, bucket, publicURL string) (*Client, error) {
	if bucket == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}
	if region == "" {
		return nil, fmt.Errorf("storage: region is required")
	}

	endpoint = strings.TrimRight(endpoint, "/")

	opts := s3.Options{
		Region:       region,
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	}
	if endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
	} else {
		endpoint = "https://s3." + region + ".amazonaws.com"
	}
	s3Client := s3.New(opts)

	return &Client{
		presigner: s3.NewPresignClient(s3Client),
		bucket:    bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// PresignUpload signs a PUT of key with the given content type. The object
// is created with a public-read ACL so FileURL serves it directly.
func (c *Client) PresignUpload(ctx context.Context, key, contentType string, expires time.Duration) (*PresignedUpload, error) {
	req, err := c.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return nil, fmt.Errorf("s3 presign put %s/%s: %w", c.bucket, key, err)
	}

	header := http.Header{}
	for name, values := range req.SignedHeader {
		// The browser sets Host itself.
		if strings.EqualFold(name, "Host") {
			continue
		}
		header[http.CanonicalHeaderKey(name)] = values
	}
	return &PresignedUpload{URL: req.URL, Header: header}, nil
}

// FileURL returns the public URL for an object in the bucket.
// Uses the configured public URL if set, otherwise builds a path-style URL.
func (c *Client) FileURL(key string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + key
	}
	return c.endpoint + "/" + c.bucket + "/" + key
}

// Bucket returns the name of the bucket.
func (c *Client) Bucket() string {
	return c.bucket
}
