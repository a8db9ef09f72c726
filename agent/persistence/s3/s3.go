// Copyright 2024 Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License"). You may not
// use this file except in compliance with the License. A copy of the
// License is located at
//
// http://aws.amazon.com/apache2.0/
//
// or in the "license" file accompanying this file. This file is distributed
// on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND,
// either express or implied. See the License for the specific language governing
// permissions and limitations under the License.

// Package s3 implements the persistence service on an Amazon S3 bucket, one
// object per record.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/fpstore/fpagent/agent/log"
	"github.com/fpstore/fpagent/agent/persistence"
)

const (
	maxSizeMetadataKey = "Fpagent-Max-Size"
	contentType        = "application/json"
	// records are a few bytes; anything larger is not ours
	maxObjectSize = 1 << 20
)

// Config selects the bucket and the key prefix of the records.
type Config struct {
	Bucket   string
	Region   string
	Prefix   string
	Endpoint string
}

// Store is an S3 backed persistence service. S3 offers no create-if-absent
// in this SDK, so Create checks then puts.
type Store struct {
	log    log.T
	client s3iface.S3API
	bucket string
	prefix string
}

// Open builds an S3 client from the default credential chain.
func Open(log log.T, config Config) (*Store, error) {
	if config.Bucket == "" {
		return nil, errors.New("s3 bucket is not configured")
	}
	awsConfig := aws.NewConfig()
	if config.Region != "" {
		awsConfig = awsConfig.WithRegion(config.Region)
	}
	if config.Endpoint != "" {
		awsConfig = awsConfig.WithEndpoint(config.Endpoint).WithS3ForcePathStyle(true)
	}
	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create aws session: %w", err)
	}
	log.Infof("Using s3://%s/%s for fingerprint records", config.Bucket, config.Prefix)
	return New(log, s3.New(sess), config.Bucket, config.Prefix), nil
}

// New builds a store over an existing client.
func New(log log.T, client s3iface.S3API, bucket string, prefix string) *Store {
	return &Store{log: log, client: client, bucket: bucket, prefix: prefix}
}

func (s *Store) objectKey(key string) string {
	return path.Join(s.prefix, persistence.EncodeKey(key))
}

// Lookup downloads the object of key.
func (s *Store) Lookup(ctx context.Context, key string) persistence.Lookup {
	if err := persistence.ValidateKey(key); err != nil {
		return persistence.Failed(err)
	}
	record, err := s.get(ctx, key)
	if err != nil {
		return persistence.FromRead(nil, err)
	}
	return persistence.Found(record.Data)
}

// Create uploads an empty envelope if no object exists for key.
func (s *Store) Create(ctx context.Context, key string, maxSize int64) error {
	if err := persistence.ValidateKey(key); err != nil {
		return err
	}
	if err := persistence.ValidateSize(maxSize); err != nil {
		return err
	}

	exists, err := s.exists(ctx, key)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", persistence.ErrAlreadyExists, key)
	}
	return s.put(ctx, persistence.NewRecord(key, maxSize))
}

// Write uploads the envelope of key with new data.
func (s *Store) Write(ctx context.Context, key string, data []byte) error {
	if err := persistence.ValidateKey(key); err != nil {
		return err
	}
	record, err := s.get(ctx, key)
	if err != nil {
		return err
	}
	if err = record.Fill(data); err != nil {
		return err
	}
	return s.put(ctx, record)
}

// Delete removes the object of key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := persistence.ValidateKey(key); err != nil {
		return err
	}
	exists, err := s.exists(ctx, key)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", persistence.ErrNotFound, key)
	}
	if _, err = s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

func (s *Store) get(ctx context.Context, key string) (persistence.Record, error) {
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if isNotFound(err) {
		return persistence.Record{}, fmt.Errorf("%w: %s", persistence.ErrNotFound, key)
	}
	if err != nil {
		return persistence.Record{}, fmt.Errorf("failed to get %s: %w", key, err)
	}
	defer out.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(out.Body, maxObjectSize))
	if err != nil {
		return persistence.Record{}, fmt.Errorf("failed to read %s: %w", key, err)
	}
	record, err := persistence.DecodeRecord(raw)
	if err != nil {
		return persistence.Record{}, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return record, nil
}

func (s *Store) exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to head %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) put(ctx context.Context, record persistence.Record) error {
	encoded, err := record.Encode()
	if err != nil {
		return err
	}
	if _, err = s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(record.Key)),
		Body:        bytes.NewReader(encoded),
		ContentType: aws.String(contentType),
		Metadata: map[string]*string{
			maxSizeMetadataKey: aws.String(strconv.FormatInt(record.MaxSize, 10)),
		},
	}); err != nil {
		return fmt.Errorf("failed to put %s: %w", record.Key, err)
	}
	return nil
}

// isNotFound matches NoSuchKey from GetObject and the bare 404 of HeadObject.
func isNotFound(err error) bool {
	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		return false
	}
	return aerr.Code() == s3.ErrCodeNoSuchKey || aerr.Code() == "NotFound"
}
