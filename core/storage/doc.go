// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so log archiving can be
// tested with the mock in core/storage/mocks. Both AWS S3 and self-hosted MinIO work.
//
// # Operations
//
//   - BucketExists and MakeBucket: prepare the archive bucket.
//   - PutObject: uploads a log file.
//   - ListObjects: lists archived logs under a prefix.
//   - GetObject: streams an archived log back.
//   - RemoveObject: deletes an archived log.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
