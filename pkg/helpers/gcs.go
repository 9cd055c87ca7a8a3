package helpers

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// NewGCSClient creates a Cloud Storage client and confirms bucket is
// reachable. If credsPath is empty, Application Default Credentials are used.
func NewGCSClient(ctx context.Context, credsPath, bucket string) (*storage.Client, error) {
	var opts []option.ClientOption
	if credsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credsPath))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := client.Bucket(bucket).Attrs(c); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("gcs bucket %q: %w", bucket, err)
	}
	return client, nil
}
