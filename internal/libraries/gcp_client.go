package libraries

import (
	"context"
	"encoding/base64"
	"fmt"

	"cloud.google.com/go/auth"
	"cloud.google.com/go/auth/credentials"
	"cloud.google.com/go/storage"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// DecodeServiceAccount decodes the base64 service account JSON. An empty
// value means application default credentials.
func DecodeServiceAccount(encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode service account json: %w", err)
	}
	return decoded, nil
}

// NewStorageClient creates a GCS client from the service account JSON, or
// from application default credentials when saJSON is empty.
func NewStorageClient(ctx context.Context, saJSON []byte) (*storage.Client, error) {
	var opts []option.ClientOption
	if len(saJSON) > 0 {
		creds, err := google.CredentialsFromJSON(ctx, saJSON, storage.ScopeReadWrite)
		if err != nil {
			return nil, fmt.Errorf("CredentialsFromJSON: %w", err)
		}
		opts = append(opts, option.WithCredentials(creds))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	return client, nil
}

// VertexCredentials builds the credentials the genai Vertex backend expects.
// It returns nil for empty input so the SDK falls back to default credentials.
func VertexCredentials(saJSON []byte) (*auth.Credentials, error) {
	if len(saJSON) == 0 {
		return nil, nil
	}
	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		CredentialsJSON: saJSON,
		Scopes:          []string{cloudPlatformScope},
	})
	if err != nil {
		return nil, fmt.Errorf("vertex credentials: %w", err)
	}
	return creds, nil
}

// StorageClientFactory defers client creation until a gs:// source asks for it
func StorageClientFactory(encodedServiceAccount string) func(ctx context.Context) (*storage.Client, error) {
	return func(ctx context.Context) (*storage.Client, error) {
		saJSON, err := DecodeServiceAccount(encodedServiceAccount)
		if err != nil {
			return nil, err
		}
		return NewStorageClient(ctx, saJSON)
	}
}
