package secrets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
)

// GCPFetcher resolves secret references against GCP Secret Manager.
// References may be a full resource name
// ("projects/P/secrets/S/versions/latest"), a resource name without a
// version (defaults to "latest"), or a bare secret name (resolved against
// the fetcher's project id).
type GCPFetcher struct {
	client    *secretmanager.Client
	projectID string
}

// NewGCPFetcher creates a Secret Manager-backed Fetcher, resolving the
// project id from the environment or, failing that, the GCP metadata
// server (so the same binary works unmodified on a GCP VM).
func NewGCPFetcher(ctx context.Context, opts ...option.ClientOption) (*GCPFetcher, error) {
	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create secret manager client: %w", err)
	}

	projectID, err := resolveProjectID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve GCP project id: %w", err)
	}

	return &GCPFetcher{client: client, projectID: projectID}, nil
}

func resolveProjectID(ctx context.Context) (string, error) {
	for _, env := range []string{"GOOGLE_CLOUD_PROJECT", "GCP_PROJECT", "GCLOUD_PROJECT"} {
		if v := os.Getenv(env); v != "" {
			return v, nil
		}
	}
	return metadataField(ctx, "project/project-id")
}

// FetchSecret retrieves a secret's latest (or pinned) version payload.
func (f *GCPFetcher) FetchSecret(ctx context.Context, ref string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req := &secretmanagerpb.AccessSecretVersionRequest{Name: f.normalize(ref)}
	result, err := f.client.AccessSecretVersion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to access secret version: %w", err)
	}
	return string(result.Payload.Data), nil
}

func (f *GCPFetcher) normalize(ref string) string {
	if strings.HasPrefix(ref, "projects/") && strings.Contains(ref, "/versions/") {
		return ref
	}
	if strings.HasPrefix(ref, "projects/") && strings.Contains(ref, "/secrets/") {
		return ref + "/versions/latest"
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", f.projectID, path.Base(ref))
}

func (f *GCPFetcher) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// metadataField fetches a single field from the GCP instance metadata server.
// Used only to resolve the project id when no env var is set; orcaspine does
// not provision or inspect VM instances, so the rest of the metadata surface
// the teacher exposed (instance status updates) is not carried over — see
// DESIGN.md.
func metadataField(ctx context.Context, field string) (string, error) {
	url := fmt.Sprintf("http://metadata.google.internal/computeMetadata/v1/%s", field)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create metadata request: %w", err)
	}
	req.Header.Set("Metadata-Flavor", "Google")

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch metadata field %s: %w", field, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("metadata server returned status %d for field %s", resp.StatusCode, field)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read metadata response: %w", err)
	}

	value := strings.TrimSpace(string(body))
	if value == "" {
		return "", fmt.Errorf("empty value for metadata field %s", field)
	}
	return value, nil
}
