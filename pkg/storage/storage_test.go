package storage_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"testing"

	"github.com/JaimeStill/medvision/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func providers() map[string]*storage.Config {
	return map[string]*storage.Config{
		"azure": {
			Provider:         storage.ProviderAzure,
			ContainerName:    "reports",
			ConnectionString: azuriteConnString,
		},
		"minio": {
			Provider:      storage.ProviderMinio,
			ContainerName: "reports",
			Endpoint:      "127.0.0.1:9000",
			AccessKey:     "minioadmin",
			SecretKey:     "minioadmin",
			Region:        "us-east-1",
		},
	}
}

func TestNewReturnsSystem(t *testing.T) {
	for name, cfg := range providers() {
		t.Run(name, func(t *testing.T) {
			sys, err := storage.New(cfg, slog.Default())
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if sys == nil {
				t.Fatal("New() returned nil system")
			}
		})
	}
}

func TestNewInvalidConnectionString(t *testing.T) {
	cfg := &storage.Config{
		Provider:         storage.ProviderAzure,
		ContainerName:    "reports",
		ConnectionString: "not-a-connection-string",
	}

	if _, err := storage.New(cfg, slog.Default()); err == nil {
		t.Fatal("expected error for invalid connection string, got nil")
	}
}

func TestNewUnsupportedProvider(t *testing.T) {
	cfg := &storage.Config{Provider: "gcs", ContainerName: "reports"}

	if _, err := storage.New(cfg, slog.Default()); err == nil {
		t.Fatal("expected error for unsupported provider, got nil")
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", storage.ErrNotFound, http.StatusNotFound},
		{"empty key", storage.ErrEmptyKey, http.StatusBadRequest},
		{"invalid key", storage.ErrInvalidKey, http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("operation failed: %w", storage.ErrNotFound), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := storage.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestKeyValidation(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{"empty key", "", storage.ErrEmptyKey},
		{"path traversal", "reports/../secrets/key", storage.ErrInvalidKey},
		{"double dot in middle", "reports/..hidden/file.pdf", storage.ErrInvalidKey},
	}

	ctx := context.Background()

	for name, cfg := range providers() {
		sys, err := storage.New(cfg, slog.Default())
		if err != nil {
			t.Fatalf("%s: New() error = %v", name, err)
		}

		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				err := sys.Upload(ctx, tt.key, bytes.NewReader(nil), "application/pdf")
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Upload() error = %v, want %v", err, tt.wantErr)
				}

				_, err = sys.Download(ctx, tt.key)
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Download() error = %v, want %v", err, tt.wantErr)
				}

				err = sys.Delete(ctx, tt.key)
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Delete() error = %v, want %v", err, tt.wantErr)
				}

				_, err = sys.Exists(ctx, tt.key)
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Exists() error = %v, want %v", err, tt.wantErr)
				}
			})
		}
	}
}
