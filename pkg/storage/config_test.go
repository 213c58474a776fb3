package storage_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/medvision/pkg/storage"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{ConnectionString: "test-connection"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Provider != storage.ProviderAzure {
		t.Errorf("provider: got %s, want azure", cfg.Provider)
	}
	if cfg.ContainerName != "reports" {
		t.Errorf("container_name: got %s, want reports", cfg.ContainerName)
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_PROVIDER", "minio")
	t.Setenv("TEST_CONTAINER", "saved")
	t.Setenv("TEST_ENDPOINT", "localhost:9000")
	t.Setenv("TEST_ACCESS", "minioadmin")
	t.Setenv("TEST_SECRET", "minioadmin")
	t.Setenv("TEST_SSL", "true")

	env := &storage.Env{
		Provider:      "TEST_PROVIDER",
		ContainerName: "TEST_CONTAINER",
		Endpoint:      "TEST_ENDPOINT",
		AccessKey:     "TEST_ACCESS",
		SecretKey:     "TEST_SECRET",
		UseSSL:        "TEST_SSL",
	}

	cfg := storage.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Provider != storage.ProviderMinio {
		t.Errorf("provider: got %s, want minio", cfg.Provider)
	}
	if cfg.ContainerName != "saved" {
		t.Errorf("container_name: got %s, want saved", cfg.ContainerName)
	}
	if cfg.Endpoint != "localhost:9000" {
		t.Errorf("endpoint: got %s, want localhost:9000", cfg.Endpoint)
	}
	if !cfg.UseSSL {
		t.Error("use_ssl: got false, want true")
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr string
	}{
		{
			name:    "azure missing connection_string",
			cfg:     storage.Config{ContainerName: "docs"},
			wantErr: "connection_string required",
		},
		{
			name:    "minio missing endpoint",
			cfg:     storage.Config{Provider: "minio", AccessKey: "a", SecretKey: "s"},
			wantErr: "endpoint required",
		},
		{
			name:    "minio missing credentials",
			cfg:     storage.Config{Provider: "minio", Endpoint: "localhost:9000"},
			wantErr: "access_key and secret_key required",
		},
		{
			name:    "unknown provider",
			cfg:     storage.Config{Provider: "gcs"},
			wantErr: "unsupported provider",
		},
		{
			name: "valid minio",
			cfg:  storage.Config{Provider: "minio", Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := storage.Config{
		Provider:         "azure",
		ContainerName:    "reports",
		ConnectionString: "base-conn",
	}

	overlay := storage.Config{
		Provider: "minio",
		Endpoint: "minio:9000",
		UseSSL:   true,
	}
	base.Merge(&overlay)

	if base.ContainerName != "reports" {
		t.Errorf("container_name should remain reports, got %s", base.ContainerName)
	}
	if base.Provider != "minio" {
		t.Errorf("provider: got %s, want minio", base.Provider)
	}
	if base.Endpoint != "minio:9000" {
		t.Errorf("endpoint: got %s, want minio:9000", base.Endpoint)
	}
	if !base.UseSSL {
		t.Error("use_ssl should be set by overlay")
	}
}
