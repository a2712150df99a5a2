package vault

import (
	"context"
	"testing"

	"clipkeep/internal/config"
)

func TestNewVaultFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     func(t *testing.T) config.VaultConfig
		wantErr bool
	}{
		{"memory vault", func(*testing.T) config.VaultConfig {
			return config.VaultConfig{Type: "memory", Name: "test-memory"}
		}, false},
		{"filesystem vault", func(t *testing.T) config.VaultConfig {
			return config.VaultConfig{Type: "filesystem", Name: "local", FSVaultRoot: t.TempDir()}
		}, false},
		{"filesystem vault without root", func(*testing.T) config.VaultConfig {
			return config.VaultConfig{Type: "filesystem", Name: "local"}
		}, true},
		{"s3 vault", func(*testing.T) config.VaultConfig {
			return config.VaultConfig{
				Type:              "s3",
				Name:              "cloud",
				S3Bucket:          "my-bucket",
				S3Region:          "us-east-1",
				S3AccessKeyID:     "AKIDEXAMPLE",
				S3SecretAccessKey: "secret",
			}
		}, false},
		{"s3 vault without bucket", func(*testing.T) config.VaultConfig {
			return config.VaultConfig{Type: "s3", Name: "cloud"}
		}, true},
		{"unknown vault type", func(*testing.T) config.VaultConfig {
			return config.VaultConfig{Type: "ftp", Name: "old"}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewVaultFromConfig(context.Background(), tt.cfg(t))
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewVaultFromConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && got != nil {
				t.Error("NewVaultFromConfig() should return nil on error")
			}
			if !tt.wantErr && got == nil {
				t.Error("NewVaultFromConfig() returned nil")
			}
		})
	}
}
