package config

import (
	"path/filepath"
	"testing"
)

func TestParseConnection(t *testing.T) {
	conn := ParseConnection("endpoint=play.min.io;access_key=AK;secret_key=SK;use_ssl=true")
	if conn.Endpoint != "play.min.io" || conn.AccessKey != "AK" || conn.SecretKey != "SK" || !conn.UseSSL {
		t.Fatalf("unexpected connection: %+v", conn)
	}

	conn = ParseConnection(" access_key = AK ; secret_key = SK ;; junk")
	if conn.AccessKey != "AK" || conn.SecretKey != "SK" {
		t.Fatalf("whitespace form: %+v", conn)
	}
	if conn.Endpoint != "" {
		t.Fatalf("endpoint should be empty, got %q", conn.Endpoint)
	}
}

func TestStorageConnectionMergesFileDefaults(t *testing.T) {
	t.Setenv(connectionEnvKey, "access_key=AK;secret_key=SK")

	cfg := Default()
	cfg.Storage.Endpoint = "minio.local:9000"
	cfg.Storage.UseSSL = true

	conn, err := cfg.StorageConnection()
	if err != nil {
		t.Fatalf("StorageConnection: %v", err)
	}
	if conn.Endpoint != "minio.local:9000" || !conn.UseSSL {
		t.Fatalf("endpoint fallback not applied: %+v", conn)
	}
}

func TestStorageConnectionRequiresSecret(t *testing.T) {
	t.Setenv(connectionEnvKey, "endpoint=minio.local:9000;access_key=AK")

	cfg := Default()
	if _, err := cfg.StorageConnection(); err == nil {
		t.Fatal("expected error for missing secret_key")
	}

	t.Setenv(connectionEnvKey, "")
	if _, err := cfg.StorageConnection(); err == nil {
		t.Fatal("expected error for unset connection env")
	}
}

func TestSetKeyAndLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(configDirEnvKey, dir)
	t.Setenv(apiURLEnvKey, "")
	t.Setenv(logLevelEnvKey, "")

	path := filepath.Join(dir, configFileName)
	if err := SetKey(path, "api_url", "http://127.0.0.1:9000"); err != nil {
		t.Fatalf("SetKey api_url: %v", err)
	}
	if err := SetKey(path, "storage.backend", "memory"); err != nil {
		t.Fatalf("SetKey storage.backend: %v", err)
	}
	if err := SetKey(path, "storage.use_ssl", "true"); err != nil {
		t.Fatalf("SetKey storage.use_ssl: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "http://127.0.0.1:9000" {
		t.Errorf("api_url: got %q", cfg.APIURL)
	}
	if cfg.Storage.Backend != BackendMemory {
		t.Errorf("storage.backend: got %q", cfg.Storage.Backend)
	}
	if !cfg.Storage.UseSSL {
		t.Error("storage.use_ssl: got false")
	}
}

func TestSetKeyRejectsUnknownAndInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, configFileName)

	if err := SetKey(path, "nonsense", "x"); err == nil {
		t.Fatal("expected error for unknown key")
	}
	if err := SetKey(path, "storage.backend", "carrier-pigeon"); err == nil {
		t.Fatal("expected error for invalid backend")
	}
	if err := SetKey(path, "storage.use_ssl", "maybe"); err == nil {
		t.Fatal("expected error for non-bool use_ssl")
	}
}

func TestGetCoversAllAllowedKeys(t *testing.T) {
	cfg := Default()
	for _, key := range AllowedKeys() {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("Get(%q): %v", key, err)
		}
	}
}
