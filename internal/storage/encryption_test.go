package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestEncryptDecryptData(t *testing.T) {
	tests := []struct {
		name      string
		plaintext string
		password  string
	}{
		{
			name:      "simple text",
			plaintext: "Hello, World!",
			password:  "test-password",
		},
		{
			name:      "empty string",
			plaintext: "",
			password:  "test-password",
		},
		{
			name:      "long data",
			plaintext: string(make([]byte, 10000)),
			password:  "secure-password-123",
		},
		{
			name:      "special characters",
			plaintext: "Atelier with 中文 and émojis 🎨",
			password:  "pássword-with-spëcial",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultEncryptionConfig(tt.password)

			encrypted, err := EncryptData([]byte(tt.plaintext), config)
			if err != nil {
				t.Fatalf("EncryptData() error = %v", err)
			}

			if bytes.Equal(encrypted, []byte(tt.plaintext)) {
				t.Error("Encrypted data should differ from plaintext")
			}

			decrypted, err := DecryptData(encrypted, config)
			if err != nil {
				t.Fatalf("DecryptData() error = %v", err)
			}

			if string(decrypted) != tt.plaintext {
				t.Errorf("Decrypted data = %q, want %q", string(decrypted), tt.plaintext)
			}
		})
	}
}

func TestDecryptDataWrongPassword(t *testing.T) {
	encrypted, err := EncryptData([]byte("secret message"), DefaultEncryptionConfig("correct-password"))
	if err != nil {
		t.Fatalf("EncryptData() error = %v", err)
	}

	if _, err := DecryptData(encrypted, DefaultEncryptionConfig("wrong-password")); err == nil {
		t.Error("DecryptData() with wrong password should fail")
	}
}

func TestEncryptDataNoPassword(t *testing.T) {
	if _, err := EncryptData([]byte("data"), nil); err == nil {
		t.Error("EncryptData() with nil config should fail")
	}
	if _, err := EncryptData([]byte("data"), DefaultEncryptionConfig("")); err == nil {
		t.Error("EncryptData() with empty password should fail")
	}
}

func TestDecryptDataCorrupted(t *testing.T) {
	config := DefaultEncryptionConfig("password")

	encrypted, err := EncryptData([]byte("payload"), config)
	if err != nil {
		t.Fatalf("EncryptData() error = %v", err)
	}

	// Flip a ciphertext byte; GCM must refuse it.
	encrypted[len(encrypted)-1] ^= 0xff
	if _, err := DecryptData(encrypted, config); err == nil {
		t.Error("DecryptData() of tampered data should fail")
	}

	if _, err := DecryptData([]byte("short"), config); err == nil {
		t.Error("DecryptData() of truncated data should fail")
	}
}

func TestEncryptDecryptFile(t *testing.T) {
	tmpDir := t.TempDir()
	sourcePath := filepath.Join(tmpDir, "plain.db")
	encPath := filepath.Join(tmpDir, "plain.db.enc")
	outPath := filepath.Join(tmpDir, "restored.db")

	content := []byte("database bytes go here")
	if err := os.WriteFile(sourcePath, content, 0o644); err != nil {
		t.Fatalf("Failed to write source file: %v", err)
	}

	config := DefaultEncryptionConfig("file-password")
	if err := EncryptFile(sourcePath, encPath, config); err != nil {
		t.Fatalf("EncryptFile() error = %v", err)
	}

	encData, err := os.ReadFile(encPath)
	if err != nil {
		t.Fatalf("Failed to read encrypted file: %v", err)
	}
	if !bytes.HasPrefix(encData, []byte(EncryptionMagicHeader)) {
		t.Error("Encrypted file should start with the magic header")
	}

	if err := DecryptFile(encPath, outPath, config); err != nil {
		t.Fatalf("DecryptFile() error = %v", err)
	}

	restored, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Failed to read restored file: %v", err)
	}
	if !bytes.Equal(restored, content) {
		t.Errorf("Restored content = %q, want %q", restored, content)
	}
}

func TestDecryptFileNotEncrypted(t *testing.T) {
	tmpDir := t.TempDir()
	plainPath := filepath.Join(tmpDir, "plain.db")
	if err := os.WriteFile(plainPath, []byte("just a plain file with some length"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	err := DecryptFile(plainPath, filepath.Join(tmpDir, "out.db"), DefaultEncryptionConfig("pw"))
	if err == nil {
		t.Error("DecryptFile() of an unencrypted file should fail")
	}
}

func TestIsEncrypted(t *testing.T) {
	tmpDir := t.TempDir()

	plainPath := filepath.Join(tmpDir, "plain.db")
	if err := os.WriteFile(plainPath, []byte("plain database content"), 0o644); err != nil {
		t.Fatalf("Failed to write plain file: %v", err)
	}

	encPath := filepath.Join(tmpDir, "enc.db")
	if err := EncryptFile(plainPath, encPath, DefaultEncryptionConfig("pw")); err != nil {
		t.Fatalf("EncryptFile() error = %v", err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "plain file", path: plainPath, want: false},
		{name: "encrypted file", path: encPath, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IsEncrypted(tt.path)
			if err != nil {
				t.Fatalf("IsEncrypted() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("IsEncrypted() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := IsEncrypted(filepath.Join(tmpDir, "missing.db")); err == nil {
		t.Error("IsEncrypted() of a missing file should fail")
	}
}

func TestEncryptionNotDeterministic(t *testing.T) {
	config := DefaultEncryptionConfig("password")
	plaintext := []byte("same input")

	first, err := EncryptData(plaintext, config)
	if err != nil {
		t.Fatalf("EncryptData() error = %v", err)
	}
	second, err := EncryptData(plaintext, config)
	if err != nil {
		t.Fatalf("EncryptData() error = %v", err)
	}

	// Fresh salt and nonce every call.
	if bytes.Equal(first, second) {
		t.Error("Two encryptions of the same input should not match")
	}
}
