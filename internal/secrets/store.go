// Package secrets keeps API keys in a per-user file (0600) with AES-GCM
// obfuscation. Not a replacement for OS keychains but avoids plain-text config.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const fileName = "keys.json"

// SheetsKey names the Google Sheets API key.
const SheetsKey = "sheets"

// ErrNotFound is returned when no key is stored under the name.
var ErrNotFound = errors.New("key not found")

type secretFile struct {
	Keys map[string]string `json:"keys"` // name -> base64(ciphertext)
}

// Resolve looks the key up in the environment variable envName, then the key
// file, then falls back to configured. It returns "" when none is set.
func Resolve(name, envName, configured string) string {
	if envName != "" {
		if v := strings.TrimSpace(os.Getenv(envName)); v != "" {
			return v
		}
	}
	if v, err := FetchKey(name); err == nil && v != "" {
		return v
	}
	return strings.TrimSpace(configured)
}

func StoreKey(name, key string) error {
	if name = norm(name); name == "" {
		return fmt.Errorf("key name required")
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("key value required")
	}
	path, err := filePath()
	if err != nil {
		return err
	}
	sf, _ := load(path)
	if sf.Keys == nil {
		sf.Keys = map[string]string{}
	}
	ct, err := encrypt([]byte(key))
	if err != nil {
		return err
	}
	sf.Keys[name] = base64.StdEncoding.EncodeToString(ct)
	return save(path, sf)
}

func FetchKey(name string) (string, error) {
	if name = norm(name); name == "" {
		return "", fmt.Errorf("key name required")
	}
	path, err := filePath()
	if err != nil {
		return "", err
	}
	sf, err := load(path)
	if err != nil {
		return "", err
	}
	enc, ok := sf.Keys[name]
	if !ok {
		return "", ErrNotFound
	}
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", err
	}
	pt, err := decrypt(raw)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}

func DeleteKey(name string) error {
	if name = norm(name); name == "" {
		return fmt.Errorf("key name required")
	}
	path, err := filePath()
	if err != nil {
		return err
	}
	sf, err := load(path)
	if err != nil {
		return err
	}
	if _, ok := sf.Keys[name]; !ok {
		return ErrNotFound
	}
	delete(sf.Keys, name)
	return save(path, sf)
}

func filePath() (string, error) {
	dir := os.Getenv("SHEETDESK_KEYS_DIR")
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(base, "sheetdesk")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil { // restrict directory
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

func load(path string) (secretFile, error) {
	var sf secretFile
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return secretFile{}, nil
		}
		return sf, err
	}
	if err := json.Unmarshal(data, &sf); err != nil {
		return sf, err
	}
	return sf, nil
}

func save(path string, sf secretFile) error {
	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func norm(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

func masterKey() ([]byte, error) {
	user := os.Getenv("USER")
	base := fmt.Sprintf("sheetdesk-%s-%s", runtime.GOOS, user)
	hash := sha256.Sum256([]byte(base))
	return hash[:], nil
}

func encrypt(plain []byte) ([]byte, error) {
	key, err := masterKey()
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func decrypt(ciphertext []byte) ([]byte, error) {
	key, err := masterKey()
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce := ciphertext[:gcm.NonceSize()]
	body := ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}
