package localstore

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"

	apperrors "github.com/Abitto-org/user-app/internal/errors"
)

const (
	storeFileName = "localstore.json"
	keyFileName   = "localstore.key"
)

// sealedKeys lists the keys whose values are encrypted at rest. The bearer
// token is a long-lived credential sitting in a plain file, so it never
// touches disk unsealed.
var sealedKeys = map[string]bool{
	KeyToken: true,
}

// FileStore persists the key-value document as a single JSON file under the
// data folder. Every Get re-reads the file and every Set/Delete rewrites it
// whole. The mutex serialises readers against writers in this process, and
// the rewrite goes through a rename so no observer ever sees a partial
// document.
type FileStore struct {
	path string
	aead sealBox
	lock sync.Mutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore opens (or initialises) the store under folder. The sealing
// key is generated on first run and kept next to the store file.
func NewFileStore(folder string) (*FileStore, error) {
	if err := os.MkdirAll(folder, 0o700); err != nil {
		return nil, apperrors.Wrapf(err, "[NewFileStore] creating data folder %q", folder)
	}

	box, err := loadOrCreateSealBox(filepath.Join(folder, keyFileName))
	if err != nil {
		return nil, apperrors.Wrapf(err, "[NewFileStore] sealing key")
	}

	return &FileStore{
		path: filepath.Join(folder, storeFileName),
		aead: box,
	}, nil
}

func (fs *FileStore) Get(key string) (string, error) {
	fs.lock.Lock()
	doc, err := fs.read()
	fs.lock.Unlock()
	if err != nil {
		return "", err
	}

	value, ok := doc[key]
	if !ok {
		return "", apperrors.ErrKeyNotFound
	}

	if sealedKeys[key] {
		return fs.aead.open(value)
	}
	return value, nil
}

func (fs *FileStore) Set(key, value string) error {
	if sealedKeys[key] {
		sealed, err := fs.aead.seal(value)
		if err != nil {
			return apperrors.Wrapf(err, "[FileStore Set] sealing %q", key)
		}
		value = sealed
	}

	fs.lock.Lock()
	defer fs.lock.Unlock()

	doc, err := fs.read()
	if err != nil {
		return err
	}
	doc[key] = value
	return fs.write(doc)
}

func (fs *FileStore) Delete(key string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	doc, err := fs.read()
	if err != nil {
		return err
	}
	if _, ok := doc[key]; !ok {
		return nil
	}
	delete(doc, key)
	return fs.write(doc)
}

func (fs *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, apperrors.Wrapf(err, "[FileStore read] %q", fs.path)
	}

	doc := map[string]string{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.Wrapf(err, "[FileStore read] parsing %q", fs.path)
	}
	return doc, nil
}

// write replaces the store file atomically: the document lands in a temp
// file in the same directory and is renamed over the store, so a crash or a
// concurrent reader never meets a truncated file.
func (fs *FileStore) write(doc map[string]string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return apperrors.Wrapf(err, "[FileStore write] encoding")
	}

	tmp, err := os.CreateTemp(filepath.Dir(fs.path), storeFileName+".tmp-")
	if err != nil {
		return apperrors.Wrapf(err, "[FileStore write] temp file")
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return apperrors.Wrapf(err, "[FileStore write] %q", tmp.Name())
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return apperrors.Wrapf(err, "[FileStore write] %q", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return apperrors.Wrapf(err, "[FileStore write] %q", tmp.Name())
	}
	if err := os.Rename(tmp.Name(), fs.path); err != nil {
		os.Remove(tmp.Name())
		return apperrors.Wrapf(err, "[FileStore write] replacing %q", fs.path)
	}
	return nil
}

// sealBox wraps a ChaCha20-Poly1305 AEAD with base64 framing so sealed
// values stay printable inside the JSON document.
type sealBox struct {
	key []byte
}

func loadOrCreateSealBox(path string) (sealBox, error) {
	key, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		key = make([]byte, chacha20poly1305.KeySize)
		if _, err := rand.Read(key); err != nil {
			return sealBox{}, err
		}
		if err := os.WriteFile(path, key, 0o600); err != nil {
			return sealBox{}, err
		}
		return sealBox{key: key}, nil
	}
	if err != nil {
		return sealBox{}, err
	}
	if len(key) != chacha20poly1305.KeySize {
		return sealBox{}, apperrors.ErrSealedValue
	}
	return sealBox{key: key}, nil
}

func (b sealBox) seal(plaintext string) (string, error) {
	aead, err := chacha20poly1305.NewX(b.key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (b sealBox) open(value string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", apperrors.ErrSealedValue
	}

	aead, err := chacha20poly1305.NewX(b.key)
	if err != nil {
		return "", err
	}
	if len(raw) < aead.NonceSize() {
		return "", apperrors.ErrSealedValue
	}

	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", apperrors.ErrSealedValue
	}
	return string(plaintext), nil
}
