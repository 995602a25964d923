package credstore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"

	interrors "github.com/pigmykit/go-agent-client/internal/errors"
)

const (
	saltLength     = 16
	pbkdf2Iters    = 100_000
	pbkdf2KeyBytes = 32
)

// FileStore persists credentials to a single AES-256-GCM encrypted file.
// Layout on disk: salt(16) || nonce || ciphertext, where the key is derived
// from the configured passphrase and the per-file salt.
type FileStore struct {
	path       string
	passphrase string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore writing to path, encrypting with
// passphrase. The parent directory is created on first Save.
func NewFileStore(path, passphrase string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("[NewFileStore] path is required")
	}
	if passphrase == "" {
		return nil, errors.New("[NewFileStore] passphrase is required")
	}
	return &FileStore{path: path, passphrase: passphrase}, nil
}

func (fs *FileStore) Save(s StoredSession) error {
	payload := map[string]string{
		KeyUser:      string(s.UserJSON),
		KeyTimestamp: strconv.FormatInt(s.Timestamp.UnixMilli(), 10),
		KeyToken:     s.Token,
	}
	plaintext, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "[Save] marshal payload")
	}

	sealed, err := fs.encrypt(plaintext)
	if err != nil {
		return errors.Wrap(err, "[Save] encrypt payload")
	}

	if err := os.MkdirAll(filepath.Dir(fs.path), 0o700); err != nil {
		return errors.Wrap(err, "[Save] create data directory")
	}

	// Write-then-rename so a crash mid-write cannot leave a torn file behind.
	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, sealed, 0o600); err != nil {
		return errors.Wrap(err, "[Save] write credentials file")
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		return errors.Wrap(err, "[Save] replace credentials file")
	}
	return nil
}

func (fs *FileStore) Load() (*StoredSession, error) {
	sealed, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[Load] read credentials file")
	}

	plaintext, err := fs.decrypt(sealed)
	if err != nil {
		return nil, interrors.Wrapf(interrors.ErrStorageCorrupt, "[Load] decrypt: %v", err)
	}

	var payload map[string]string
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return nil, interrors.Wrapf(interrors.ErrStorageCorrupt, "[Load] unmarshal: %v", err)
	}

	userJSON := payload[KeyUser]
	tsStr := payload[KeyTimestamp]
	token := payload[KeyToken]
	if userJSON == "" || tsStr == "" || token == "" {
		// Any missing key means no restorable session, not an error.
		return nil, nil
	}

	millis, err := strconv.ParseInt(tsStr, 10, 64)
	if err != nil {
		return nil, interrors.Wrapf(interrors.ErrStorageCorrupt, "[Load] parse timestamp %q", tsStr)
	}

	return &StoredSession{
		UserJSON:  []byte(userJSON),
		Token:     token,
		Timestamp: time.UnixMilli(millis),
	}, nil
}

func (fs *FileStore) Clear() error {
	err := os.Remove(fs.path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[Clear] remove credentials file")
	}
	return nil
}

func (fs *FileStore) encrypt(plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, "generate salt")
	}

	gcm, err := fs.aead(salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errors.Wrap(err, "generate nonce")
	}

	sealed := gcm.Seal(nil, nonce, plaintext, nil)
	out := make([]byte, 0, len(salt)+len(nonce)+len(sealed))
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, sealed...)
	return out, nil
}

func (fs *FileStore) decrypt(sealed []byte) ([]byte, error) {
	if len(sealed) < saltLength {
		return nil, errors.New("file too short")
	}
	salt := sealed[:saltLength]

	gcm, err := fs.aead(salt)
	if err != nil {
		return nil, err
	}

	rest := sealed[saltLength:]
	if len(rest) < gcm.NonceSize() {
		return nil, errors.New("file too short")
	}
	nonce, ciphertext := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.Wrap(err, "open ciphertext")
	}
	return plaintext, nil
}

func (fs *FileStore) aead(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(fs.passphrase), salt, pbkdf2Iters, pbkdf2KeyBytes, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "new cipher")
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(err, "new gcm")
	}
	return gcm, nil
}
