package hashio

import (
	"bytes"
	"crypto/sha1" //nolint
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
	"io/fs"
	"sync"
)

type HashFunc func([]byte) ([]byte, error)

var ErrHashFuncNotFound = errors.New("hash func not found")

func HashSumFunc(hasher func() hash.Hash) HashFunc {
	return func(in []byte) ([]byte, error) {
		h := hasher()
		if _, err := h.Write(in); err != nil {
			return nil, fmt.Errorf("%T(hashfile.Hash) write: %w", h, err)
		}

		return h.Sum(nil), nil
	}
}

func SHA1HashFunc() HashFunc {
	return HashSumFunc(sha1.New)
}

func SHA256HashFunc() HashFunc {
	return HashSumFunc(sha256.New)
}

// FileDigest remembers the digest of a file accepted last and detects content changes
type FileDigest struct {
	fsys     fs.FS
	name     string
	hashFunc HashFunc

	mtx      sync.Mutex
	accepted []byte
}

func NewFileDigest(fsys fs.FS, name string, hashFunc HashFunc) *FileDigest {
	return &FileDigest{fsys: fsys, name: name, hashFunc: hashFunc}
}

func (d *FileDigest) Name() string {
	return d.name
}

// Read reads the file and reports whether its digest differs from the accepted one. The digest
// becomes the accepted one only after Accept.
func (d *FileDigest) Read() (content, sum []byte, changed bool, err error) {
	if d.hashFunc == nil {
		return nil, nil, false, ErrHashFuncNotFound
	}

	content, err = fs.ReadFile(d.fsys, d.name)
	if err != nil {
		return nil, nil, false, fmt.Errorf("read file %s: %w", d.name, err)
	}

	sum, err = d.hashFunc(content)
	if err != nil {
		return nil, nil, false, fmt.Errorf("call HashFunc: %w", err)
	}

	d.mtx.Lock()
	defer d.mtx.Unlock()

	return content, sum, !bytes.Equal(sum, d.accepted), nil
}

func (d *FileDigest) Accept(sum []byte) {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	d.accepted = sum
}
