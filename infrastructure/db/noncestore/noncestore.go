// Package noncestore remembers how far a nonce search got, so an interrupted
// search can be resumed instead of restarted.
package noncestore

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	ldbErrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/talkcoin/talkminer/domain/blockheader"
	"github.com/talkcoin/talkminer/domain/pow"
)

var (
	bucket = []byte("last-nonce/")

	// Options returns the leveldb options used to open a store. It's
	// defined as a variable for the sake of testing.
	Options = func() *opt.Options {
		return &opt.Options{
			Compression:            opt.NoCompression,
			DisableSeeksCompaction: true,
		}
	}
)

// Key identifies a search: the header without its nonce, and the target.
type Key [sha256.Size]byte

// KeyFor returns the key of searching header against target.
func KeyFor(header *blockheader.BlockHeader, target *pow.Target) Key {
	hasher := sha256.New()
	hasher.Write(header[:blockheader.NonceOffset])
	hasher.Write(target[:])
	var key Key
	copy(key[:], hasher.Sum(nil))
	return key
}

// Store is a thin wrapper around leveldb.
type Store struct {
	ldb *leveldb.DB
}

// Open opens the store at path, creating it if it doesn't exist.
func Open(path string) (*Store, error) {
	ldb, err := leveldb.OpenFile(path, Options())

	// If the database is corrupted, attempt to recover.
	if _, corrupted := err.(*ldbErrors.ErrCorrupted); corrupted {
		log.Warnf("LevelDB corruption detected for path %s: %s",
			path, err)
		ldb, err = leveldb.RecoverFile(path, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "could not recover nonce store %s", path)
		}
		log.Warnf("LevelDB recovered from corruption for path %s",
			path)
	}

	// If the database cannot be opened for any other
	// reason, return the error as-is.
	if err != nil {
		return nil, errors.Wrapf(err, "could not open nonce store %s", path)
	}

	return &Store{ldb: ldb}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.ldb.Close()
}

// LastNonce returns the last nonce recorded for key. found is false if
// nothing was recorded.
func (s *Store) LastNonce(key Key) (nonce uint32, found bool, err error) {
	value, err := s.ldb.Get(dbKey(key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, errors.Wrapf(err, "could not read last nonce of %x", key)
	}
	if len(value) != 4 {
		return 0, false, errors.Errorf("last nonce of %x has invalid length %d", key, len(value))
	}
	return binary.BigEndian.Uint32(value), true, nil
}

// SetLastNonce records nonce as the last nonce tried for key.
func (s *Store) SetLastNonce(key Key, nonce uint32) error {
	var value [4]byte
	binary.BigEndian.PutUint32(value[:], nonce)
	err := s.ldb.Put(dbKey(key), value[:], nil)
	if err != nil {
		return errors.Wrapf(err, "could not write last nonce of %x", key)
	}
	log.Tracef("Recorded last nonce %d for %x", nonce, key)
	return nil
}

// Delete forgets key. Deleting a missing key is not an error.
func (s *Store) Delete(key Key) error {
	err := s.ldb.Delete(dbKey(key), nil)
	if err != nil {
		return errors.Wrapf(err, "could not delete last nonce of %x", key)
	}
	return nil
}

func dbKey(key Key) []byte {
	return append(append([]byte{}, bucket...), key[:]...)
}
