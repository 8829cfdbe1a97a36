package persistence

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"dnse-connect/internal/auth"
)

const tokenBucket = "tokens"

// TokenCache persists credentials between CLI invocations so a JWT obtained
// once is reused inside its validity window instead of logging in again.
type TokenCache struct {
	db *bolt.DB
}

// OpenTokenCache opens (or creates) the cache database at path.
func OpenTokenCache(path string) (*TokenCache, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open token cache: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(tokenBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &TokenCache{db: db}, nil
}

// Close closes the underlying database.
func (c *TokenCache) Close() error {
	return c.db.Close()
}

// Save stores the credential for a username.
func (c *TokenCache) Save(username string, cred auth.Credential) error {
	value, err := json.Marshal(cred)
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(tokenBucket))
		if b == nil {
			return fmt.Errorf("bucket %s not found", tokenBucket)
		}
		return b.Put([]byte(username), value)
	})
}

// Load returns the stored credential for a username. The second return is
// false when nothing usable is stored; an expired JWT counts as unusable and
// is dropped from the cache.
func (c *TokenCache) Load(username string) (auth.Credential, bool, error) {
	var value []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(tokenBucket))
		if b == nil {
			return fmt.Errorf("bucket %s not found", tokenBucket)
		}
		if v := b.Get([]byte(username)); v != nil {
			value = make([]byte, len(v))
			copy(value, v)
		}
		return nil
	})
	if err != nil || value == nil {
		return auth.Credential{}, false, err
	}

	var cred auth.Credential
	if err := json.Unmarshal(value, &cred); err != nil {
		return auth.Credential{}, false, nil
	}
	if cred.PrimaryExpired() {
		_ = c.Delete(username)
		return auth.Credential{}, false, nil
	}
	return cred, true, nil
}

// Delete removes the stored credential for a username.
func (c *TokenCache) Delete(username string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(tokenBucket))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(username))
	})
}
