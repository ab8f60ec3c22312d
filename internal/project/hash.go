package project

import (
	"crypto/sha256"
	"fmt"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

// Combine строит хеш: H( content || dep1 || dep2 ... ).
// Порядок deps должен быть детерминированным.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Digest hashes the effective settings; any change invalidates cached migrations.
func (c *Config) Digest() (Digest, error) {
	data, err := c.Encode()
	if err != nil {
		return Digest{}, err
	}
	return sha256.Sum256(data), nil
}

func (d Digest) String() string {
	return fmt.Sprintf("%x", d[:])
}
