package storage

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/dmitrijs2005/cardkeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/cardkeeper/internal/common"
	"github.com/dmitrijs2005/cardkeeper/internal/cryptox"
)

// Codec transforms blobs on their way to and from the repository.
type Codec interface {
	Encode(plain []byte) ([]byte, error)
	Decode(stored []byte) ([]byte, error)
}

type plainCodec struct{}

func (plainCodec) Encode(b []byte) ([]byte, error) { return b, nil }
func (plainCodec) Decode(b []byte) ([]byte, error) { return b, nil }

// PlainCodec stores blobs unchanged.
func PlainCodec() Codec { return plainCodec{} }

type sealedCodec struct {
	key []byte
}

func (c sealedCodec) Encode(b []byte) ([]byte, error) {
	return cryptox.Seal(b, c.key)
}

func (c sealedCodec) Decode(b []byte) ([]byte, error) {
	plain, err := cryptox.Open(b, c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to unseal blob: %w", err)
	}
	return plain, nil
}

// OpenCodec returns PlainCodec when passphrase is empty. Otherwise it derives
// the sealing key from passphrase and the salt kept in repo, creating salt
// and verifier on first use. A passphrase that does not match the stored
// verifier yields common.ErrWrongPassphrase.
func OpenCodec(ctx context.Context, repo kv.Repository, passphrase string) (Codec, error) {
	if passphrase == "" {
		return PlainCodec(), nil
	}

	salt, err := repo.Get(ctx, common.SealSaltKey)
	if err != nil {
		return nil, err
	}

	if salt == nil {
		salt = cryptox.NewSalt()
		key := cryptox.DeriveKey([]byte(passphrase), salt)
		err := repo.SetMany(ctx, map[string][]byte{
			common.SealSaltKey:     salt,
			common.SealVerifierKey: cryptox.MakeVerifier(key),
		})
		if err != nil {
			return nil, err
		}
		return sealedCodec{key: key}, nil
	}

	verifier, err := repo.Get(ctx, common.SealVerifierKey)
	if err != nil {
		return nil, err
	}

	key := cryptox.DeriveKey([]byte(passphrase), salt)
	if subtle.ConstantTimeCompare(cryptox.MakeVerifier(key), verifier) != 1 {
		common.WipeByteArray(key)
		return nil, common.ErrWrongPassphrase
	}
	return sealedCodec{key: key}, nil
}
