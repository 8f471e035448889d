package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	pass := []byte("correct horse")
	salt := []byte("fixed-salt-value")

	k1 := DeriveKey(pass, salt)
	k2 := DeriveKey(pass, salt)

	require.Len(t, k1, KeySize)
	assert.True(t, bytes.Equal(k1, k2), "same inputs must give the same key")
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	pass := []byte("correct horse")

	k1 := DeriveKey(pass, []byte("salt-1"))
	k2 := DeriveKey(pass, []byte("salt-2"))

	assert.False(t, bytes.Equal(k1, k2))
}

func TestMakeVerifier(t *testing.T) {
	k := DeriveKey([]byte("p"), NewSalt())
	assert.Equal(t, MakeVerifier(k), MakeVerifier(k))
	assert.NotEqual(t, MakeVerifier(k), MakeVerifier(append([]byte{1}, k[1:]...)))
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := DeriveKey([]byte("p"), NewSalt())
	plain := []byte(`{"contacts":[]}`)

	sealed, err := Seal(plain, key)
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "contacts")

	got, err := Open(sealed, key)
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestSeal_UsesFreshNonce(t *testing.T) {
	key := DeriveKey([]byte("p"), NewSalt())

	a, err := Seal([]byte("same"), key)
	require.NoError(t, err)
	b, err := Seal([]byte("same"), key)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestOpen_Errors(t *testing.T) {
	key := DeriveKey([]byte("p"), NewSalt())
	other := DeriveKey([]byte("q"), NewSalt())

	sealed, err := Seal([]byte("data"), key)
	require.NoError(t, err)

	_, err = Open(sealed, other)
	require.Error(t, err, "wrong key must fail authentication")

	_, err = Open([]byte{1, 2}, key)
	require.ErrorIs(t, err, ErrShortCiphertext)

	_, err = Seal([]byte("x"), []byte("short"))
	require.Error(t, err, "invalid key size")
}
