package jws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClaims struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
}

func TestJSONWebSigner_RoundTrip(t *testing.T) {
	t.Parallel()

	key := []byte("0123456789abcdef0123456789abcdef")
	signer, err := NewHS256Signer(key)
	require.NoError(t, err)

	in := testClaims{Subject: "3", Email: "john@edu.pucrs.br"}
	raw, err := signer.Marshal(in)
	require.NoError(t, err)

	var out testClaims
	require.NoError(t, signer.Unmarshal(raw, &out))
	assert.Equal(t, in, out)
}

func TestJSONWebSigner_BadSignature(t *testing.T) {
	t.Parallel()

	signer, err := NewHS256Signer([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	other, err := NewHS256Signer([]byte("ffffffffffffffffffffffffffffffff"))
	require.NoError(t, err)

	raw, err := signer.Marshal(testClaims{Subject: "3"})
	require.NoError(t, err)

	var out testClaims
	assert.Error(t, other.Unmarshal(raw, &out), "a token signed with a different key must not verify")
}

func TestJSONWebSigner_Garbage(t *testing.T) {
	t.Parallel()

	signer, err := NewHS256Signer([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	var out testClaims
	assert.Error(t, signer.Unmarshal([]byte("not-a-jwt"), &out))
}
