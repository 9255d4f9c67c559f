package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := NewTokenCodec(0, testLogger())

	names := []string{"Kosmetika", "Maishiy kimyo", "Other", "Bolalar uchun"}
	for _, name := range names {
		token := codec.Encode(name)
		require.Len(t, token, tokenLength)

		decoded, err := codec.Decode(token)
		require.NoError(t, err)
		assert.Equal(t, name, decoded)
	}
}

func TestTokenCodec_Deterministic(t *testing.T) {
	codec := NewTokenCodec(0, testLogger())

	first := codec.Encode("Kosmetika")
	second := codec.Encode("Kosmetika")
	assert.Equal(t, first, second)
	assert.Equal(t, 1, codec.Len())
}

func TestTokenCodec_EmptyNameFoldsToOther(t *testing.T) {
	codec := NewTokenCodec(0, testLogger())

	token := codec.Encode("")
	decoded, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "Other", decoded)
}

func TestTokenCodec_DecodeAfterReset(t *testing.T) {
	codec := NewTokenCodec(0, testLogger())

	token := codec.Encode("Kosmetika")
	codec.Reset()

	_, err := codec.Decode(token)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestTokenCodec_DecodeUnknownToken(t *testing.T) {
	codec := NewTokenCodec(0, testLogger())

	_, err := codec.Decode("deadbeef00")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestTokenCodec_TTLEviction(t *testing.T) {
	codec := NewTokenCodec(10*time.Millisecond, testLogger())

	token := codec.Encode("Kosmetika")
	time.Sleep(20 * time.Millisecond)

	_, err := codec.Decode(token)
	assert.ErrorIs(t, err, ErrTokenNotFound)
	assert.Equal(t, 0, codec.Len())
}

func TestTokenCodec_EncodeRefreshesExpiry(t *testing.T) {
	codec := NewTokenCodec(50*time.Millisecond, testLogger())

	token := codec.Encode("Kosmetika")
	time.Sleep(30 * time.Millisecond)
	codec.Encode("Kosmetika")
	time.Sleep(30 * time.Millisecond)

	decoded, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "Kosmetika", decoded)
}
