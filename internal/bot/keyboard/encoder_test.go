package keyboard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCategoryPageRoundTrip(t *testing.T) {
	data, err := EncodeCategoryPage("a1b2c3d4e5", 3)
	require.NoError(t, err)
	assert.Equal(t, "CAT|a1b2c3d4e5|3", data)

	token, page, err := DecodeCategoryPage(data)
	require.NoError(t, err)
	assert.Equal(t, "a1b2c3d4e5", token)
	assert.Equal(t, 3, page)
}

func TestDecodeCategoryPageMalformedPageFallsBack(t *testing.T) {
	token, page, err := DecodeCategoryPage("CAT|a1b2c3d4e5|bogus")
	require.NoError(t, err)
	assert.Equal(t, "a1b2c3d4e5", token)
	assert.Equal(t, 0, page)

	token, page, err = DecodeCategoryPage("CAT|a1b2c3d4e5|-2")
	require.NoError(t, err)
	assert.Equal(t, "a1b2c3d4e5", token)
	assert.Equal(t, 0, page)
}

func TestDecodeCategoryPageRejectsWrongShape(t *testing.T) {
	_, _, err := DecodeCategoryPage("PROD|sku-1")
	assert.Error(t, err)

	_, _, err = DecodeCategoryPage("CAT|only-token")
	assert.Error(t, err)
}

func TestDecodeSKU(t *testing.T) {
	data, err := EncodeProduct("SKU-15")
	require.NoError(t, err)

	sku, err := DecodeSKU(data)
	require.NoError(t, err)
	assert.Equal(t, "SKU-15", sku)

	data, err = EncodeAdd("SKU-15")
	require.NoError(t, err)

	sku, err = DecodeSKU(data)
	require.NoError(t, err)
	assert.Equal(t, "SKU-15", sku)

	_, err = DecodeSKU("ADD|")
	assert.Error(t, err)
}

func TestEncodeCallbackEnforcesByteLimit(t *testing.T) {
	_, err := EncodeCallback(CallbackAdd, strings.Repeat("x", 70))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "64 byte limit")

	data, err := EncodeCallback(CallbackAdd, strings.Repeat("x", 60))
	require.NoError(t, err)
	assert.Len(t, data, 64)
}
