package keyboard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	CallbackDataSeparator  = "|"
	CallbackDataLimitBytes = 64
)

// Callback uniques used on inline buttons.
const (
	CallbackCategory     = "CAT"
	CallbackProduct      = "PROD"
	CallbackAdd          = "ADD"
	CallbackCart         = "CART"
	CallbackCartView     = "CART|VIEW"
	CallbackCartCheckout = "CART|CHECKOUT"
	CallbackConfirmYes   = "confirm_yes"
	CallbackConfirmNo    = "confirm_no"
)

// EncodeCallback joins parts with the separator, enforcing Telegram's
// 64-byte callback data limit.
func EncodeCallback(parts ...string) (string, error) {
	payload := strings.Join(parts, CallbackDataSeparator)
	if payload == "" {
		return "", errors.New("callback data is empty")
	}
	if len(payload) > CallbackDataLimitBytes {
		return "", fmt.Errorf("callback data exceeds %d byte limit: got %d", CallbackDataLimitBytes, len(payload))
	}

	return payload, nil
}

// DecodeCallback splits callback data into its parts.
func DecodeCallback(data string) []string {
	if data == "" {
		return nil
	}
	return strings.Split(data, CallbackDataSeparator)
}

// EncodeCategoryPage builds CAT|<token>|<page> callback data.
func EncodeCategoryPage(token string, page int) (string, error) {
	if page < 0 {
		page = 0
	}
	return EncodeCallback(CallbackCategory, token, strconv.Itoa(page))
}

// DecodeCategoryPage parses CAT|<token>|<page> callback data. A malformed
// or missing page index falls back to the first page.
func DecodeCategoryPage(data string) (token string, page int, err error) {
	parts := DecodeCallback(data)
	if len(parts) != 3 || parts[0] != CallbackCategory {
		return "", 0, fmt.Errorf("malformed category callback: %q", data)
	}

	page, convErr := strconv.Atoi(parts[2])
	if convErr != nil || page < 0 {
		page = 0
	}

	return parts[1], page, nil
}

// EncodeProduct builds PROD|<sku> callback data.
func EncodeProduct(sku string) (string, error) {
	return EncodeCallback(CallbackProduct, sku)
}

// EncodeAdd builds ADD|<sku> callback data.
func EncodeAdd(sku string) (string, error) {
	return EncodeCallback(CallbackAdd, sku)
}

// DecodeSKU extracts the sku from PROD|<sku> or ADD|<sku> callback data.
func DecodeSKU(data string) (string, error) {
	parts := DecodeCallback(data)
	if len(parts) != 2 || (parts[0] != CallbackProduct && parts[0] != CallbackAdd) {
		return "", fmt.Errorf("malformed product callback: %q", data)
	}
	if parts[1] == "" {
		return "", fmt.Errorf("product callback without sku: %q", data)
	}

	return parts[1], nil
}
