package lib

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"
)

const (
	barcodePrefix = "200"
	barcodeDigits = 10
)

// GenerateRandomToken generates a cryptographically secure random token
func GenerateRandomToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

// GenerateBarcode returns an in-store barcode: the "200" prefix followed by
// ten random digits.
func GenerateBarcode() (string, error) {
	var b strings.Builder
	b.Grow(len(barcodePrefix) + barcodeDigits)
	b.WriteString(barcodePrefix)

	ten := big.NewInt(10)
	for range barcodeDigits {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("failed to generate barcode: %w", err)
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}
