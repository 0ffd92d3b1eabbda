// Package units converts between base-unit integers and display amounts.
package units

import (
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
)

// DisplayPlaces is the number of fractional digits shown for balances.
const DisplayPlaces = 4

// ErrMalformedHex indicates a quantity that is not a 0x-prefixed hex integer.
var ErrMalformedHex = errors.New("malformed hex quantity")

//nolint:gochecknoglobals // Derived constant, big.Int has no const form
var weiPerEther = big.NewInt(params.Ether)

// ParseHexQuantity parses a 0x-prefixed hex integer.
// Digits may be any case and may carry leading zeros.
func ParseHexQuantity(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return nil, ErrMalformedHex
	}
	digits := s[2:]
	if digits == "" {
		return nil, ErrMalformedHex
	}
	for _, c := range digits {
		if !isHexDigit(c) {
			return nil, ErrMalformedHex
		}
	}

	n, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return nil, ErrMalformedHex
	}
	return n, nil
}

// HexToDecimalBalance converts a hex wei quantity to ether with exactly four
// fractional digits. Halves round away from zero.
//
//	HexToDecimalBalance("0xDE0B6B3A7640000") // "1.0000"
func HexToDecimalBalance(hexWei string) (string, error) {
	wei, err := ParseHexQuantity(hexWei)
	if err != nil {
		return "", err
	}
	return FormatFixed(wei, weiPerEther, DisplayPlaces), nil
}

// FormatFixed formats amount/unit with exactly places fractional digits.
func FormatFixed(amount, unit *big.Int, places int) string {
	if amount == nil {
		amount = new(big.Int)
	}
	return new(big.Rat).SetFrac(amount, unit).FloatString(places)
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
