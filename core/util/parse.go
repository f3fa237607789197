package util

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// ErrUint256Range is returned when a number does not fit in 256 bits
var ErrUint256Range = errors.New("value does not fit in uint256")

// ParseUint256 parses a non-negative integer given as decimal or 0x-prefixed hex.
// Leading zeros in decimal input are not treated as an octal prefix.
func ParseUint256(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty number")
	}

	base, digits := 10, s
	if has0xPrefix(s) {
		base, digits = 16, s[2:]
	}
	if digits == "" || strings.ContainsAny(digits, "+-_") {
		return nil, errors.Errorf("invalid number %q", s)
	}

	v, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, errors.Errorf("invalid number %q", s)
	}
	if v.BitLen() > 256 {
		return nil, errors.WithStack(ErrUint256Range)
	}
	return v, nil
}

// ParseAddress parses a 20 byte hex address, rejecting anything else
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, errors.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

// ParseOptionalAddress treats an empty string as the zero address
func ParseOptionalAddress(s string) (common.Address, error) {
	if strings.TrimSpace(s) == "" {
		return common.Address{}, nil
	}
	return ParseAddress(s)
}

// ParseHexBytes decodes 0x-prefixed hex. Empty input and a bare "0x" decode to an empty slice.
func ParseHexBytes(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0x" || s == "0X" {
		return []byte{}, nil
	}
	if !has0xPrefix(s) {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid hex %q", s)
	}
	return b, nil
}

// ParseBytes32 decodes exactly 32 bytes of hex, empty input yields the zero word
func ParseBytes32(s string) ([32]byte, error) {
	var out [32]byte
	b, err := ParseHexBytes(s)
	if err != nil {
		return out, err
	}
	if len(b) == 0 {
		return out, nil
	}
	if len(b) != 32 {
		return out, errors.Errorf("expected 32 bytes, got %d", len(b))
	}
	copy(out[:], b)
	return out, nil
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
