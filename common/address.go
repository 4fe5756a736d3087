package common

import (
	"encoding/hex"
	"fmt"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

// NormalizeAddress parses raw into a 20 byte address. The 0x prefix is
// optional and hex digits may be in any case.
func NormalizeAddress(raw string) (ethcommon.Address, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	if len(s) != 2*ethcommon.AddressLength {
		return ethcommon.Address{}, fmt.Errorf("%w: %q is not %d bytes", ErrInvalidAddress, raw, ethcommon.AddressLength)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return ethcommon.Address{}, fmt.Errorf("%w: %q: %s", ErrInvalidAddress, raw, err)
	}
	return ethcommon.BytesToAddress(b), nil
}

// IsValidAddressSyntax is the non failing variant of NormalizeAddress, used to
// check pasted strings before doing anything with them.
func IsValidAddressSyntax(raw string) bool {
	_, err := NormalizeAddress(raw)
	return err == nil
}

// CanonicalAddress is the lowercase 0x prefixed form used for comparison and
// as storage key.
func CanonicalAddress(addr ethcommon.Address) string {
	return "0x" + hex.EncodeToString(addr.Bytes())
}

// AddressEqual compares two textual addresses ignoring case and prefix.
// Anything that doesn't parse is never equal to anything.
func AddressEqual(a, b string) bool {
	addrA, err := NormalizeAddress(a)
	if err != nil {
		return false
	}
	addrB, err := NormalizeAddress(b)
	if err != nil {
		return false
	}
	return addrA == addrB
}
