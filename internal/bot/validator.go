package bot

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mr-tron/base58"
)

// MaxInputLength bounds raw chat input before validation.
const MaxInputLength = 100

// Address length bounds in base58 characters.
const (
	MinAddressLength = 32
	MaxAddressLength = 44
	PubkeyLength     = 32 // decoded bytes
)

// ErrInvalidAddress is matched by every AddressError.
var ErrInvalidAddress = errors.New("invalid solana address")

// ErrInputTooLong is returned by Sanitize for oversized input.
var ErrInputTooLong = errors.New("input too long")

// AddressError describes why an address was rejected.
type AddressError struct {
	Reason string
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalidAddress, e.Reason)
}

// Is reports ErrInvalidAddress as a match.
func (e *AddressError) Is(target error) bool {
	return target == ErrInvalidAddress
}

// ValidateAddress checks that address is a base58 encoded 32-byte public key.
func ValidateAddress(address string) error {
	if address == "" {
		return &AddressError{Reason: "address is empty"}
	}
	if address != strings.TrimSpace(address) {
		return &AddressError{Reason: "address contains surrounding whitespace"}
	}

	n := utf8.RuneCountInString(address)
	if n < MinAddressLength || n > MaxAddressLength {
		return &AddressError{Reason: fmt.Sprintf("length %d, expected %d-%d", n, MinAddressLength, MaxAddressLength)}
	}

	decoded, err := base58.Decode(address)
	if err != nil {
		return &AddressError{Reason: "not valid base58"}
	}
	if len(decoded) != PubkeyLength {
		return &AddressError{Reason: fmt.Sprintf("decodes to %d bytes, expected %d", len(decoded), PubkeyLength)}
	}

	return nil
}

// Sanitize trims input, rejects oversized text and drops non-printable runes.
func Sanitize(input string) (string, error) {
	s := strings.TrimSpace(input)
	if utf8.RuneCountInString(s) > MaxInputLength {
		return "", ErrInputTooLong
	}

	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, s), nil
}
