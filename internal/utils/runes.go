package utils

import "unicode"

// IsWordRune reports whether a rune belongs in the input buffer: letters
// and digits accumulate, everything else is a delimiter of some kind.
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// IsSinhalaRune reports whether a rune is in the Sinhala Unicode block.
func IsSinhalaRune(r rune) bool {
	return r >= 0x0D80 && r <= 0x0DFF
}

// IsAsciiDigit reports whether a rune is 0-9.
func IsAsciiDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// IsOnlyDigits reports whether a string consists entirely of digits.
func IsOnlyDigits(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ContainsSinhala reports whether any rune is Sinhala script.
func ContainsSinhala(s string) bool {
	for _, r := range s {
		if IsSinhalaRune(r) {
			return true
		}
	}
	return false
}
