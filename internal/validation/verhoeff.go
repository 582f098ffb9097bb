// Package validation contains the pure input validators used by the
// document services: the Verhoeff identity-number checksum and the
// email/phone/password/file format checks. Everything here is free of
// side effects and safe for concurrent use.
package validation

// IdentityNumberLength is the required length of a national identity number.
const IdentityNumberLength = 12

// Standard Verhoeff tables: the dihedral group D5 multiplication table,
// the position permutation table (cycled mod 8), and the inverse table.
var (
	verhoeffD = [10][10]int{
		{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		{1, 2, 3, 4, 0, 6, 7, 8, 9, 5},
		{2, 3, 4, 0, 1, 7, 8, 9, 5, 6},
		{3, 4, 0, 1, 2, 8, 9, 5, 6, 7},
		{4, 0, 1, 2, 3, 9, 5, 6, 7, 8},
		{5, 9, 8, 7, 6, 0, 4, 3, 2, 1},
		{6, 5, 9, 8, 7, 1, 0, 4, 3, 2},
		{7, 6, 5, 9, 8, 2, 1, 0, 4, 3},
		{8, 7, 6, 5, 9, 3, 2, 1, 0, 4},
		{9, 8, 7, 6, 5, 4, 3, 2, 1, 0},
	}

	verhoeffP = [8][10]int{
		{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		{1, 5, 7, 6, 2, 8, 3, 0, 9, 4},
		{5, 8, 0, 3, 7, 9, 6, 1, 4, 2},
		{8, 9, 1, 6, 0, 4, 3, 5, 2, 7},
		{9, 4, 5, 3, 1, 2, 6, 8, 7, 0},
		{4, 2, 8, 6, 5, 7, 3, 9, 0, 1},
		{2, 7, 9, 3, 8, 0, 6, 4, 1, 5},
		{7, 0, 4, 6, 9, 1, 3, 2, 5, 8},
	}

	verhoeffInv = [10]int{0, 4, 3, 2, 1, 5, 6, 7, 8, 9}
)

// ValidateIdentityNumber reports whether value is a 12-digit numeric string
// whose Verhoeff checksum holds. Digits are folded in reverse order; the
// number is valid when the running checksum ends at zero.
func ValidateIdentityNumber(value string) bool {
	if len(value) != IdentityNumberLength {
		return false
	}
	c := 0
	for i := 0; i < len(value); i++ {
		ch := value[len(value)-1-i]
		if ch < '0' || ch > '9' {
			return false
		}
		c = verhoeffD[c][verhoeffP[i%8][ch-'0']]
	}
	return c == 0
}

// checkDigit computes the Verhoeff check digit for a numeric base string,
// so that base+digit passes ValidateIdentityNumber. Returns -1 when base
// contains a non-digit.
func checkDigit(base string) int {
	c := 0
	for i := 0; i < len(base); i++ {
		ch := base[len(base)-1-i]
		if ch < '0' || ch > '9' {
			return -1
		}
		c = verhoeffD[c][verhoeffP[(i+1)%8][ch-'0']]
	}
	return verhoeffInv[c]
}
