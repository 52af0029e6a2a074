package colfmt

// luhnCheckDigit returns the ASCII check digit that makes payload+digit pass the
// Luhn test. payload must contain ASCII digits only.
func luhnCheckDigit(payload []byte) byte {
	sum := 0
	double := true
	for i := len(payload) - 1; i >= 0; i-- {
		d := int(payload[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return byte('0' + (10-sum%10)%10)
}

// LuhnValid reports whether the digits of value pass the Luhn test. Non digit
// runes are ignored; values with fewer than two digits are never valid.
func LuhnValid(value string) bool {
	var digits []byte
	for _, r := range value {
		if isASCIIDigit(r) {
			digits = append(digits, byte(r))
		}
	}
	if len(digits) < 2 {
		return false
	}
	return luhnCheckDigit(digits[:len(digits)-1]) == digits[len(digits)-1]
}
