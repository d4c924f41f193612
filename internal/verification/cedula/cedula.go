// Package cedula validates Ecuadorian national ID numbers (cédulas) using
// the official check-digit algorithm.
package cedula

// Valid reports whether the given string is a structurally valid cédula for
// a natural person: exactly 10 ASCII digits, province code 01-24, third
// digit below 6, and a correct module-10 check digit.
func Valid(id string) bool {
	if len(id) != 10 {
		return false
	}
	digits := make([]int, 10)
	for i := 0; i < 10; i++ {
		c := id[i]
		if c < '0' || c > '9' {
			return false
		}
		digits[i] = int(c - '0')
	}

	province := digits[0]*10 + digits[1]
	if province < 1 || province > 24 {
		return false
	}
	if digits[2] >= 6 {
		return false
	}

	coefficients := [9]int{2, 1, 2, 1, 2, 1, 2, 1, 2}
	sum := 0
	for i, coef := range coefficients {
		value := digits[i] * coef
		if value >= 10 {
			value -= 9
		}
		sum += value
	}
	check := (10 - sum%10) % 10

	return check == digits[9]
}
