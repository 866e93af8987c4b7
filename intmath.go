package ratexpr

import "math"

// add64 returns a+b and whether it did not overflow.
func add64(a, b int64) (int64, bool) {
	c := a + b
	if (b > 0 && c < a) || (b < 0 && c > a) {
		return 0, false
	}
	return c, true
}

// sub64 returns a-b and whether it did not overflow.
func sub64(a, b int64) (int64, bool) {
	c := a - b
	if (b > 0 && c > a) || (b < 0 && c < a) {
		return 0, false
	}
	return c, true
}

// mul64 returns a*b and whether it did not overflow.
func mul64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	c := a * b
	if (c < 0) != ((a < 0) != (b < 0)) || c/b != a {
		return 0, false
	}
	return c, true
}

// neg64 returns -a and whether it did not overflow.
func neg64(a int64) (int64, bool) {
	if a == math.MinInt64 {
		return 0, false
	}
	return -a, true
}

// uabs returns |a| without overflowing on math.MinInt64.
func uabs(a int64) uint64 {
	if a < 0 {
		return uint64(-(a + 1)) + 1
	}
	return uint64(a)
}

// gcd returns the greatest common divisor of |a| and b. b must be positive, so
// the result always fits.
func gcd(a, b int64) int64 {
	if b <= 0 {
		panic("ratexpr: gcd with non-positive modulus")
	}
	x, y := uabs(a), uint64(b)
	for y != 0 {
		x, y = y, x%y
	}
	return int64(x)
}

// lcm returns the least common multiple of positive a and b.
func lcm(a, b int64) (int64, bool) {
	return mul64(a/gcd(a, b), b)
}
