package ratexpr

import (
	"errors"
	"math/big"
	"strconv"
	"strings"
)

var (
	// ErrDivisionByZero is the error for division by a value that is exactly
	// zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrOverflow is the error for a computation whose quotient, remainder, or
	// divisor does not fit in 64 bits.
	ErrOverflow = errors.New("integer overflow")
)

// Value is an exact number. It is either an integer or a mixed number
// q + r/d with 0 < |r| < d and gcd(|r|, d) = 1. The integer part and the
// fraction never have opposite signs, so -4/3 is -1 (-1 / 3).
//
// Every Value produced by this package is in that simplified form, so two
// Values are equal exactly when == says so. The zero Value is the integer 0.
type Value struct {
	// q is the integer part.
	q int64
	// r is the numerator of the fractional part. It is zero for integers.
	r int64
	// d is the denominator of the fractional part. It is zero for integers.
	d int64
}

// Int returns the integer i as a Value.
func Int(i int64) Value {
	return Value{q: i}
}

// Frac returns num/den in simplified form.
func Frac(num, den int64) (Value, error) {
	return simplify(0, num, den)
}

// ParseDecimal converts a decimal literal such as "12", "0.125", ".5", or "5."
// to the exact Value it denotes. The text may contain only digits and at most
// one '.'. Syntax errors unwrap to strconv.ErrSyntax; literals too large for
// 64 bits give ErrOverflow.
func ParseDecimal(s string) (Value, error) {
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" || strings.ContainsRune(frac, '.') {
		return Value{}, strconv.ErrSyntax
	}
	// Trailing zeros after the point don't change the value but do cost
	// scale.
	frac = strings.TrimRight(frac, "0")
	var n int64
	for _, digits := range [2]string{whole, frac} {
		for i := 0; i < len(digits); i++ {
			c := digits[i]
			if c < '0' || c > '9' {
				return Value{}, strconv.ErrSyntax
			}
			var ok bool
			if n, ok = mul64(n, 10); !ok {
				return Value{}, ErrOverflow
			}
			if n, ok = add64(n, int64(c-'0')); !ok {
				return Value{}, ErrOverflow
			}
		}
	}
	d := int64(1)
	for range frac {
		var ok bool
		if d, ok = mul64(d, 10); !ok {
			return Value{}, ErrOverflow
		}
	}
	return simplify(0, n, d)
}

// simplify normalizes q + r/d. d may have either sign and the terms may be
// unreduced or improper.
func simplify(q, r, d int64) (Value, error) {
	if d == 0 {
		return Value{}, ErrDivisionByZero
	}
	if d < 0 {
		var ok1, ok2 bool
		r, ok1 = neg64(r)
		d, ok2 = neg64(d)
		if !ok1 || !ok2 {
			return Value{}, ErrOverflow
		}
	}
	if g := gcd(r, d); g > 1 {
		r /= g
		d /= g
	}
	if t := r / d; t != 0 {
		var ok bool
		if q, ok = add64(q, t); !ok {
			return Value{}, ErrOverflow
		}
		r %= d
	}
	// Move a unit between the parts so they agree in sign. Neither step can
	// overflow because |r| < d.
	switch {
	case q > 0 && r < 0:
		q--
		r += d
	case q < 0 && r > 0:
		q++
		r -= d
	}
	if r == 0 {
		return Value{q: q}, nil
	}
	return Value{q: q, r: r, d: d}, nil
}

// IsInt returns whether v is an integer.
func (v Value) IsInt() bool {
	return v.r == 0
}

// IsZero returns whether v is exactly zero.
func (v Value) IsZero() bool {
	return v.q == 0 && v.r == 0
}

// Sign returns -1, 0, or 1 according to the sign of v.
func (v Value) Sign() int {
	switch {
	case v.q > 0 || v.r > 0:
		return 1
	case v.q < 0 || v.r < 0:
		return -1
	default:
		return 0
	}
}

// Quotient returns the integer part of v, truncated toward zero.
func (v Value) Quotient() int64 {
	return v.q
}

// Remainder returns the numerator of the fractional part of v. It is zero if
// v is an integer and otherwise has the sign of v.
func (v Value) Remainder() int64 {
	return v.r
}

// Divisor returns the denominator of the fractional part of v, which is 1 if
// v is an integer.
func (v Value) Divisor() int64 {
	if v.r == 0 {
		return 1
	}
	return v.d
}

// Fraction returns v as an improper fraction num/den with den > 0. The error
// is ErrOverflow if num does not fit in 64 bits.
func (v Value) Fraction() (num, den int64, err error) {
	if v.r == 0 {
		return v.q, 1, nil
	}
	n, ok := mul64(v.q, v.d)
	if !ok {
		return 0, 0, ErrOverflow
	}
	if n, ok = add64(n, v.r); !ok {
		return 0, 0, ErrOverflow
	}
	return n, v.d, nil
}

// Rat returns v as a new big.Rat. Unlike Fraction, it never overflows.
func (v Value) Rat() *big.Rat {
	r := new(big.Rat).SetInt64(v.q)
	if v.r != 0 {
		r.Add(r, big.NewRat(v.r, v.d))
	}
	return r
}

// Float64 returns the float64 nearest to v.
func (v Value) Float64() float64 {
	f, _ := v.Rat().Float64()
	return f
}

// Decimal formats v as a decimal number rounded to the given number of digits
// after the point.
func (v Value) Decimal(digits int) string {
	return v.Rat().FloatString(digits)
}

// String formats v. An integer is its decimal digits. A mixed number is
// "q (r / d)".
func (v Value) String() string {
	q := strconv.FormatInt(v.q, 10)
	if v.r == 0 {
		return q
	}
	return q + " (" + strconv.FormatInt(v.r, 10) + " / " + strconv.FormatInt(v.d, 10) + ")"
}

// denom is Divisor, but usable in arithmetic without a branch at each site.
func (v Value) denom() int64 {
	if v.r == 0 {
		return 1
	}
	return v.d
}

// Add returns v+w.
func (v Value) Add(w Value) (Value, error) {
	return v.addsub(w, add64)
}

// Sub returns v-w.
func (v Value) Sub(w Value) (Value, error) {
	return v.addsub(w, sub64)
}

// addsub puts both fractional parts over their least common multiple, then
// combines integer parts and numerators separately with op.
func (v Value) addsub(w Value, op func(a, b int64) (int64, bool)) (Value, error) {
	vd, wd := v.denom(), w.denom()
	d, ok := lcm(vd, wd)
	if !ok {
		return Value{}, ErrOverflow
	}
	vr, ok1 := mul64(v.r, d/vd)
	wr, ok2 := mul64(w.r, d/wd)
	if !ok1 || !ok2 {
		return Value{}, ErrOverflow
	}
	r, ok1 := op(vr, wr)
	q, ok2 := op(v.q, w.q)
	if !ok1 || !ok2 {
		return Value{}, ErrOverflow
	}
	return simplify(q, r, d)
}

// Mul returns v*w.
func (v Value) Mul(w Value) (Value, error) {
	vn, vd, err := v.Fraction()
	if err != nil {
		return Value{}, err
	}
	wn, wd, err := w.Fraction()
	if err != nil {
		return Value{}, err
	}
	// Cancel across before multiplying so that a representable product does
	// not overflow along the way.
	if g := gcd(vn, wd); g > 1 {
		vn /= g
		wd /= g
	}
	if g := gcd(wn, vd); g > 1 {
		wn /= g
		vd /= g
	}
	n, ok1 := mul64(vn, wn)
	d, ok2 := mul64(vd, wd)
	if !ok1 || !ok2 {
		return Value{}, ErrOverflow
	}
	return simplify(0, n, d)
}

// Div returns v/w. The error is ErrDivisionByZero if w is zero.
func (v Value) Div(w Value) (Value, error) {
	if w.IsZero() {
		return Value{}, ErrDivisionByZero
	}
	vn, vd, err := v.Fraction()
	if err != nil {
		return Value{}, err
	}
	wn, wd, err := w.Fraction()
	if err != nil {
		return Value{}, err
	}
	// v/w = (vn*wd) / (vd*wn). Keep the new denominator's sign in the
	// numerator so gcd always gets a positive modulus.
	if wn < 0 {
		var ok1, ok2 bool
		wn, ok1 = neg64(wn)
		vn, ok2 = neg64(vn)
		if !ok1 || !ok2 {
			return Value{}, ErrOverflow
		}
	}
	if g := gcd(vn, wn); g > 1 {
		vn /= g
		wn /= g
	}
	if g := gcd(wd, vd); g > 1 {
		wd /= g
		vd /= g
	}
	n, ok1 := mul64(vn, wd)
	d, ok2 := mul64(vd, wn)
	if !ok1 || !ok2 {
		return Value{}, ErrOverflow
	}
	return simplify(0, n, d)
}

// Neg returns -v. The only possible error is ErrOverflow for the most
// negative integer part.
func (v Value) Neg() (Value, error) {
	q, ok := neg64(v.q)
	if !ok {
		return Value{}, ErrOverflow
	}
	return Value{q: q, r: -v.r, d: v.d}, nil
}
