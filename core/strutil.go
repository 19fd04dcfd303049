package core

import "strconv"

// Utoa formats n in decimal without pulling fmt into firmware builds
func Utoa(n uint32) string {
	if n == 0 {
		return "0"
	}

	// Count digits
	temp := n
	digits := 0
	for temp > 0 {
		digits++
		temp /= 10
	}

	// Build string from right to left
	buf := make([]byte, digits)
	pos := digits - 1

	for n > 0 {
		buf[pos] = byte('0' + n%10)
		n /= 10
		pos--
	}

	return string(buf)
}

// atoi parses a leading decimal integer the way C atoi does: leading blanks
// and a sign are accepted, parsing stops at the first non-digit and a
// missing number yields 0.
func atoi(s string) int {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	negative := false
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		negative = s[i] == '-'
		i++
	}

	n := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		if n > 1<<30 {
			break
		}
		n = n*10 + int(s[i]-'0')
	}
	if negative {
		return -n
	}
	return n
}

// atof parses the longest numeric prefix of s the way C atof does. A
// missing number yields 0.
func atof(s string) float64 {
	for end := len(s); end > 0; end-- {
		if v, err := strconv.ParseFloat(s[:end], 64); err == nil {
			return v
		}
	}
	return 0
}

// ftoa formats a speed factor for debug output.
func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', 4, 64)
}
