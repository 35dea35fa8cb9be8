package core

// utoa converts an unsigned integer to decimal without the fmt package
func utoa(n uint32) string {
	if n == 0 {
		return "0"
	}

	var buf [10]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[pos:])
}

// xtoa converts an unsigned integer to lower-case hex without the fmt package
func xtoa(n uint64) string {
	const digits = "0123456789abcdef"
	if n == 0 {
		return "0"
	}

	var buf [16]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = digits[n&0xF]
		n >>= 4
	}
	return string(buf[pos:])
}
