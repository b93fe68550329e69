package counter

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

var alphaIndex = func() map[byte]int {
	m := make(map[byte]int, len(alphabet))
	for i := 0; i < len(alphabet); i++ {
		m[alphabet[i]] = i
	}
	return m
}()

func encodeCount(n, width int) string {
	digits := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		digits[i] = alphabet[n&0x3f]
		n >>= 6
	}
	return string(digits)
}

func decodeCount(s string) (int, error) {
	n := 0
	for i := 0; i < len(s); i++ {
		v, ok := alphaIndex[s[i]]
		if !ok {
			return 0, errInvalidValue("invalid base64 digit in counter count")
		}
		n = (n << 6) | v
	}
	return n, nil
}
