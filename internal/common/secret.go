package common

// WipeByteArray zeroes b, e.g. a password read from the terminal once it
// has been encoded into the session.
func WipeByteArray(b []byte) {
	clear(b)
}
