package wishwall

import "crypto/rand"

// Token size classes. The admin token is longer because possession of it is
// the sole gate for destructive operations.
const (
	PublicTokenLength = 10
	AdminTokenLength  = 16
)

const tokenAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-_"

// NewToken returns a random url-safe token of length n. Uniqueness is not
// checked here; the store's unique constraints are the collision guard and a
// collision surfaces as a creation failure.
func NewToken(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	for i, b := range buf {
		buf[i] = tokenAlphabet[int(b)&63]
	}
	return string(buf)
}
