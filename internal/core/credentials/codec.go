// Package credentials handles the transport encoding applied to passwords
// before they are submitted through a form. The encoding only keeps the value
// intact in transit; it is not a secret and is unrelated to hashing.
package credentials

import (
	"encoding/base64"
	"strings"

	"github.com/99minutos/user-directory/internal/core/domain"
)

// Encode applies the transport encoding to a plaintext password.
func Encode(plain string) string {
	return base64.StdEncoding.EncodeToString([]byte(plain))
}

// Decode reverses Encode. It never fails: for malformed input it returns
// whatever decoded before the first bad byte, and callers validate downstream.
func Decode(encoded string) string {
	enc := base64.StdEncoding
	if !strings.HasSuffix(encoded, "=") && len(encoded)%4 != 0 {
		enc = base64.RawStdEncoding
	}
	buf := make([]byte, enc.DecodedLen(len(encoded)))
	n, _ := enc.Decode(buf, []byte(encoded))
	return string(buf[:n])
}

// IsEncoded reports whether s is well-formed transport encoding.
func IsEncoded(s string) bool {
	if _, err := base64.StdEncoding.DecodeString(s); err == nil {
		return true
	}
	_, err := base64.RawStdEncoding.DecodeString(s)
	return err == nil
}

// FromTransport decodes the password of submitted credentials.
func FromTransport(tc domain.TransportCredentials) domain.Credentials {
	return domain.Credentials{
		Email:    tc.Email,
		Password: Decode(tc.EncodedPassword),
	}
}
