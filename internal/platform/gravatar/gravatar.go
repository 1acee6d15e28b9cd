// Package gravatar derives default avatar URLs from email addresses using
// the gravatar scheme: an MD5 of the normalized address appended to a fixed
// host. New accounts get one of these until they upload their own avatar.
package gravatar

import (
	"crypto/md5" //nolint:gosec // gravatar's URL scheme is defined over MD5
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	baseURL   = "https://www.gravatar.com/avatar"
	imageSize = "250"
	fallback  = "retro" // generated geometric image for unknown addresses
)

// URL returns the gravatar URL for the given email address.
func URL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(normalized)) //nolint:gosec
	return fmt.Sprintf("%s/%s?s=%s&d=%s", baseURL, hex.EncodeToString(sum[:]), imageSize, fallback)
}
