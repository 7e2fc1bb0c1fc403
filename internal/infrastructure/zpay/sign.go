package zpay

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"sort"
	"strings"
)

const (
	FieldSign     = "sign"
	FieldSignType = "sign_type"
	SignTypeMD5   = "MD5"
)

// CanonicalString drops sign, sign_type and empty values, then joins the
// remaining pairs as key=value with & in byte-wise key order.
func CanonicalString(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if k == FieldSign || k == FieldSignType || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	return b.String()
}

// Sign returns the lowercase hex MD5 of the canonical string with key appended.
func Sign(params map[string]string, key string) string {
	sum := md5.Sum([]byte(CanonicalString(params) + key))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether params carry a sign matching their content. A
// missing or empty sign never verifies.
func Verify(params map[string]string, key string) bool {
	received := params[FieldSign]
	if received == "" {
		return false
	}
	expected := Sign(params, key)
	return subtle.ConstantTimeCompare([]byte(received), []byte(expected)) == 1
}
