package security

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"go.uber.org/zap"
)

// VerifySignedPayload checks the hex-encoded HMAC-SHA256 signature of a raw
// request body against a shared secret. The body must be the exact byte
// sequence that was signed; re-serialized JSON will not verify.
//
// It never returns an error: any missing input, length mismatch or digest
// failure is reported as false. The final comparison is constant-time so the
// position of the first differing byte does not leak through timing. Length
// is compared first; length itself is not confidential and hmac.Equal
// requires equal-length inputs anyway.
func VerifySignedPayload(body []byte, signature, secret string, log *zap.Logger) bool {
	if signature == "" || secret == "" {
		log.Warn("Signature verification rejected: missing signature or secret")
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	if _, err := mac.Write(body); err != nil {
		log.Warn("Signature verification rejected: digest error", zap.Error(err))
		return false
	}
	expected := hex.EncodeToString(mac.Sum(nil))

	if len(expected) != len(signature) {
		log.Warn("Signature verification rejected: length mismatch", zap.Int("got", len(signature)))
		return false
	}

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		log.Warn("Signature verification rejected: digest mismatch")
		return false
	}

	return true
}

// GenerateOpaqueToken returns byteLength cryptographically random bytes as a
// lowercase hex string (so 2*byteLength characters). Used for provisioning
// session identifiers and the credentials handed out on approval.
func GenerateOpaqueToken(byteLength int) (string, error) {
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
