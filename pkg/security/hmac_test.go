package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func signBody(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignedPayload(t *testing.T) {
	log := zap.NewNop()
	body := []byte(`{"session_id":"abc","branch_id":"b1"}`)
	secret := "shared-secret"
	valid := signBody(body, secret)

	tests := []struct {
		name      string
		body      []byte
		signature string
		secret    string
		expected  bool
	}{
		{
			name:      "Valid Signature",
			body:      body,
			signature: valid,
			secret:    secret,
			expected:  true,
		},
		{
			name:      "Missing Signature",
			body:      body,
			signature: "",
			secret:    secret,
			expected:  false,
		},
		{
			name:      "Missing Secret",
			body:      body,
			signature: valid,
			secret:    "",
			expected:  false,
		},
		{
			name:      "Wrong Secret",
			body:      body,
			signature: valid,
			secret:    "other-secret",
			expected:  false,
		},
		{
			name:      "Truncated Signature",
			body:      body,
			signature: valid[:len(valid)-2],
			secret:    secret,
			expected:  false,
		},
		{
			name:      "Tampered Body",
			body:      []byte(`{"session_id":"abc","branch_id":"b2"}`),
			signature: valid,
			secret:    secret,
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := VerifySignedPayload(tt.body, tt.signature, tt.secret, log)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestVerifySignedPayloadRejectsSingleCharacterFlips(t *testing.T) {
	log := zap.NewNop()
	body := []byte("payload under test")
	secret := "shared-secret"
	valid := signBody(body, secret)

	for i := range valid {
		flipped := []byte(valid)
		if flipped[i] == '0' {
			flipped[i] = '1'
		} else {
			flipped[i] = '0'
		}
		assert.False(t, VerifySignedPayload(body, string(flipped), secret, log), "flip at %d should fail", i)
	}
}

func TestGenerateOpaqueToken(t *testing.T) {
	token, err := GenerateOpaqueToken(32)
	assert.NoError(t, err)
	assert.Len(t, token, 64)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]+$`), token)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		next, err := GenerateOpaqueToken(32)
		assert.NoError(t, err)
		assert.False(t, seen[next], "duplicate token generated")
		seen[next] = true
	}
}
