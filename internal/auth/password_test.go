package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_Salted(t *testing.T) {
	first, err := HashPassword("s3cret")
	require.NoError(t, err)
	second, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, CheckPassword("s3cret", first))
	assert.True(t, CheckPassword("s3cret", second))
}

func TestCheckPassword(t *testing.T) {
	digest, err := HashPassword("correct horse")
	require.NoError(t, err)

	tests := []struct {
		name      string
		plaintext string
		digest    string
		want      bool
	}{
		{name: "match", plaintext: "correct horse", digest: digest, want: true},
		{name: "different plaintext", plaintext: "battery staple", digest: digest, want: false},
		{name: "empty plaintext", plaintext: "", digest: digest, want: false},
		{name: "malformed digest", plaintext: "correct horse", digest: "not-a-bcrypt-hash", want: false},
		{name: "empty digest", plaintext: "correct horse", digest: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckPassword(tt.plaintext, tt.digest))
		})
	}
}
