package uniuri

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken(t *testing.T) {
	t.Parallel()

	token, err := Token(TokenLen)
	require.NoError(t, err)
	assert.Len(t, token, TokenLen)

	for _, r := range token {
		assert.True(t, strings.ContainsRune(Alphabet, r), "unexpected rune %q", r)
	}

	other, err := Token(TokenLen)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestTokenFrom(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		length   int
		alphabet string
		wantErr  error
	}{
		{name: "binary", length: 64, alphabet: "01"},
		{name: "single", length: 1, alphabet: Alphabet},
		{name: "max", length: MaxLen, alphabet: Alphabet},
		{name: "zero length", length: 0, alphabet: Alphabet, wantErr: ErrLength},
		{name: "too long", length: MaxLen + 1, alphabet: Alphabet, wantErr: ErrLength},
		{name: "one char", length: 8, alphabet: "a", wantErr: ErrAlphabet},
		{name: "too many chars", length: 8, alphabet: strings.Repeat("a", 257), wantErr: ErrAlphabet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			token, err := TokenFrom(tt.length, tt.alphabet)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)

				return
			}

			require.NoError(t, err)
			assert.Len(t, token, tt.length)
			assert.Empty(t, strings.Trim(token, tt.alphabet))
		})
	}
}
