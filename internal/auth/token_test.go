package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueVerify(t *testing.T) {
	tok, err := Issue("s3cret", "ci-bot", time.Hour)
	require.NoError(t, err)

	sub, err := Verify("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, "ci-bot", sub)
}

func TestVerify_Rejects(t *testing.T) {
	tok, err := Issue("s3cret", "ci-bot", time.Hour)
	require.NoError(t, err)

	_, err = Verify("other", tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = Verify("s3cret", "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	defaulted, err := Issue("s3cret", "ci-bot", -time.Hour)
	require.NoError(t, err)
	// Non-positive ttl falls back to the default lifetime.
	_, err = Verify("s3cret", defaulted)
	assert.NoError(t, err)
}

func TestIssue_EmptySecret(t *testing.T) {
	_, err := Issue("", "x", time.Minute)
	assert.Error(t, err)
}
