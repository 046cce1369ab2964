package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := Generate("secreto", "caja-01", RoleVendedor, "kardex-pos", 5)
	require.NoError(t, err)

	uid, role, err := Parse("secreto", tok)
	require.NoError(t, err)
	assert.Equal(t, "caja-01", uid)
	assert.Equal(t, RoleVendedor, role)
}

func TestParse_Rejects(t *testing.T) {
	tok, err := Generate("secreto", "caja-01", RoleAdmin, "kardex-pos", 5)
	require.NoError(t, err)

	_, _, err = Parse("otro", tok)
	assert.Error(t, err, "firma incorrecta")

	expired, err := Generate("secreto", "caja-01", RoleAdmin, "kardex-pos", -1)
	require.NoError(t, err)
	_, _, err = Parse("secreto", expired)
	assert.Error(t, err, "expirado")

	_, err = Generate("", "x", RoleAdmin, "i", 1)
	assert.Error(t, err)
}
