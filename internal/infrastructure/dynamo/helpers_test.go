package dynamo

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"email": "a@b.com"})
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", ue.Expr)
	assert.Equal(t, map[string]string{"#f0": "email"}, ue.Names)
	_, ok := ue.Values[":v0"]
	assert.True(t, ok)
}

func TestBuildUpdateExpr_MultipleFields_Deterministic(t *testing.T) {
	updates := map[string]interface{}{
		"two_factor_expires_at": int64(0),
		"email_verified_at":     "2026-01-01T00:00:00Z",
		"two_factor_code":       "",
	}
	// Call twice to verify determinism.
	ue1, err := buildUpdateExpr(updates)
	require.NoError(t, err)
	ue2, err := buildUpdateExpr(updates)
	require.NoError(t, err)

	assert.Equal(t, ue1.Expr, ue2.Expr)

	// Keys must be sorted.
	assert.Equal(t, "email_verified_at", ue1.Names["#f0"])
	assert.Equal(t, "two_factor_code", ue1.Names["#f1"])
	assert.Equal(t, "two_factor_expires_at", ue1.Names["#f2"])
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2", ue1.Expr)
}

func TestBuildUpdateExpr_ValuesMarshalledCorrectly(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"ok": true})
	require.NoError(t, err)
	av, ok := ue.Values[":v0"]
	require.True(t, ok)
	boolVal, isBool := av.(*types.AttributeValueMemberBOOL)
	require.True(t, isBool)
	assert.True(t, boolVal.Value)
}

func TestBuildUpdateExpr_NilValues_RemoveAttributes(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{
		"email_verified_at":             "2026-01-01T00:00:00Z",
		"email_verification_code":       nil,
		"email_verification_expires_at": nil,
		"email_verification_token_hash": nil,
	})
	require.NoError(t, err)

	assert.Equal(t, "SET #f3 = :v3 REMOVE #f0, #f1, #f2", ue.Expr)
	assert.Equal(t, "email_verification_code", ue.Names["#f0"])
	assert.Equal(t, "email_verification_token_hash", ue.Names["#f2"])
	assert.Equal(t, "email_verified_at", ue.Names["#f3"])

	// Removed attributes must not bind values; an empty string on an index
	// key attribute would be rejected by DynamoDB.
	assert.Len(t, ue.Values, 1)
	_, ok := ue.Values[":v3"]
	assert.True(t, ok)
}

func TestBuildUpdateExpr_OnlyRemovals(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"two_factor_code": nil})
	require.NoError(t, err)
	assert.Equal(t, "REMOVE #f0", ue.Expr)
	assert.Empty(t, ue.Values)
}

func TestBuildUpdateExpr_EmptyMap_ReturnsError(t *testing.T) {
	_, err := buildUpdateExpr(map[string]interface{}{})
	assert.ErrorContains(t, err, "no fields to update")
}
