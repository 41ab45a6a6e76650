package pamaerr_test

import (
	"martianoff/pama/pamaerr"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyntaxError(t *testing.T) {
	err := pamaerr.NewSyntaxErrorAt(10, 5, "unexpected token")
	assert.Equal(t, pamaerr.TypeSyntax, err.Type())
	assert.Equal(t, 10, err.Line)
	assert.Equal(t, 5, err.Column)
	assert.Equal(t, "[PatternSyntaxError] line 10:5 unexpected token", err.Error())
}

func TestSyntaxErrorNoPosition(t *testing.T) {
	err := pamaerr.NewSyntaxError("operator not supported in pattern matching")
	assert.Equal(t, pamaerr.TypeSyntax, err.Type())
	assert.Equal(t, 0, err.Line)
	assert.Equal(t, "[PatternSyntaxError] operator not supported in pattern matching", err.Error())
}

func TestValidationError(t *testing.T) {
	err := pamaerr.NewValidationError("redefinition of name x")
	assert.Equal(t, pamaerr.TypeValidation, err.Type())
	assert.Equal(t, "[PatternValidationError] redefinition of name x", err.Error())
}

func TestExhaustionError(t *testing.T) {
	err := pamaerr.NewExhaustionError(42)
	assert.Equal(t, pamaerr.TypeExhaustion, err.Type())
	assert.Contains(t, err.Error(), "no matching pattern found for 42")
}

func TestWrappedIntrospection(t *testing.T) {
	err := pamaerr.Wrapf(pamaerr.NewValidationError("bindings not allowed in alternatives"), "pattern %q", "a|b")
	assert.True(t, pamaerr.IsValidation(err))
	assert.False(t, pamaerr.IsSyntax(err))
	assert.False(t, pamaerr.IsExhaustion(err))
	assert.Contains(t, err.Error(), `pattern "a|b"`)
}
