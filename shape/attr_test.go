package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account struct {
	Owner   string
	Balance int
	secret  string
}

type thermometer struct {
	celsius float64
}

func (t thermometer) Celsius() float64    { return t.celsius }
func (t *thermometer) Fahrenheit() float64 { return t.celsius*9/5 + 32 }

func TestAttrStructField(t *testing.T) {
	a := account{Owner: "ada", Balance: 100, secret: "x"}

	v, ok := Attr(a, "Owner")
	require.True(t, ok)
	assert.Equal(t, "ada", v)

	// Case-insensitive fallback.
	v, ok = Attr(a, "balance")
	require.True(t, ok)
	assert.Equal(t, 100, v)

	_, ok = Attr(a, "secret")
	assert.False(t, ok)
	_, ok = Attr(a, "Missing")
	assert.False(t, ok)
}

func TestAttrPointerDeref(t *testing.T) {
	a := &account{Owner: "ada"}

	v, ok := Attr(a, "Owner")
	require.True(t, ok)
	assert.Equal(t, "ada", v)

	var nilAccount *account
	_, ok = Attr(nilAccount, "Owner")
	assert.False(t, ok)
}

func TestAttrMapKey(t *testing.T) {
	m := map[string]any{"status": "ok", "code": 200}

	v, ok := Attr(m, "status")
	require.True(t, ok)
	assert.Equal(t, "ok", v)

	_, ok = Attr(m, "missing")
	assert.False(t, ok)

	// Non-string keys cannot be addressed by attribute name.
	_, ok = Attr(map[int]any{1: "x"}, "1")
	assert.False(t, ok)
}

func TestAttrGetter(t *testing.T) {
	th := thermometer{celsius: 20}

	v, ok := Attr(th, "celsius")
	require.True(t, ok)
	assert.Equal(t, 20.0, v)

	// Pointer-receiver getters need the pointer.
	v, ok = Attr(&th, "fahrenheit")
	require.True(t, ok)
	assert.Equal(t, 68.0, v)

	_, ok = Attr(th, "fahrenheit")
	assert.False(t, ok)
}

func TestAttrNil(t *testing.T) {
	_, ok := Attr(nil, "anything")
	assert.False(t, ok)
}
