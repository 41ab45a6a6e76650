package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martianoff/pama/shape"
)

type point struct {
	X int
	Y int
}

type circle struct {
	Center point
	Radius float64
}

func testRegistry(t *testing.T) *shape.Registry {
	t.Helper()
	reg := shape.NewRegistry()
	reg.MustRegister(shape.For[point]("Point"))
	reg.MustRegister(shape.For[circle]("Circle"))
	return reg
}

func mustCompile(t *testing.T, src string, opts ...Option) *Matcher {
	t.Helper()
	m, err := CompileString(src, opts...)
	require.NoError(t, err)
	return m
}

func TestMatchLiterals(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		subject any
		ok      bool
	}{
		{name: "int", src: "42", subject: 42, ok: true},
		{name: "int against wider type", src: "42", subject: int8(42), ok: true},
		{name: "int against float value", src: "2", subject: 2.0, ok: true},
		{name: "float against int value", src: "2.0", subject: 2, ok: true},
		{name: "numeric mismatch", src: "2", subject: 3, ok: false},
		{name: "string", src: `"hi"`, subject: "hi", ok: true},
		{name: "string is not a number", src: "2", subject: "2", ok: false},
		{name: "bool", src: "true", subject: true, ok: true},
		{name: "bool is not one", src: "true", subject: 1, ok: false},
		{name: "nil", src: "nil", subject: nil, ok: true},
		{name: "nil mismatch", src: "nil", subject: 0, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, mustCompile(t, tt.src).Matches(tt.subject))
		})
	}
}

func TestMatchBindings(t *testing.T) {
	m := mustCompile(t, "x")
	b, ok := m.Match("anything")
	require.True(t, ok)
	assert.Equal(t, Bindings{"x": "anything"}, b)

	m = mustCompile(t, "n @ 2")
	b, ok = m.Match(2)
	require.True(t, ok)
	assert.Equal(t, Bindings{"n": 2}, b)

	_, ok = m.Match(3)
	assert.False(t, ok)
}

func TestMatchFailureExposesNoBindings(t *testing.T) {
	reg := testRegistry(t)
	// x binds before the literal fails; the caller must never see it.
	m := mustCompile(t, "Point(x, 99)", WithRegistry(reg))

	b, ok := m.Match(point{X: 1, Y: 2})
	assert.False(t, ok)
	assert.Nil(t, b)
}

func TestMatchAlternation(t *testing.T) {
	m := mustCompile(t, "1 | 2 | 3")
	assert.True(t, m.Matches(2))
	assert.False(t, m.Matches(4))

	m = mustCompile(t, "x @ 2 | 3")
	b, ok := m.Match(3)
	require.True(t, ok)
	assert.Equal(t, Bindings{"x": 3}, b)
}

func TestMatchRange(t *testing.T) {
	m := mustCompile(t, "1 | ... | 4")
	for i := 1; i <= 4; i++ {
		assert.True(t, m.Matches(i), "expected %d to match", i)
	}
	assert.False(t, m.Matches(0))
	assert.False(t, m.Matches(5))

	m = mustCompile(t, `"a" | ... | "d"`)
	assert.True(t, m.Matches("c"))
	assert.False(t, m.Matches("e"))
}

func TestMatchInvertedRangeNeverMatches(t *testing.T) {
	m := mustCompile(t, "7 | ... | 3")
	for i := 0; i <= 10; i++ {
		assert.False(t, m.Matches(i))
	}
}

func TestMatchDeconstruct(t *testing.T) {
	reg := testRegistry(t)

	t.Run("positional", func(t *testing.T) {
		m := mustCompile(t, "Point(x, 0)", WithRegistry(reg))

		b, ok := m.Match(point{X: 3, Y: 0})
		require.True(t, ok)
		assert.Equal(t, Bindings{"x": 3}, b)

		assert.False(t, m.Matches(point{X: 3, Y: 1}))
		assert.False(t, m.Matches("not a point"))
	})

	t.Run("prefix arity is allowed", func(t *testing.T) {
		m := mustCompile(t, "Point(x)", WithRegistry(reg))
		b, ok := m.Match(point{X: 5, Y: 6})
		require.True(t, ok)
		assert.Equal(t, Bindings{"x": 5}, b)
	})

	t.Run("too many slots fail", func(t *testing.T) {
		m := mustCompile(t, "Point(a, b, c)", WithRegistry(reg))
		assert.False(t, m.Matches(point{}))
	})

	t.Run("named fields", func(t *testing.T) {
		m := mustCompile(t, "Circle(Radius=r)", WithRegistry(reg))
		b, ok := m.Match(circle{Center: point{1, 1}, Radius: 2.5})
		require.True(t, ok)
		assert.Equal(t, Bindings{"r": 2.5}, b)

		m = mustCompile(t, "Circle(Radius=r, Missing=_)", WithRegistry(reg))
		assert.False(t, m.Matches(circle{}))
	})

	t.Run("nested", func(t *testing.T) {
		m := mustCompile(t, "Circle(Point(0, y), r)", WithRegistry(reg))
		b, ok := m.Match(circle{Center: point{0, 4}, Radius: 1})
		require.True(t, ok)
		assert.Equal(t, Bindings{"y": 4, "r": 1.0}, b)
	})

	t.Run("zero arity is a pure type test", func(t *testing.T) {
		m := mustCompile(t, "Point | Circle", WithRegistry(reg))
		assert.True(t, m.Matches(point{}))
		assert.True(t, m.Matches(circle{}))
		assert.False(t, m.Matches(42))
	})
}

func TestMatchBuiltinTags(t *testing.T) {
	m := mustCompile(t, "int(x)")
	b, ok := m.Match(7)
	require.True(t, ok)
	assert.Equal(t, Bindings{"x": 7}, b)
	assert.False(t, m.Matches("seven"))

	m = mustCompile(t, "string(s)")
	assert.True(t, m.Matches("seven"))
	assert.False(t, m.Matches(7))

	m = mustCompile(t, "callable()")
	assert.True(t, m.Matches(func() {}))
	assert.False(t, m.Matches(7))
}

func TestMatchCustomExtractor(t *testing.T) {
	reg := shape.NewRegistry()
	reg.MustRegister(shape.NewTag("Even", shape.WithUnapply(func(obj any) ([]any, shape.Outcome) {
		n, ok := obj.(int)
		if !ok {
			return nil, shape.NoMatch
		}
		if n%2 != 0 {
			return nil, shape.NoMatch
		}
		return []any{n / 2}, shape.Extracted
	})))

	m := mustCompile(t, "Even(half)", WithRegistry(reg))
	b, ok := m.Match(10)
	require.True(t, ok)
	assert.Equal(t, Bindings{"half": 5}, b)
	assert.False(t, m.Matches(7))
}

func TestMatchAbsentConstructorParam(t *testing.T) {
	reg := shape.NewRegistry()
	reg.MustRegister(shape.For[map[string]any]("Config",
		shape.WithConstructorParams("host", "port")))

	m := mustCompile(t, "Config(h, p)", WithRegistry(reg))
	b, ok := m.Match(map[string]any{"host": "db1"})
	require.True(t, ok)
	assert.Equal(t, "db1", b["h"])
	assert.True(t, shape.IsAbsent(b["p"]))
}

func TestMatchMapPattern(t *testing.T) {
	m := mustCompile(t, `{"status": s, "code": 200}`)

	b, ok := m.Match(map[string]any{"status": "ok", "code": 200, "extra": true})
	require.True(t, ok)
	assert.Equal(t, Bindings{"s": "ok"}, b)

	assert.False(t, m.Matches(map[string]any{"status": "ok"}))
	assert.False(t, m.Matches("not a map"))

	// Typed maps work through key conversion.
	m = mustCompile(t, "{1: one}")
	b, ok = m.Match(map[int]string{1: "uno"})
	require.True(t, ok)
	assert.Equal(t, Bindings{"one": "uno"}, b)
}

func TestMatcherIsReusable(t *testing.T) {
	m := mustCompile(t, "x @ 1 | 2")

	b1, ok := m.Match(1)
	require.True(t, ok)
	b2, ok := m.Match(2)
	require.True(t, ok)

	// Each run gets fresh bindings.
	assert.Equal(t, Bindings{"x": 1}, b1)
	assert.Equal(t, Bindings{"x": 2}, b2)
}
