package jsbuild

import (
	"strings"
	"testing"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		name    string
		want    api.Target
		wantErr bool
	}{
		{"", api.ESNext, false},
		{"esnext", api.ESNext, false},
		{"ES2020", api.ES2020, false},
		{"es6", api.ES2015, false},
		{"es1999", api.DefaultTarget, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTarget(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNeedsLowering(t *testing.T) {
	assert.True(t, NeedsLowering("App.jsx"))
	assert.True(t, NeedsLowering("App.TSX"))
	assert.True(t, NeedsLowering("util.ts"))
	assert.False(t, NeedsLowering("util.js"))
	assert.False(t, NeedsLowering("util.mjs"))
}

func TestLower_JSX(t *testing.T) {
	src := `function App() {
  ref: count = 0;
  return <button onClick={() => count++}>{count}</button>;
}`
	out, err := Lower(src, "App.jsx", Options{})
	require.NoError(t, err)

	assert.Contains(t, out.Code, "ref:")
	assert.Contains(t, out.Code, "React.createElement")
	assert.NotContains(t, out.Code, "<button")
}

func TestLower_TypeScript(t *testing.T) {
	src := "function total(price: number, qty: number): number {\n  watch: sum = (a: number) => a * qty;\n  return price;\n}\n"
	out, err := Lower(src, "total.ts", Options{})
	require.NoError(t, err)

	assert.Contains(t, out.Code, "watch:")
	assert.NotContains(t, out.Code, ": number")
}

func TestLower_CustomFactory(t *testing.T) {
	out, err := Lower("const el = <><p /></>;", "el.jsx", Options{JSXFactory: "h", JSXFragment: "Fragment"})
	require.NoError(t, err)
	assert.Contains(t, out.Code, "h(Fragment")
}

func TestLower_PlainJavaScriptUnchanged(t *testing.T) {
	src := "ref: count = 0;"
	out, err := Lower(src, "app.js", Options{})
	require.NoError(t, err)
	assert.Equal(t, src, out.Code)
	assert.Nil(t, out.Renamed)
}

func TestLower_RenamedIdents(t *testing.T) {
	src := "function App() {\n" +
		"  ref: count = 0;\n" +
		"  watch: (count) => console.log(\"\U0001F600\", count);\n" +
		"  return <p>{count}</p>;\n" +
		"}\n"
	out, err := Lower(src, "App.jsx", Options{})
	require.NoError(t, err)

	// count is an unbound global in the lowered file, so esbuild renames
	// the parameter that shadows it.
	require.Contains(t, out.Code, "count2")
	require.Len(t, out.Renamed, 2)
	for offset, name := range out.Renamed {
		assert.Equal(t, "count", name)
		assert.True(t, strings.HasPrefix(out.Code[offset:], "count2"), "offset %d: %q", offset, out.Code[offset:])
	}
}

func TestLower_Errors(t *testing.T) {
	_, err := Lower("const el = <div>;", "broken.jsx", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "esbuild errors")
	assert.Contains(t, err.Error(), "broken.jsx:1:")

	_, err = Lower("const el = <div />;", "el.jsx", Options{Target: "es1999"})
	assert.EqualError(t, err, `unknown target "es1999"`)
}

func TestMinify(t *testing.T) {
	src := "const [count, _setCount] = React.useState(0);\n_setCount(count => count + 1);\n"
	out, err := Minify(src, "app.js", Options{})
	require.NoError(t, err)

	assert.Less(t, len(out), len(src))
	assert.Contains(t, out, "React.useState(0)")
}

func TestDecodeVLQ(t *testing.T) {
	tests := []struct {
		seg     string
		want    []int
		wantErr bool
	}{
		{seg: "AAAA", want: []int{0, 0, 0, 0}},
		{seg: "CADC", want: []int{1, 0, -1, 1}},
		{seg: "gBAAAA", want: []int{16, 0, 0, 0, 0}},
		{seg: "g", wantErr: true},
		{seg: "A*", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.seg, func(t *testing.T) {
			got, err := decodeVLQ(tt.seg)
			if tt.wantErr {
				require.ErrorIs(t, err, errBadMappings)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenamedIdents(t *testing.T) {
	code := "a;\nx(\"\U0001F600\", b2);\n"
	// Line 2: an unnamed segment at column 0 and one naming UTF-16 column 8,
	// which is byte 10 of the line once the surrogate pair is counted.
	data := []byte(`{"version":3,"names":["b"],"mappings":"AAAA;AACA,QAAAA"}`)

	got, err := renamedIdents(data, code)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{3 + 10: "b"}, got)
	assert.True(t, strings.HasPrefix(code[13:], "b2"))

	got, err = renamedIdents(nil, code)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = renamedIdents([]byte(`{"names":["b"],"mappings":"AAAAA,CC"}`), code)
	require.ErrorIs(t, err, errBadMappings)
}
