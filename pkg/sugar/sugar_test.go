package sugar

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/labelsugar/pkg/format"
	"github.com/leapstack-labs/labelsugar/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// desugar parses src, runs a pass with opts and prints the result.
func desugar(t *testing.T, src string, opts Options) (string, *Result) {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err)
	result, err := Transform(prog, opts)
	require.NoError(t, err)
	return format.Format(prog), result
}

func immerOptions() Options {
	opts := DefaultOptions()
	opts.StateLabel = "$"
	opts.StateFactory = "useImmer"
	opts.IgnoreMemberExpr = false
	return opts
}

func TestTransform_State(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		opts     Options
		expected string
	}{
		{
			name: "declaration and closure mutation",
			input: `function App() {
  ref: count = 20 * 3;
  return () => count = count + 1;
}`,
			opts: DefaultOptions(),
			expected: `function App() {
  const [count, _setCount] = React.useState(20 * 3);
  return () => _setCount(count => count + 1);
}
`,
		},
		{
			name: "modifier names avoid existing bindings",
			input: `function App() {
  const setCount = () => {};
  const setCount2 = () => {};
  const _setCount2 = () => {};
  ref: count = 0;
  ref: count2 = 1;
  return () => {
    count = 1;
    count2 = 2;
  };
}`,
			opts: DefaultOptions(),
			expected: `function App() {
  const setCount = () => {};
  const setCount2 = () => {};
  const _setCount2 = () => {};
  const [count, _setCount] = React.useState(0);
  const [count2, _setCount3] = React.useState(1);
  return () => {
    _setCount(count => 1);
    _setCount3(count2 => 2);
  };
}
`,
		},
		{
			name: "other names untouched",
			input: `function App() {
  ref: count = 0;
  let other = 1;
  return () => {
    count = 1;
    other = 1;
  };
}`,
			opts: DefaultOptions(),
			expected: `function App() {
  const [count, _setCount] = React.useState(0);
  let other = 1;
  return () => {
    _setCount(count => 1);
    other = 1;
  };
}
`,
		},
		{
			name: "compound and update operators",
			input: `ref: count = 0;
count *= 2;
count -= 1;
count **= 2;
count ??= 1;
count ||= 3;
count++;
--count;`,
			opts: DefaultOptions(),
			expected: `const [count, _setCount] = React.useState(0);
_setCount(count => count * 2);
_setCount(count => count - 1);
_setCount(count => count ** 2);
_setCount(count => count ?? 1);
_setCount(count => count || 3);
_setCount(count => count + 1);
_setCount(count => count - 1);
`,
		},
		{
			name:     "custom label and factory",
			input:    `$: count = 0;`,
			opts:     immerOptions(),
			expected: "const [count, _setCount] = useImmer(0);\n",
		},
		{
			name:     "names referenced anywhere are skipped",
			input:    "ref: count = 0;\n_setCount();\n",
			opts:     DefaultOptions(),
			expected: "const [count, _setCount2] = React.useState(0);\n_setCount();\n",
		},
		{
			name:  "leading underscore and digits share a stem",
			input: "ref: _x2 = 0;\n",
			opts:  DefaultOptions(),
			// set + _x2 has no leading underscore to strip; only the digit goes.
			expected: "const [_x2, _set_x] = React.useState(0);\n",
		},
		{
			name:     "right side is rewritten too",
			input:    "ref: a = 0;\nref: b = a = 1;\n",
			opts:     DefaultOptions(),
			expected: "const [a, _setA] = React.useState(0);\nconst [b, _setB] = React.useState(_setA(a => 1));\n",
		},
		{
			name:     "comments stay with the declaration",
			input:    "// clicks so far\nref: count = 0;\n",
			opts:     DefaultOptions(),
			expected: "// clicks so far\nconst [count, _setCount] = React.useState(0);\n",
		},
		{
			name:     "unmatched labels are kept and visited",
			input:    "ref: n = 0;\nloop: while (n < 3) n++;\n",
			opts:     DefaultOptions(),
			expected: "const [n, _setN] = React.useState(0);\nloop: while (n < 3) _setN(n => n + 1);\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := desugar(t, tt.input, tt.opts)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTransform_Shadowing(t *testing.T) {
	input := `ref: count = 0;
function f(count) {
  count = 1;
}
{
  let count = 2;
  count++;
}
const g = () => {
  var count;
  count = 4;
};
for (let count = 0; count < 3; count++) {}
try {} catch (count) {
  count = 5;
}
count = 3;`
	expected := `const [count, _setCount] = React.useState(0);
function f(count) {
  count = 1;
}
{
  let count = 2;
  count++;
}
const g = () => {
  var count;
  count = 4;
};
for (let count = 0; count < 3; count++) {}
try {} catch (count) {
  count = 5;
}
_setCount(count => 3);
`
	got, result := desugar(t, input, DefaultOptions())
	assert.Equal(t, expected, got)
	assert.Equal(t, 1, result.Mutations)
}

func TestTransform_BlockScopedState(t *testing.T) {
	input := `function App() {
  if (ok) {
    ref: a = 1;
    a = 2;
  }
  a = 3;
}`
	expected := `function App() {
  if (ok) {
    const [a, _setA] = React.useState(1);
    _setA(a => 2);
  }
  a = 3;
}
`
	got, _ := desugar(t, input, DefaultOptions())
	assert.Equal(t, expected, got)
}

func TestTransform_NearestDeclarationWins(t *testing.T) {
	input := `ref: v = 0;
function inner() {
  ref: v = 1;
  v = 2;
}
v = 3;`
	expected := `const [v, _setV] = React.useState(0);
function inner() {
  const [v, _setV2] = React.useState(1);
  _setV2(v => 2);
}
_setV(v => 3);
`
	got, result := desugar(t, input, DefaultOptions())
	assert.Equal(t, expected, got)
	require.Len(t, result.Bindings, 2)
	assert.Equal(t, "_setV", result.Bindings[0].Modifier.Name)
	assert.Equal(t, "_setV2", result.Bindings[1].Modifier.Name)
}

func TestTransform_MemberExpressions(t *testing.T) {
	t.Run("ignored by default", func(t *testing.T) {
		input := "ref: obj = { count: 0 };\nobj.count = 2;\nobj.count++;\n"
		expected := "const [obj, _setObj] = React.useState({ count: 0 });\nobj.count = 2;\nobj.count++;\n"
		got, result := desugar(t, input, DefaultOptions())
		assert.Equal(t, expected, got)
		assert.Zero(t, result.Wrapped)
	})

	t.Run("wrapped when enabled", func(t *testing.T) {
		input := "$: obj = { count: 0, foo: { bar: 1 } }; obj.count = 2; obj.count++; obj.foo.bar = 2;"
		expected := `const [obj, _setObj] = useImmer({ count: 0, foo: { bar: 1 } });
_setObj(obj => {
  obj.count = 2;
});
_setObj(obj => {
  obj.count++;
});
_setObj(obj => {
  obj.foo.bar = 2;
});
`
		got, result := desugar(t, input, immerOptions())
		assert.Equal(t, expected, got)
		assert.Equal(t, 3, result.Wrapped)
		assert.Zero(t, result.Mutations)
	})

	t.Run("shadowed root is left alone", func(t *testing.T) {
		input := "$: obj = {};\nfunction f(obj) {\n  obj.a = 1;\n}\n"
		expected := "const [obj, _setObj] = useImmer({});\nfunction f(obj) {\n  obj.a = 1;\n}\n"
		got, _ := desugar(t, input, immerOptions())
		assert.Equal(t, expected, got)
	})

	t.Run("chained targets share one callback", func(t *testing.T) {
		input := "$: obj = {};\nobj.a = obj.b = 2;\n"
		expected := "const [obj, _setObj] = useImmer({});\n_setObj(obj => {\n  obj.a = obj.b = 2;\n});\n"
		got, result := desugar(t, input, immerOptions())
		assert.Equal(t, expected, got)
		assert.Equal(t, 1, result.Wrapped)
	})

	t.Run("non-reactive roots are left alone", func(t *testing.T) {
		input := "$: obj = {};\nother.a = 1;\nthis.a = 2;\n"
		expected := "const [obj, _setObj] = useImmer({});\nother.a = 1;\nthis.a = 2;\n"
		got, _ := desugar(t, input, immerOptions())
		assert.Equal(t, expected, got)
	})
}

func TestTransform_Watch(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "effect",
			input:    "watch: (a, b) => console.log(a, b);",
			expected: "React.useEffect(() => console.log(a, b), [a, b]);\n",
		},
		{
			name:     "effect without deps",
			input:    "watch: () => mount();",
			expected: "React.useEffect(() => mount(), []);\n",
		},
		{
			name:     "effect from function expression",
			input:    "watch: (function (a) {\n  log(a);\n});",
			expected: "React.useEffect(() => {\n  log(a);\n}, [a]);\n",
		},
		{
			name:     "memo",
			input:    "watch: doubled = count => count * 2;",
			expected: "const doubled = React.useMemo(() => count * 2, [count]);\n",
		},
		{
			name:     "memo from function expression",
			input:    "watch: total = function (price, qty) {\n  return price * qty;\n};",
			expected: "const total = React.useMemo(() => {\n  return price * qty;\n}, [price, qty]);\n",
		},
		{
			name: "effect body mutates state",
			input: `ref: count = 0;
watch: (count) => {
  count++;
};`,
			expected: `const [count, _setCount] = React.useState(0);
React.useEffect(() => {
  _setCount(count => count + 1);
}, [count]);
`,
		},
		{
			name:     "memo name is an ordinary constant",
			input:    "ref: total = 0;\nfunction f() {\n  watch: total = (a) => a * 2;\n  total = 5;\n}\n",
			expected: "const [total, _setTotal] = React.useState(0);\nfunction f() {\n  const total = React.useMemo(() => a * 2, [a]);\n  total = 5;\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := desugar(t, tt.input, DefaultOptions())
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTransform_CustomFactories(t *testing.T) {
	opts := Options{
		StateLabel:    "state",
		WatchLabel:    "effect",
		StateFactory:  "useSignal",
		EffectFactory: "hooks.effect",
		MemoFactory:   "hooks.memo",
	}
	input := "state: n = 1;\neffect: (n) => print(n);\neffect: twice = (n) => n * 2;\nref: untouched = 1;\n"
	expected := `const [n, _setN] = useSignal(1);
hooks.effect(() => print(n), [n]);
const twice = hooks.memo(() => n * 2, [n]);
ref: untouched = 1;
`
	got, result := desugar(t, input, opts)
	assert.Equal(t, expected, got)
	assert.Equal(t, 1, result.Effects)
	assert.Equal(t, 1, result.Memos)
	assert.Equal(t, 3, result.Rewrites())
}

func TestTransform_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   error
		pos   string
	}{
		{"state not expression", "ref: if (true) {}", ErrStateNotExpression, "1:6"},
		{"state not assignment", "ref: count * 3;", ErrStateNotAssignment, "1:6"},
		{"state compound assignment", "ref: count += 3;", ErrStateNotAssignment, "1:6"},
		{"state target not identifier", "ref: [a] = [1];", ErrStateTargetNotIdent, "1:6"},
		{"watch not expression", "watch: if (a) {}", ErrWatchShape, "1:8"},
		{"watch plain expression", "watch: a + b;", ErrWatchShape, "1:8"},
		{"watch compound memo", "watch: total += () => 1;", ErrWatchShape, "1:8"},
		{"watch right not function", "watch: total = 5;", ErrWatchRightNotFunc, "1:16"},
		{"watch right named function", "watch: total = function named() {};", ErrWatchRightNotFunc, "1:16"},
		{"watch left not identifier", "watch: obj.total = () => 1;", ErrWatchLeftNotIdent, "1:8"},
		{"watch pattern dependency", "watch: ({ a }) => a;", ErrWatchDeps, "1:9"},
		{"watch default dependency", "watch: (a = 1) => a;", ErrWatchDeps, "1:9"},
		{"watch rest dependency", "watch: (...a) => a;", ErrWatchDeps, "1:9"},
		{"watch async effect", "watch: async (a) => { await a; };", ErrWatchShape, "1:8"},
		{"watch async function effect", "watch: (async function (a) { await a; });", ErrWatchShape, "1:9"},
		{"watch async memo", "watch: total = async () => 1;", ErrWatchShape, "1:16"},
		{"watch generator memo", "watch: total = function* (a) { yield a; };", ErrWatchShape, "1:16"},
		{"nested", "function f() {\n  ref: [x] = [];\n}", ErrStateTargetNotIdent, "2:8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := parser.Parse(tt.input)
			require.NoError(t, err)

			_, err = Transform(prog, DefaultOptions())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)

			var serr *Error
			require.True(t, errors.As(err, &serr))
			assert.Equal(t, tt.pos, serr.Pos.String())
			assert.Equal(t, tt.pos+": "+tt.err.Error(), err.Error())
		})
	}
}

func TestTransform_ErrorLabel(t *testing.T) {
	prog, err := parser.Parse("$: a + 1;")
	require.NoError(t, err)

	_, err = Transform(prog, immerOptions())
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "$", serr.Label)
}

func TestTransform_InvalidOptions(t *testing.T) {
	prog, err := parser.Parse("ref: a = 1;")
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.WatchLabel = "ref"
	_, err = Transform(prog, opts)
	assert.EqualError(t, err, `state label and watch label must differ, both are "ref"`)
}
