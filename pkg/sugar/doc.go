// Package sugar desugars labeled statements into calls of a paired-state,
// effect and memoization API.
//
// Two labels are recognized (both configurable):
//
//	ref: count = 0
//	watch: (count) => console.log(count)
//	watch: doubled = count => count * 2
//
// become
//
//	const [count, _setCount] = React.useState(0);
//	React.useEffect(() => console.log(count), [count]);
//	const doubled = React.useMemo(() => count * 2, [count]);
//
// Every later mutation of a declared name that still refers to the labeled
// declaration is rewritten into a call of its modifier:
//
//	count = 1    =>  _setCount(count => 1)
//	count += 2   =>  _setCount(count => count + 2)
//	count++      =>  _setCount(count => count + 1)
//
// Property mutations such as obj.a.b = 1 are moved into a mutate-in-place
// callback when Options.IgnoreMemberExpr is false.
//
// # Basic Usage
//
//	prog, err := parser.Parse(src)
//	if err != nil {
//	    return err
//	}
//	result, err := sugar.Transform(prog, sugar.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	fmt.Print(format.Format(prog))
//
// A pass is single-threaded and owns all of its state; run one pass per
// program. On error the program may be partially rewritten and must be
// discarded.
package sugar
