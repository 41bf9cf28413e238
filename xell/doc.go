// Package xell implements the Xell scripting language: a lexer, a Pratt
// parser and a tree-walking evaluator with closures, generators and
// async functions. The language supports:
//   - Function definitions via `fn name(a, b = 1, ...rest): ... ;` with
//     `give` to return, decorators written `@dec` and `async fn`.
//   - Lambdas `x => x + 1`, `(a, b) => a * b` and `x => : ... ;` which
//     capture a snapshot of the scope they are created in.
//   - Literals for ints, floats, imaginary numbers, strings with `{expr}`
//     interpolation, raw strings, bytes, lists, tuples, sets, frozensets
//     `<a, b>` and maps, with `...spread` inside collection literals.
//   - Control flow with if/elif/else, for-in, while, try/catch/finally,
//     incase, break and continue.
//   - Generators: any function whose body yields returns a Generator that
//     runs its body on a dedicated goroutine, handing control back and forth
//     with the caller at every yield.
//   - Modules: `bring a, b from "path" as x, y` and `bring * from "path"`,
//     with circular imports reported as BringError.
//
// Comments begin with `#` and run to the end of the line; `--> ... <--`
// spans lines. An Interpreter is not safe for concurrent use.
package xell
