/*
Package dsl provides a Go DSL for programmatically constructing Delta algorithms.

It builds the same action tree the program text compiler produces, using a
fluent builder instead of text. This is useful for tests, for seeding stores and
for generating algorithms from other sources.

Example usage:

	b := dsl.New("Even or odd")
	b.Input("n", "42").
		If("n % 2 = 0", func(then *dsl.Block) {
			then.Print("even")
		}).
		Else(func(otherwise *dsl.Block) {
			otherwise.Print("odd")
		})

	alg, err := b.Build()
	if err != nil {
		// an expression or a variable name is invalid
	}
	alg.Execute(func() {})
*/
package dsl
