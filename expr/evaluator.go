package expr

// CustomFunc is a user-registered expression function, called with its
// evaluated arguments.
type CustomFunc func(args []float64) float64

// GenericEvaluator is the pluggable expression-evaluator protocol: any
// implementation that compiles a string expression over a Scope, reports
// which symbols it read, and evaluates to a float64 can back a
// GenericComponentParamEvaluator. The expression-compiler backend itself
// is out of scope for this module; NewDefaultEvaluator is the small
// reference implementation that exercises the interface.
type GenericEvaluator interface {
	// Compile parses expression against scope, recording every
	// identifier it resolves as a dependency. Returns false on a syntax
	// error or an identifier that scope cannot resolve.
	Compile(expression string, scope *Scope) bool

	// Dependencies returns the names of every GenericModelParam this
	// expression reads, in first-use order.
	Dependencies() []string

	// Evaluate returns the expression's current value, reading whatever
	// Scope was passed to Compile.
	Evaluate() float64

	// RegisterCustomFunction installs a named function callable from
	// expressions compiled afterward.
	RegisterCustomFunction(name string, fn CustomFunc)
}
