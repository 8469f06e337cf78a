package expr

// Graph is an arena of compiled GenericComponentParamEvaluators in
// creation order, grounded on gazed-vu/entity.go's array-of-structs
// registry style. The model builder registers every evaluator it
// compiles here (spec §4.4 step 8) and then drives assignEverything
// (step 11) by walking the arena in registration order.
type Graph struct {
	evaluators []*GenericComponentParamEvaluator
}

// NewGraph returns an empty arena.
func NewGraph() *Graph { return &Graph{} }

// Register appends e, returning its stable arena index.
func (g *Graph) Register(e *GenericComponentParamEvaluator) int {
	g.evaluators = append(g.evaluators, e)
	return len(g.evaluators) - 1
}

// Len returns the number of registered evaluators.
func (g *Graph) Len() int { return len(g.evaluators) }

// At returns the evaluator registered at idx.
func (g *Graph) At(idx int) *GenericComponentParamEvaluator { return g.evaluators[idx] }

// AssignAll calls Assign on every registered evaluator in creation
// order, per spec §4.4 step 11 ("assignEverything"). It stops and
// returns the first error encountered.
func (g *Graph) AssignAll() error {
	for _, e := range g.evaluators {
		if err := e.Assign(); err != nil {
			return err
		}
	}
	return nil
}
