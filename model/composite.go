package model

import (
	"fmt"

	optrace "github.com/gazed/optrace"
	"github.com/gazed/optrace/element"
	"github.com/gazed/optrace/expr"
	"github.com/gazed/optrace/frame"
	"github.com/gazed/optrace/math/lin"
)

// CompositeModel builds one Recipe's frame/element tree against a Host,
// and owns its own PRNG (spec §9's "PRNG per model": "each composite
// model owns its own ExprRandomState with an epoch counter").
//
// Grounded on gazed-vu/entity.go's array-of-structs registry style for
// the frames/elements arenas (slot 0 = parent, sized to the recipe's
// context/step counts up front), and on gazed-vu/loader.go's batch/
// retry-queue pattern for the delayed-creation loop (step 7).
type CompositeModel struct {
	host   Host
	prefix string
	recipe *Recipe

	frames   []*frame.Frame
	elements []*element.OpticalElement
	scopes   []*expr.Scope // one per context, parented to host.Scope()

	rand *lin.RandomState
}

// NewCompositeModel returns a model ready for Build, with its own PRNG
// seeded with 1; SetSeed reseeds it.
func NewCompositeModel(host Host) *CompositeModel {
	return &CompositeModel{host: host, rand: lin.NewRandomState(1)}
}

// SetSeed reseeds this model's own PRNG, used by CompositeElementFactory
// to give each nested composite element a distinct, deterministic seed.
func (cm *CompositeModel) SetSeed(seed uint64) { cm.rand.Seed(seed) }

// Build runs the 11-step pipeline of spec §4.4 against recipe, attaching
// the resulting frame tree under parentFrame and prefixing every
// registered name with prefix (empty for the top-level model).
func (cm *CompositeModel) Build(recipe *Recipe, parentFrame *frame.Frame, prefix string) error {
	cm.recipe = recipe
	cm.prefix = prefix

	if err := cm.createParams(); err != nil {
		return err
	}
	cm.loadScripts()
	cm.initGlobalScope()
	if err := cm.registerCustomElements(); err != nil {
		return err
	}
	if err := cm.createFrames(parentFrame); err != nil {
		return err
	}
	if err := cm.createElements(); err != nil {
		return err
	}
	if err := cm.delayedCreationLoop(); err != nil {
		return err
	}
	if err := cm.createExpressions(); err != nil {
		return err
	}
	if err := cm.exposeOpticalPaths(); err != nil {
		return err
	}
	if err := cm.exposePorts(); err != nil {
		return err
	}
	return cm.assignEverything()
}

func (cm *CompositeModel) name(n string) string { return cm.prefix + n }

// step 1
func (cm *CompositeModel) createParams() error {
	for _, d := range cm.recipe.DOFs {
		p := expr.NewGenericModelParam(cm.name(d.Name), expr.Description{Min: d.Min, Max: d.Max, Default: d.Default})
		cm.host.RegisterDof(p)
	}
	for _, pr := range cm.recipe.Params {
		p := expr.NewGenericModelParam(cm.name(pr.Name), expr.Description{Min: pr.Min, Max: pr.Max, Default: pr.Default})
		cm.host.RegisterParam(p)
	}
	return nil
}

// step 2: loading user expression-function modules is out of scope (no
// scripting bridge is implemented here, per spec §1's non-goals); this
// is a deliberate no-op hook kept for pipeline-shape fidelity.
func (cm *CompositeModel) loadScripts() {}

// step 3
func (cm *CompositeModel) initGlobalScope() {
	scope := expr.NewScope(cm.host.Scope())
	scope.SetRandomState(cm.rand)
	for _, d := range cm.recipe.DOFs {
		if p, ok := lookupByName(cm.host, cm.name(d.Name), true); ok {
			scope.Define(cm.name(d.Name), p)
		}
	}
	for _, pr := range cm.recipe.Params {
		if p, ok := lookupByName(cm.host, cm.name(pr.Name), false); ok {
			scope.Define(cm.name(pr.Name), p)
		}
	}
	cm.scopes = make([]*expr.Scope, len(cm.recipe.Contexts))
	for i := range cm.scopes {
		cm.scopes[i] = scope
	}
}

func lookupByName(h Host, name string, isDof bool) (*expr.GenericModelParam, bool) {
	if t, ok := h.(*TopLevelModel); ok {
		if isDof {
			return t.Dof(name)
		}
		return t.Param(name)
	}
	return nil, false
}

// step 4
func (cm *CompositeModel) registerCustomElements() error {
	for _, ce := range cm.recipe.CustomElements {
		cf := &CompositeElementFactory{Recipe: ce.Nested, Host: cm.host}
		if err := cm.host.RegisterFactory(cm.name(ce.Name), cf.AsFactory()); err != nil {
			return optrace.Wrap(optrace.KindStructural, err, "registering custom element %q", ce.Name)
		}
	}
	return nil
}

// step 5
func (cm *CompositeModel) createFrames(parent *frame.Frame) error {
	cm.frames = make([]*frame.Frame, len(cm.recipe.Contexts))
	for i, ctx := range cm.recipe.Contexts {
		switch ctx.Kind {
		case ContextRoot:
			cm.frames[i] = parent
		case ContextPort:
			// resolved in delayedCreationLoop
			continue
		case ContextRotation, ContextTranslation:
			if ctx.ParentIndex < 0 || ctx.ParentIndex >= len(cm.frames) || cm.frames[ctx.ParentIndex] == nil {
				continue // parent not yet known; retried in delayedCreationLoop
			}
			f, err := cm.newContextFrame(i, ctx)
			if err != nil {
				return err
			}
			cm.frames[i] = f
		}
	}
	return nil
}

func (cm *CompositeModel) newContextFrame(idx int, ctx RecipeContext) (*frame.Frame, error) {
	p := cm.frames[ctx.ParentIndex]
	name := fmt.Sprintf("%sctx%d", cm.prefix, idx)
	switch ctx.Kind {
	case ContextRotation:
		axis := lin.V3{Z: 1}
		theta := 0.0
		if v, ok := ctx.FrameParams["eX"]; ok {
			axis.X = mustConst(v)
		}
		if v, ok := ctx.FrameParams["eY"]; ok {
			axis.Y = mustConst(v)
		}
		if v, ok := ctx.FrameParams["eZ"]; ok {
			axis.Z = mustConst(v)
		}
		if v, ok := ctx.FrameParams["angle"]; ok {
			theta = mustConst(v) * 3.141592653589793 / 180
		}
		return frame.NewRotated(p, name, axis, theta), nil
	case ContextTranslation:
		d := lin.V3{}
		if v, ok := ctx.FrameParams["dX"]; ok {
			d.X = mustConst(v)
		}
		if v, ok := ctx.FrameParams["dY"]; ok {
			d.Y = mustConst(v)
		}
		if v, ok := ctx.FrameParams["dZ"]; ok {
			d.Z = mustConst(v)
		}
		return frame.NewTranslated(p, name, d), nil
	default:
		return nil, optrace.Newf(optrace.KindStructural, "context %d: unsupported frame kind %v", idx, ctx.Kind)
	}
}

// mustConst parses a literal constant frame parameter at frame-creation
// time; non-constant frame parameters are instead driven by a compiled
// expression evaluator during createExpressions/assignEverything, which
// overwrites this initial value.
func mustConst(expression string) float64 {
	var v float64
	if _, err := fmt.Sscanf(expression, "%g", &v); err != nil {
		return 0
	}
	return v
}

// step 6
func (cm *CompositeModel) createElements() error {
	cm.elements = make([]*element.OpticalElement, 0)
	for _, ctx := range cm.recipe.Contexts {
		for _, step := range ctx.Elements {
			if step.Delayed {
				continue
			}
			f := cm.frames[step.ContextIndex]
			if f == nil {
				continue
			}
			if err := cm.instantiate(step, f); err != nil {
				return err
			}
		}
	}
	return nil
}

func (cm *CompositeModel) instantiate(step RecipeElementStep, f *frame.Frame) error {
	factory, ok := cm.host.LookupFactory(step.Factory)
	if !ok {
		return optrace.Newf(optrace.KindStructural, "element %q: unknown factory %q", step.Name, step.Factory)
	}
	oe, err := factory(cm.name(step.Name), f)
	if err != nil {
		return optrace.Wrap(optrace.KindStructural, err, "constructing element %q", step.Name)
	}
	cm.host.RegisterElement(cm.name(step.Name), oe)
	if d, ok := oe.AsDetector(); ok {
		cm.host.RegisterDetector(cm.name(step.Name), d)
	}
	cm.elements = append(cm.elements, oe)
	return nil
}

// step 7
func (cm *CompositeModel) delayedCreationLoop() error {
	pendingFrames := map[int]RecipeContext{}
	for i, ctx := range cm.recipe.Contexts {
		if cm.frames[i] == nil {
			pendingFrames[i] = ctx
		}
	}
	pendingSteps := []RecipeElementStep{}
	for _, ctx := range cm.recipe.Contexts {
		for _, step := range ctx.Elements {
			if step.Delayed {
				pendingSteps = append(pendingSteps, step)
			}
		}
	}

	for len(pendingFrames) > 0 || len(pendingSteps) > 0 {
		progress := false

		// (a) resolve port contexts
		for i, ctx := range pendingFrames {
			if ctx.Kind != ContextPort {
				continue
			}
			if f, ok := cm.host.(*TopLevelModel); ok {
				if pf, ok2 := f.Port(cm.name(ctx.PortName)); ok2 {
					cm.frames[i] = pf
					delete(pendingFrames, i)
					progress = true
				}
			}
		}

		// (b) create frames whose parent has just resolved
		for i, ctx := range pendingFrames {
			if ctx.Kind == ContextPort {
				continue
			}
			if ctx.ParentIndex < 0 || cm.frames[ctx.ParentIndex] == nil {
				continue
			}
			f, err := cm.newContextFrame(i, ctx)
			if err != nil {
				return err
			}
			cm.frames[i] = f
			delete(pendingFrames, i)
			progress = true
		}

		// (c) create delayed steps whose frame has just materialised
		remaining := pendingSteps[:0:0]
		for _, step := range pendingSteps {
			f := cm.frames[step.ContextIndex]
			if f == nil {
				remaining = append(remaining, step)
				continue
			}
			if err := cm.instantiate(step, f); err != nil {
				return err
			}
			progress = true
		}
		pendingSteps = remaining

		if !progress {
			return optrace.Newf(optrace.KindStructural,
				"delayed-creation loop made no progress with %d frame(s) and %d element(s) still pending",
				len(pendingFrames), len(pendingSteps))
		}
	}
	return nil
}

// step 8
func (cm *CompositeModel) createExpressions() error {
	for i, ctx := range cm.recipe.Contexts {
		local := cm.scopes[i]
		for varName, exprStr := range ctx.LocalVars {
			p := expr.NewGenericModelParam(cm.name(varName), expr.Description{Min: -1e300, Max: 1e300})
			e := &expr.GenericComponentParamEvaluator{Expression: exprStr, Target: expr.TargetVariable, Param: p}
			if err := e.Compile(local); err != nil {
				return optrace.Wrap(optrace.KindCompile, err, "context %d local var %q", i, varName)
			}
			local.Define(cm.name(varName), p)
			cm.host.Graph().Register(e)
		}
		for axisName, exprStr := range ctx.FrameParams {
			f := cm.frames[i]
			if f == nil {
				continue
			}
			e, err := cm.frameParamEvaluator(ctx, f, axisName, exprStr)
			if err != nil {
				return err
			}
			if err := e.Compile(local); err != nil {
				return optrace.Wrap(optrace.KindCompile, err, "context %d frame param %q", i, axisName)
			}
			cm.host.Graph().Register(e)
		}
		for _, step := range ctx.Elements {
			if err := cm.elementExpressions(step, local); err != nil {
				return err
			}
		}
	}
	return nil
}

func (cm *CompositeModel) frameParamEvaluator(ctx RecipeContext, f *frame.Frame, axisName, exprStr string) (*expr.GenericComponentParamEvaluator, error) {
	var target expr.TargetVariant
	var axis expr.FrameAxis
	switch ctx.Kind {
	case ContextRotation:
		target = expr.TargetRotatedFrame
	case ContextTranslation:
		target = expr.TargetTranslatedFrame
	default:
		return nil, optrace.Newf(optrace.KindStructural, "frame parameter %q on a non-rotation/translation context", axisName)
	}
	switch axisName {
	case "angle":
		axis = expr.AxisAngle
	case "eX", "dX":
		axis = expr.AxisX
	case "eY", "dY":
		axis = expr.AxisY
	case "eZ", "dZ":
		axis = expr.AxisZ
	default:
		return nil, optrace.Newf(optrace.KindStructural, "unknown frame parameter %q", axisName)
	}
	return &expr.GenericComponentParamEvaluator{Expression: exprStr, Target: target, Frame: f, Axis: axis}, nil
}

func (cm *CompositeModel) elementExpressions(step RecipeElementStep, local *expr.Scope) error {
	oe, ok := cm.host.(*TopLevelModel)
	var el *element.OpticalElement
	if ok {
		el, ok = oe.Element(cm.name(step.Name))
	}
	if !ok {
		return nil // custom-element façade or not a TopLevelModel host; nothing more to bind here
	}
	for i, exprStr := range step.PositionalParams {
		e := &expr.GenericComponentParamEvaluator{
			Expression:    exprStr,
			Target:        expr.TargetElement,
			Element:       el.Element,
			PropertyIndex: i,
		}
		if err := e.Compile(local); err != nil {
			return optrace.Wrap(optrace.KindCompile, err, "element %q positional param %d", step.Name, i)
		}
		cm.host.Graph().Register(e)
	}
	for name, exprStr := range step.NamedParams {
		e := &expr.GenericComponentParamEvaluator{
			Expression:    exprStr,
			Target:        expr.TargetElement,
			Element:       el.Element,
			PropertyName:  name,
			PropertyIndex: -1,
		}
		if err := e.Compile(local); err != nil {
			return optrace.Wrap(optrace.KindCompile, err, "element %q param %q", step.Name, name)
		}
		cm.host.Graph().Register(e)
	}
	return nil
}

// step 9
func (cm *CompositeModel) exposeOpticalPaths() error {
	t, ok := cm.host.(*TopLevelModel)
	if !ok {
		return nil
	}
	for _, decl := range cm.recipe.Paths {
		p := element.NewOpticalPath(cm.name(decl.Name))
		for _, tok := range decl.Tokens {
			elemName, surfName := splitToken(tok)
			oe, ok := t.Element(cm.name(elemName))
			if !ok {
				return optrace.Newf(optrace.KindStructural, "path %q: unknown element %q", decl.Name, elemName)
			}
			if err := p.Plug(oe, surfName); err != nil {
				return optrace.Wrap(optrace.KindStructural, err, "path %q", decl.Name)
			}
		}
		cm.host.RegisterPath(cm.name(decl.Name), p)
	}
	return nil
}

func splitToken(tok string) (elemName, subPath string) {
	for i := 0; i < len(tok); i++ {
		if tok[i] == '.' {
			return tok[:i], tok[i+1:]
		}
	}
	return tok, ""
}

// step 10
func (cm *CompositeModel) exposePorts() error {
	for _, p := range cm.recipe.Ports {
		if p.ContextIndex < 0 || p.ContextIndex >= len(cm.frames) {
			return optrace.Newf(optrace.KindStructural, "port %q: context index out of range", p.Name)
		}
		f := cm.frames[p.ContextIndex]
		if f == nil {
			return optrace.Newf(optrace.KindStructural, "port %q: owning context never resolved a frame", p.Name)
		}
		cm.host.RegisterPort(cm.name(p.Name), f)
	}
	return nil
}

// step 11
func (cm *CompositeModel) assignEverything() error {
	return cm.host.Graph().AssignAll()
}

// updateRandState bumps this model's own PRNG epoch, depth-first before
// any enclosing model's — see design note in toplevel.go's
// OMModel.UpdateRandState.
func (cm *CompositeModel) updateRandState() error {
	cm.rand.BumpEpoch()
	return nil
}
