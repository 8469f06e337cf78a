package model

import (
	"math"
	"testing"

	optrace "github.com/gazed/optrace"
	"github.com/gazed/optrace/beam"
	"github.com/gazed/optrace/element"
	"github.com/gazed/optrace/engine"
	"github.com/gazed/optrace/frame"
	"github.com/gazed/optrace/math/lin"
)

func buildDetectorRecipe() *Recipe {
	return &Recipe{
		Contexts: []RecipeContext{
			{Kind: ContextRoot, ParentIndex: -1},
			{
				Kind:        ContextTranslation,
				ParentIndex: 0,
				FrameParams: map[string]string{"dZ": "10"},
				Elements: []RecipeElementStep{
					{Factory: "Detector", ContextIndex: 1, Name: "bfp"},
				},
			},
		},
		Paths: []RecipePath{{Name: "main", Tokens: []string{"bfp"}}},
	}
}

func TestCompositeModelBuildAutoRegistersDetector(t *testing.T) {
	top := NewTopLevelModel(1)
	cm := NewCompositeModel(top)
	if err := cm.Build(buildDetectorRecipe(), top.World, ""); err != nil {
		t.Fatalf("build: %v", err)
	}

	if _, ok := top.Element("bfp"); !ok {
		t.Fatal("expected detector to also be registered as an opticalElement")
	}
	if _, ok := top.Detector("bfp"); !ok {
		t.Fatal("expected detector 'bfp' to be registered")
	}
}

func TestOMModelTraceClearsDetectorsAndRecordsFootprint(t *testing.T) {
	top := NewTopLevelModel(1)
	cm := NewCompositeModel(top)
	if err := cm.Build(buildDetectorRecipe(), top.World, ""); err != nil {
		t.Fatalf("build: %v", err)
	}

	d, ok := top.Detector("bfp")
	if !ok {
		t.Fatal("expected detector 'bfp'")
	}
	d.Surface.AppendHit(element.Hit{RayID: 99})

	om := &OMModel{TopLevelModel: top, engine: engine.New()}
	om.engine.PushRay(beam.Ray{Origin: lin.V3{Z: 0}, Direction: lin.V3{Z: 1}, Chief: true})
	if err := om.Trace("main"); err != nil {
		t.Fatalf("trace: %v", err)
	}

	fp, err := om.DetectorFootprint("bfp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fp.N != 1 {
		t.Fatalf("expected stale hit cleared and exactly 1 new hit recorded, got N=%d", fp.N)
	}
	if math.Abs(fp.Centroid.X) > 1e-9 || math.Abs(fp.Centroid.Y) > 1e-9 {
		t.Errorf("expected the on-axis ray to land at the origin, got %+v", fp.Centroid)
	}
}

func TestOMModelDetectorFootprintMissingDetector(t *testing.T) {
	top := NewTopLevelModel(1)
	om := &OMModel{TopLevelModel: top, engine: engine.New()}

	_, err := om.DetectorFootprint("nope")
	if err == nil {
		t.Fatal("expected an error for a missing detector")
	}
	oerr, ok := err.(*optrace.Error)
	if !ok {
		t.Fatalf("expected *optrace.Error, got %T", err)
	}
	if oerr.Kind != optrace.KindTracer {
		t.Errorf("expected KindTracer, got %v", oerr.Kind)
	}
}
