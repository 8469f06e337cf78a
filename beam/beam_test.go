package beam

import (
	"testing"

	"github.com/gazed/optrace/math/lin"
)

func TestAllocateDefaultsRefNdxToOne(t *testing.T) {
	b := NewRayBeam()
	b.Allocate(10)
	for i := 0; i < 10; i++ {
		if b.RefNdx(i) != 1.0 {
			t.Errorf("ray %d: expected refNdx 1.0 on growth, got %v", i, b.RefNdx(i))
		}
	}
}

func TestAllocateNeverShrinksCapacity(t *testing.T) {
	b := NewRayBeam()
	b.Allocate(64)
	cap0 := b.Capacity()
	b.Allocate(8)
	if b.Capacity() != cap0 {
		t.Errorf("expected capacity to remain %d, got %d", cap0, b.Capacity())
	}
	if b.Count() != 8 {
		t.Errorf("expected count 8, got %d", b.Count())
	}
}

func TestPruneRespectsChiefException(t *testing.T) {
	b := NewRayBeam()
	b.Allocate(4)
	b.SetChief(0, true)
	b.Prune(0)
	b.Prune(1)
	if !b.HasRay(0) {
		t.Error("chief ray must survive Prune")
	}
	if b.HasRay(1) {
		t.Error("non-chief ray should be pruned")
	}
}

func TestSetChiefRevivesRay(t *testing.T) {
	b := NewRayBeam()
	b.Allocate(2)
	b.Prune(0)
	if b.HasRay(0) {
		t.Fatal("setup: ray should be pruned")
	}
	b.SetChief(0, true)
	if !b.HasRay(0) {
		t.Error("SetChief(true) must revive the ray (isChief ⇒ hasRay)")
	}
}

func TestPruneAllThenSetAllChiefRevivesEveryRay(t *testing.T) {
	b := NewRayBeam()
	b.Allocate(130) // spans 3 bitset words
	b.PruneAll()
	for i := 0; i < 130; i++ {
		if b.HasRay(i) {
			t.Fatalf("ray %d should be pruned after PruneAll", i)
		}
	}
	b.SetAllChief()
	for i := 0; i < 130; i++ {
		if !b.HasRay(i) || !b.IsChief(i) {
			t.Fatalf("ray %d should be alive and chief after SetAllChief", i)
		}
	}
}

func TestUpdateOriginsCopiesDestinationsAndSnapshotsMask(t *testing.T) {
	b := NewRayBeam()
	b.Allocate(2)
	b.SetDestination(0, lin.V3{X: 1, Y: 2, Z: 3})
	b.Prune(1)
	b.UpdateOrigins()
	if b.Origin(0) != (lin.V3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("expected origin to adopt destination, got %+v", b.Origin(0))
	}
	if b.WasAlive(1) {
		t.Error("expected prevMask to reflect the pruned ray")
	}
	if !b.WasAlive(0) {
		t.Error("expected prevMask to reflect the surviving ray")
	}
}

func TestUpdateOriginsIdempotentOnRepeat(t *testing.T) {
	b := NewRayBeam()
	b.Allocate(3)
	b.Prune(1)
	b.UpdateOrigins()
	snapshot := append([]lin.V3{}, b.origins...)
	b.UpdateOrigins()
	for i, v := range snapshot {
		if b.origins[i] != v {
			t.Errorf("origins changed on idempotent UpdateOrigins at %d", i)
		}
	}
	for i := 0; i < 3; i++ {
		if b.WasAlive(i) != b.HasRay(i) {
			t.Errorf("ray %d: prevMask should equal mask after two updates", i)
		}
	}
}

func TestUpdateFromVisibleAdoptsShorterIntercept(t *testing.T) {
	main := NewRayBeam()
	main.SetSequential(false)
	main.Allocate(2)
	main.SetAllChief()

	s1 := newFakeSurface("s1")
	cand1 := NewRayBeam()
	cand1.Allocate(2)
	cand1.SetLength(0, 5)
	cand1.SetIntercepted(0, true)

	n := main.UpdateFromVisible(s1, cand1)
	if n != 1 {
		t.Fatalf("expected 1 newly transferred ray, got %d", n)
	}
	if main.Length(0) != 5 || main.Surface(0) != s1 {
		t.Errorf("expected ray 0 to adopt s1's intersection at length 5")
	}

	s2 := newFakeSurface("s2")
	cand2 := NewRayBeam()
	cand2.Allocate(2)
	cand2.SetLength(0, 2) // shorter: should win
	cand2.SetIntercepted(0, true)

	n2 := main.UpdateFromVisible(s2, cand2)
	if n2 != 0 {
		t.Errorf("ray already claimed should not count as newly transferred, got %d", n2)
	}
	if main.Length(0) != 2 || main.Surface(0) != s2 {
		t.Errorf("expected ray 0 to adopt the shorter s2 intersection")
	}
}

func TestUpdateFromVisibleIgnoresLongerIntercept(t *testing.T) {
	main := NewRayBeam()
	main.SetSequential(false)
	main.Allocate(1)
	main.SetAllChief()

	s1 := newFakeSurface("s1")
	cand1 := NewRayBeam()
	cand1.Allocate(1)
	cand1.SetLength(0, 2)
	cand1.SetIntercepted(0, true)
	main.UpdateFromVisible(s1, cand1)

	s2 := newFakeSurface("s2")
	cand2 := NewRayBeam()
	cand2.Allocate(1)
	cand2.SetLength(0, 9) // longer: should lose
	cand2.SetIntercepted(0, true)
	main.UpdateFromVisible(s2, cand2)

	if main.Surface(0) != s1 || main.Length(0) != 2 {
		t.Errorf("expected ray to keep the shorter s1 intersection, got surface=%v length=%v", main.Surface(0), main.Length(0))
	}
}

func TestCopyToZeroesDestinationIntMask(t *testing.T) {
	src := NewRayBeam()
	src.Allocate(2)
	src.SetIntercepted(0, true)
	dst := NewRayBeam()
	src.CopyTo(dst)
	if dst.IsIntercepted(0) {
		t.Error("CopyTo must zero the destination's intMask")
	}
	if dst.Count() != 2 {
		t.Errorf("expected dst count 2, got %d", dst.Count())
	}
}
