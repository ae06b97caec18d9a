package particles

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func newSubTemplate(t *testing.T) *System {
	t.Helper()
	sub, err := NewSystem("spark", 8, 7)
	if err != nil {
		t.Fatal(err)
	}
	sub.EmitRate = 100
	sub.MinLifeTime = 0.05
	sub.MaxLifeTime = 0.05
	sub.TargetStopDuration = 0.1
	return sub
}

func TestCascadeSpawnsOneChildPerRetirement(t *testing.T) {
	root := newTestSystem(t, 4)
	root.EmitRate = 0
	root.MinLifeTime = 0.05
	root.MaxLifeTime = 0.05
	root.SubEmitters = []*System{newSubTemplate(t)}
	if err := root.Start(); err != nil {
		t.Fatal(err)
	}

	root.Emit(1)
	root.Tick(0.01)
	if root.ActiveCount() != 1 {
		t.Fatalf("expected 1 live particle, got %d", root.ActiveCount())
	}
	if root.ChildCount() != 0 {
		t.Fatalf("expected no children before retirement, got %d", root.ChildCount())
	}

	// Age the particle past its lifetime: exactly one child per retirement.
	root.Tick(0.1)
	if root.ActiveCount() != 0 {
		t.Fatalf("expected retired particle, %d still active", root.ActiveCount())
	}
	if root.ChildCount() != 1 {
		t.Fatalf("expected 1 child system, got %d", root.ChildCount())
	}

	child := root.Children()[0]
	if child.Root() != root {
		t.Error("child root back-reference not set")
	}
	if !child.Started() {
		t.Error("child system should be started")
	}
}

func TestCascadeChildSpawnsAtDeathPosition(t *testing.T) {
	root := newTestSystem(t, 1)
	root.EmitRate = 0
	root.MinLifeTime = 0.05
	root.MaxLifeTime = 0.05
	root.MinEmitPower = 0
	root.MaxEmitPower = 0
	root.Frame = IdentityFrame(r3.Vec{X: 3, Y: 4, Z: 5})
	root.SubEmitters = []*System{newSubTemplate(t)}
	if err := root.Start(); err != nil {
		t.Fatal(err)
	}

	root.Emit(1)
	root.Tick(0.01)
	// Zero power and zero gravity: the particle dies where it spawned.
	root.Tick(0.1)

	if root.ChildCount() != 1 {
		t.Fatalf("expected 1 child, got %d", root.ChildCount())
	}
	child := root.Children()[0]
	if child.Frame.Origin != (r3.Vec{X: 3, Y: 4, Z: 5}) {
		t.Errorf("child emitter at %v, want death position {3 4 5}", child.Frame.Origin)
	}
}

func TestCascadeGrandchildrenFunnelToRoot(t *testing.T) {
	// Long-lived grandchild template so clones are still in the set at the
	// end of the run.
	grandTemplate, err := NewSystem("ember", 8, 11)
	if err != nil {
		t.Fatal(err)
	}
	grandTemplate.EmitRate = 10
	grandTemplate.MinLifeTime = 1
	grandTemplate.MaxLifeTime = 1

	childTemplate := newSubTemplate(t)
	childTemplate.Name = "burst"
	childTemplate.SubEmitters = []*System{grandTemplate}

	root := newTestSystem(t, 2)
	root.EmitRate = 0
	root.MinLifeTime = 0.05
	root.MaxLifeTime = 0.05
	root.SubEmitters = []*System{childTemplate}
	if err := root.Start(); err != nil {
		t.Fatal(err)
	}

	root.Emit(1)
	for i := 0; i < 6; i++ { // retire the root particle -> one "burst" child
		root.Tick(0.01)
	}
	if root.ChildCount() != 1 {
		t.Fatalf("expected 1 child, got %d", root.ChildCount())
	}

	// Run until the burst's particles retire and spawn grandchildren.
	for i := 0; i < 12; i++ {
		root.Tick(0.02)
	}

	foundGrandchild := false
	for _, c := range root.Children() {
		if c.Root() != root {
			t.Errorf("child %q has root %q, want the original root", c.Name, c.Root().Name)
		}
		if c.ChildCount() != 0 {
			t.Error("non-root system holds its own children")
		}
		if c.Name == "ember" {
			foundGrandchild = true
		}
	}
	if !foundGrandchild {
		t.Errorf("expected grandchildren in the root's set, got %d children", len(root.Children()))
	}
}

func TestStopChildrenEmptiesSet(t *testing.T) {
	root := newTestSystem(t, 4)
	root.EmitRate = 0
	root.MinLifeTime = 0.05
	root.MaxLifeTime = 0.05
	root.SubEmitters = []*System{newSubTemplate(t)}
	if err := root.Start(); err != nil {
		t.Fatal(err)
	}

	root.Emit(3)
	root.Tick(0.01)
	root.Tick(0.1)
	if root.ChildCount() != 3 {
		t.Fatalf("expected 3 children, got %d", root.ChildCount())
	}
	children := append([]*System(nil), root.Children()...)

	root.Stop(true)
	if root.ChildCount() != 0 {
		t.Errorf("expected empty children set, got %d", root.ChildCount())
	}
	for _, c := range children {
		if !c.Stopped() {
			t.Error("child not stopped by Stop(true)")
		}
	}
}

func TestChildrenPrunedWhenDrained(t *testing.T) {
	root := newTestSystem(t, 4)
	root.EmitRate = 0
	root.MinLifeTime = 0.05
	root.MaxLifeTime = 0.05
	root.SubEmitters = []*System{newSubTemplate(t)}
	if err := root.Start(); err != nil {
		t.Fatal(err)
	}

	root.Emit(1)
	root.Tick(0.01)
	root.Tick(0.1)
	if root.ChildCount() != 1 {
		t.Fatalf("expected 1 child, got %d", root.ChildCount())
	}

	// The child auto-stops at its target duration and drains; the root
	// prunes it from the set.
	for i := 0; i < 30; i++ {
		root.Tick(0.05)
	}
	if root.ChildCount() != 0 {
		t.Errorf("expected drained child to be pruned, got %d", root.ChildCount())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := newTestSystem(t, 8)
	s.SizeTrack.AddKey(0, 1)
	s.SizeTrack.AddKey(1, 5)

	c := s.Clone(99)
	c.SizeTrack.AddKey(0.5, 3)
	if s.SizeTrack.Len() != 2 {
		t.Error("clone shares the original's key table")
	}
	if c.Capacity() != s.Capacity() {
		t.Errorf("clone capacity %d, want %d", c.Capacity(), s.Capacity())
	}
	if c.Started() {
		t.Error("clone must start unstarted")
	}
}
