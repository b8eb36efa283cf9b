package traits

import (
	"math/rand"
	"testing"

	"github.com/calehm/pond/config"
)

func init() {
	config.MustInit("")
}

func TestDefaultsFromConfig(t *testing.T) {
	cfg := config.Cfg()
	s := Defaults()

	if s.FOVDeg != float32(cfg.Sensors.FOVDegDefault) {
		t.Errorf("FOVDeg = %f, want %f", s.FOVDeg, cfg.Sensors.FOVDegDefault)
	}
	if s.Range != float32(cfg.Sensors.RangeDefault) {
		t.Errorf("Range = %f, want %f", s.Range, cfg.Sensors.RangeDefault)
	}
	if s.ThrustEff != 1 || s.MetabolismEff != 1 {
		t.Error("efficiency traits should default to 1")
	}
}

func TestMutateValClamps(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		v := MutateVal(50, 40, 60, rng)
		if v < 40 || v > 60 {
			t.Fatalf("mutated value %f escaped [40, 60]", v)
		}
	}

	// Out-of-range base values snap to the bounds even without mutation.
	if v := MutateVal(500, 40, 60, rng); v > 60 {
		t.Errorf("over-bound base not clamped: %f", v)
	}
}

func TestInheritStaysInBounds(t *testing.T) {
	cfg := config.Cfg()
	rng := rand.New(rand.NewSource(7))
	parent := Defaults()

	for i := 0; i < 500; i++ {
		child := parent.Inherit(rng)
		if child.FOVDeg < float32(cfg.Traits.FOVMin) || child.FOVDeg > float32(cfg.Traits.FOVMax) {
			t.Fatalf("FOVDeg %f out of bounds", child.FOVDeg)
		}
		if child.Range < float32(cfg.Traits.RangeMin) || child.Range > float32(cfg.Traits.RangeMax) {
			t.Fatalf("Range %f out of bounds", child.Range)
		}
		if child.ThrustEff < float32(cfg.Traits.ThrustMin) || child.ThrustEff > float32(cfg.Traits.ThrustMax) {
			t.Fatalf("ThrustEff %f out of bounds", child.ThrustEff)
		}
		if child.MetabolismEff < float32(cfg.Traits.MetaMin) || child.MetabolismEff > float32(cfg.Traits.MetaMax) {
			t.Fatalf("MetabolismEff %f out of bounds", child.MetabolismEff)
		}
		parent = child
	}
}

func TestCrossPicksFromParents(t *testing.T) {
	cfg := config.Cfg()

	// Without mutation, every child trait must equal one parent's value.
	origRate := cfg.Mutation.Rate
	cfg.Mutation.Rate = 0
	defer func() { cfg.Mutation.Rate = origRate }()

	a := Set{FOVDeg: 60, Range: 100, ThrustEff: 0.8, MetabolismEff: 0.9}
	b := Set{FOVDeg: 150, Range: 300, ThrustEff: 1.8, MetabolismEff: 1.4}

	rng := rand.New(rand.NewSource(11))
	sawA, sawB := false, false
	for i := 0; i < 100; i++ {
		c := Cross(a, b, rng)
		if c.FOVDeg != a.FOVDeg && c.FOVDeg != b.FOVDeg {
			t.Fatalf("FOVDeg %f matches neither parent", c.FOVDeg)
		}
		if c.Range != a.Range && c.Range != b.Range {
			t.Fatalf("Range %f matches neither parent", c.Range)
		}
		if c.FOVDeg == a.FOVDeg {
			sawA = true
		} else {
			sawB = true
		}
	}
	if !sawA || !sawB {
		t.Error("expected assortment to draw from both parents")
	}
}
