package world

import (
	"math"
	"testing"

	"github.com/calehm/pond/components"
	"github.com/calehm/pond/config"
	"github.com/calehm/pond/neural"
	"github.com/calehm/pond/traits"
)

func init() {
	config.MustInit("")
}

// emptyWorld builds a world with no seeded organisms or food so tests can
// place state exactly. Seeding config is restored when the test ends.
func emptyWorld(t *testing.T, seed int64) *World {
	t.Helper()
	cfg := config.Cfg()
	orgs, food, pair := cfg.World.StartOrgs, cfg.World.StartFood, cfg.World.AdamAndEve
	cfg.World.StartOrgs, cfg.World.StartFood, cfg.World.AdamAndEve = 0, 0, false
	t.Cleanup(func() {
		cfg.World.StartOrgs, cfg.World.StartFood, cfg.World.AdamAndEve = orgs, food, pair
	})
	return New(seed)
}

func (w *World) spawnAt(x, y, energy float32, sex components.Sex) uint32 {
	return w.spawnOrganism(spawnParams{
		x: x, y: y,
		energy: energy,
		ts:     traits.Defaults(),
		brain:  neural.NewBrain(w.rng),
		sex:    sex,
	})
}

func TestAdamAndEveSeeding(t *testing.T) {
	cfg := config.Cfg()
	orig := cfg.World.AdamAndEve
	cfg.World.AdamAndEve = true
	defer func() { cfg.World.AdamAndEve = orig }()

	w := New(1)
	if w.Population() != 2 {
		t.Fatalf("population = %d, want 2", w.Population())
	}

	views := w.Organisms(nil)
	males, females := 0, 0
	for _, v := range views {
		switch v.Sex {
		case components.Male:
			males++
		case components.Female:
			females++
		}
		cx := cfg.Derived.WorldW32 / 2
		if abs32(v.X-cx) > 31 {
			t.Errorf("founder %d spawned at x=%f, want near center %f", v.ID, v.X, cx)
		}
	}
	if males != 1 || females != 1 {
		t.Errorf("founders = %d male, %d female, want one of each", males, females)
	}
}

func TestAsexualBudding(t *testing.T) {
	cfg := config.Cfg()
	origMode := cfg.Reproduction.Mode
	cfg.Reproduction.Mode = config.ReproAsexual
	defer func() { cfg.Reproduction.Mode = origMode }()

	w := emptyWorld(t, 2)
	startEnergy := float32(cfg.Reproduction.Threshold) + 1
	parentID := w.spawnAt(300, 300, startEnergy, components.Female)

	w.updateReproduction()

	if w.Population() != 2 {
		t.Fatalf("population after budding = %d, want 2", w.Population())
	}

	parentEnergy := w.energyMap.Get(w.byID[parentID])
	wantParent := startEnergy * float32(cfg.Reproduction.ParentKeep)
	if abs32(parentEnergy.Value-wantParent) > 1e-4 {
		t.Errorf("parent energy = %f, want %f", parentEnergy.Value, wantParent)
	}

	parentOrg := w.orgMap.Get(w.byID[parentID])
	if len(parentOrg.Dependents) != 1 {
		t.Errorf("parent has %d dependents, want 1", len(parentOrg.Dependents))
	}

	for _, v := range w.Organisms(nil) {
		if v.ID == parentID {
			continue
		}
		if v.Generation != 1 {
			t.Errorf("child generation = %d, want 1", v.Generation)
		}
		wantChild := startEnergy * float32(cfg.Reproduction.ChildTake)
		if abs32(v.Energy-wantChild) > 1e-4 {
			t.Errorf("child energy = %f, want %f", v.Energy, wantChild)
		}
	}

	if w.GenerationHigh() != 1 {
		t.Errorf("generation high = %d, want 1", w.GenerationHigh())
	}
}

func TestSexualMating(t *testing.T) {
	cfg := config.Cfg()
	origMode, origDrive := cfg.Reproduction.Mode, cfg.Reproduction.MatingDrive
	cfg.Reproduction.Mode = config.ReproSexual
	cfg.Reproduction.MatingDrive = 1
	defer func() {
		cfg.Reproduction.Mode = origMode
		cfg.Reproduction.MatingDrive = origDrive
	}()

	w := emptyWorld(t, 3)
	energy := float32(cfg.Reproduction.Threshold) + 4
	mID := w.spawnAt(200, 200, energy, components.Male)
	fID := w.spawnAt(210, 200, energy, components.Female)

	w.updateReproduction()

	if w.Population() != 3 {
		t.Fatalf("population after mating = %d, want 3", w.Population())
	}

	keep := float32(cfg.Reproduction.ParentKeep)
	for _, id := range []uint32{mID, fID} {
		en := w.energyMap.Get(w.byID[id])
		if abs32(en.Value-energy*keep) > 1e-4 {
			t.Errorf("parent %d energy = %f, want %f", id, en.Value, energy*keep)
		}
		org := w.orgMap.Get(w.byID[id])
		if len(org.Dependents) != 1 {
			t.Errorf("parent %d has %d dependents, want 1", id, len(org.Dependents))
		}
	}

	take := float32(cfg.Reproduction.ChildTake)
	for _, v := range w.Organisms(nil) {
		if v.ID == mID || v.ID == fID {
			continue
		}
		if abs32(v.Energy-2*energy*take) > 1e-4 {
			t.Errorf("child energy = %f, want %f", v.Energy, 2*energy*take)
		}
		if v.Generation != 1 {
			t.Errorf("child generation = %d, want 1", v.Generation)
		}
		org := w.orgMap.Get(w.byID[v.ID])
		if org.NumParents != 2 {
			t.Errorf("child has %d recorded parents, want 2", org.NumParents)
		}
		midX := (200 + 210) / float32(2)
		if abs32(v.X-midX) > 1e-4 {
			t.Errorf("child x = %f, want midpoint %f", v.X, midX)
		}
	}
}

func TestFounderPairRaisesFirstChild(t *testing.T) {
	cfg := config.Cfg()
	origPair, origFood := cfg.World.AdamAndEve, cfg.World.StartFood
	origDrive := cfg.Reproduction.MatingDrive
	cfg.World.AdamAndEve = true
	cfg.World.StartFood = 0
	cfg.Reproduction.MatingDrive = 1
	defer func() {
		cfg.World.AdamAndEve, cfg.World.StartFood = origPair, origFood
		cfg.Reproduction.MatingDrive = origDrive
	}()

	w := New(17)

	// Feed both founders to just under the reproduction threshold and drop
	// one food on each, so a full tick pushes both over it together.
	nearThreshold := float32(cfg.Reproduction.Threshold) - 0.1
	for _, v := range w.Organisms(nil) {
		w.energyMap.Get(w.byID[v.ID]).Value = nearThreshold
		w.foods = append(w.foods, components.Food{X: v.X, Y: v.Y})
	}

	born := false
	for i := 0; i < 120 && !born; i++ {
		w.Step()
		born = w.GenerationHigh() >= 1
	}
	if !born {
		t.Fatal("fed founder pair never produced a child through the tick loop")
	}
	if w.Population() != 3 {
		t.Errorf("population = %d, want both founders plus one child", w.Population())
	}
	for _, v := range w.Organisms(nil) {
		if v.Generation != 1 {
			continue
		}
		org := w.orgMap.Get(w.byID[v.ID])
		if org.NumParents != 2 {
			t.Errorf("first child has %d recorded parents, want 2", org.NumParents)
		}
	}
}

func TestSexualRequiresOppositeSex(t *testing.T) {
	cfg := config.Cfg()
	origMode, origDrive := cfg.Reproduction.Mode, cfg.Reproduction.MatingDrive
	cfg.Reproduction.Mode = config.ReproSexual
	cfg.Reproduction.MatingDrive = 1
	defer func() {
		cfg.Reproduction.Mode = origMode
		cfg.Reproduction.MatingDrive = origDrive
	}()

	w := emptyWorld(t, 4)
	energy := float32(cfg.Reproduction.Threshold) + 4
	w.spawnAt(200, 200, energy, components.Male)
	w.spawnAt(210, 200, energy, components.Male)

	w.updateReproduction()

	if w.Population() != 2 {
		t.Errorf("two males produced offspring: population = %d", w.Population())
	}
}

func TestSexualRespectsMatingRadius(t *testing.T) {
	cfg := config.Cfg()
	origMode, origDrive := cfg.Reproduction.Mode, cfg.Reproduction.MatingDrive
	cfg.Reproduction.Mode = config.ReproSexual
	cfg.Reproduction.MatingDrive = 1
	defer func() {
		cfg.Reproduction.Mode = origMode
		cfg.Reproduction.MatingDrive = origDrive
	}()

	w := emptyWorld(t, 5)
	energy := float32(cfg.Reproduction.Threshold) + 4
	apart := float32(cfg.Reproduction.MatingRadius) + 50
	w.spawnAt(100, 100, energy, components.Male)
	w.spawnAt(100+apart, 100, energy, components.Female)

	w.updateReproduction()

	if w.Population() != 2 {
		t.Errorf("out-of-range pair produced offspring: population = %d", w.Population())
	}
}

func TestEatsAtMostOneFoodPerTick(t *testing.T) {
	cfg := config.Cfg()
	origRespawn := cfg.World.FoodRespawn
	cfg.World.FoodRespawn = false
	defer func() { cfg.World.FoodRespawn = origRespawn }()

	w := emptyWorld(t, 6)
	id := w.spawnAt(200, 200, 2, components.Female)
	w.foods = append(w.foods,
		components.Food{X: 200, Y: 200},
		components.Food{X: 201, Y: 200},
	)

	w.Step()

	if len(w.foods) != 1 {
		t.Fatalf("foods after tick = %d, want 1", len(w.foods))
	}
	en := w.energyMap.Get(w.byID[id])
	if en.Value <= 2 {
		t.Errorf("energy = %f, should exceed the starting 2 after eating", en.Value)
	}
}

func TestStarvationRemovesOrganism(t *testing.T) {
	w := emptyWorld(t, 7)
	id := w.spawnAt(200, 200, 1e-6, components.Male)

	died := false
	for i := 0; i < 1000; i++ {
		w.Step()
		if w.Population() == 0 {
			died = true
			break
		}
	}
	if !died {
		t.Fatal("organism with near-zero energy never starved")
	}

	if _, ok := w.byID[id]; ok {
		t.Error("dead organism still in the entity index")
	}
	if _, ok := w.brains[id]; ok {
		t.Error("dead organism's brain not released")
	}
	if _, deaths := w.collector.Totals(); deaths != 1 {
		t.Errorf("deaths recorded = %d, want 1", deaths)
	}
}

func TestNonFiniteStateIsIsolated(t *testing.T) {
	w := emptyWorld(t, 8)
	badID := w.spawnAt(100, 100, 3, components.Male)
	goodID := w.spawnAt(500, 400, 3, components.Female)

	w.energyMap.Get(w.byID[badID]).Value = float32(math.NaN())

	w.Step()

	if w.Population() != 1 {
		t.Fatalf("population = %d, want 1 survivor", w.Population())
	}
	if _, ok := w.byID[badID]; ok {
		t.Error("poisoned organism survived")
	}
	en := w.energyMap.Get(w.byID[goodID])
	if en == nil || !en.Alive || !finite(en.Value) {
		t.Error("healthy organism damaged by its neighbor's blowup")
	}
}

func TestCareFeedsDependentAndBuildsHome(t *testing.T) {
	cfg := config.Cfg()
	origHomes := cfg.Homes.Enabled
	cfg.Homes.Enabled = true
	defer func() { cfg.Homes.Enabled = origHomes }()

	w := emptyWorld(t, 9)
	parentEnergy := float32(cfg.Reproduction.Threshold) + 5
	parentID := w.spawnAt(300, 300, parentEnergy, components.Female)
	childID := w.spawnAt(305, 300, 1, components.Male)
	w.addDependent(parentID, childID)

	w.updateCare()

	home, ok := w.homes[parentID]
	if !ok || !home.Built {
		t.Error("flush parent should have built a home")
	}

	child := w.energyMap.Get(w.byID[childID])
	if child.Value <= 1 {
		t.Errorf("child energy = %f, should have been fed above 1", child.Value)
	}
	parent := w.energyMap.Get(w.byID[parentID])
	if parent.Value >= parentEnergy {
		t.Errorf("parent energy = %f, should have paid for home and feeding", parent.Value)
	}
}

func TestOrphanPenaltyDrainsUncaredYoung(t *testing.T) {
	w := emptyWorld(t, 10)
	id := w.spawnAt(300, 300, 2, components.Male)

	w.updateCare()

	en := w.energyMap.Get(w.byID[id])
	if en.Value >= 2 {
		t.Errorf("uncared juvenile energy = %f, expected an orphan drain below 2", en.Value)
	}
}

func TestCompactFoodEnforcesCap(t *testing.T) {
	cfg := config.Cfg()
	w := emptyWorld(t, 11)

	for i := 0; i < cfg.World.MaxFood+10; i++ {
		w.foods = append(w.foods, components.Food{X: float32(i), Y: 1, Eaten: i%3 == 0})
	}

	w.compactFood()

	if len(w.foods) > cfg.World.MaxFood {
		t.Errorf("food list %d exceeds cap %d", len(w.foods), cfg.World.MaxFood)
	}
	for i := range w.foods {
		if w.foods[i].Eaten {
			t.Fatal("eaten food survived compaction")
		}
	}
}

func TestResetReseedsWorld(t *testing.T) {
	cfg := config.Cfg()
	orgs, food := cfg.World.StartOrgs, cfg.World.StartFood
	cfg.World.StartOrgs, cfg.World.StartFood = 5, 12
	defer func() { cfg.World.StartOrgs, cfg.World.StartFood = orgs, food }()

	w := New(13)
	for i := 0; i < 50; i++ {
		w.Step()
	}

	w.Reset()

	if w.Population() != 5 {
		t.Errorf("population after reset = %d, want 5", w.Population())
	}
	if len(w.foods) != 12 {
		t.Errorf("foods after reset = %d, want 12", len(w.foods))
	}
	if w.Tick() != 0 || w.Time() != 0 {
		t.Errorf("clock after reset = (%d, %f), want zeros", w.Tick(), w.Time())
	}
	if b, d := w.collector.Totals(); b != 0 || d != 0 {
		t.Errorf("counters after reset = (%d, %d), want zeros", b, d)
	}
	if w.GenerationHigh() != 0 {
		t.Errorf("generation high after reset = %d, want 0", w.GenerationHigh())
	}
	if len(w.brains) != 5 || len(w.byID) != 5 {
		t.Errorf("side tables after reset: %d brains, %d ids, want 5 each", len(w.brains), len(w.byID))
	}
}

func TestBirthCountsMutation(t *testing.T) {
	cfg := config.Cfg()
	origMode := cfg.Reproduction.Mode
	cfg.Reproduction.Mode = config.ReproAsexual
	defer func() { cfg.Reproduction.Mode = origMode }()

	w := emptyWorld(t, 14)
	w.spawnAt(300, 300, float32(cfg.Reproduction.Threshold)+1, components.Female)

	w.updateReproduction()

	if got := w.collector.Mutations(); got != 1 {
		t.Errorf("mutations recorded = %d, want 1", got)
	}
}

func TestSnapshotSummarizesPopulation(t *testing.T) {
	w := emptyWorld(t, 15)
	w.spawnAt(100, 100, 2, components.Male)
	w.spawnAt(200, 200, 4, components.Female)

	snap := w.Snapshot()

	if snap.Population != 2 {
		t.Fatalf("snapshot population = %d, want 2", snap.Population)
	}
	if snap.MeanEnergy != 3 {
		t.Errorf("mean energy = %f, want 3", snap.MeanEnergy)
	}
	if snap.FOV.Min != snap.FOV.Max {
		t.Errorf("identical default traits should have zero spread, got [%f, %f]", snap.FOV.Min, snap.FOV.Max)
	}

	empty := emptyWorld(t, 16).Snapshot()
	if empty.Population != 0 || empty.MeanAge != 0 {
		t.Error("empty world snapshot should be all zeros")
	}
}

func TestSleepCycle(t *testing.T) {
	cfg := config.Cfg()
	origRate := cfg.Sleep.PressureRate
	cfg.Sleep.PressureRate = 5 // exhaust quickly
	defer func() { cfg.Sleep.PressureRate = origRate }()

	w := emptyWorld(t, 12)
	id := w.spawnAt(300, 300, 50, components.Female)

	fellAsleep := false
	for i := 0; i < 2000; i++ {
		w.Step()
		views := w.Organisms(nil)
		if len(views) == 0 {
			t.Fatal("organism died before the sleep cycle completed")
		}
		if views[0].Asleep {
			fellAsleep = true
			break
		}
	}
	if !fellAsleep {
		t.Fatal("pressure never put the organism to sleep")
	}

	woke := false
	for i := 0; i < 2000; i++ {
		w.Step()
		views := w.Organisms(nil)
		if len(views) > 0 && !views[0].Asleep {
			woke = true
			break
		}
	}
	if !woke {
		t.Fatal("organism never woke from its dream")
	}

	if _, ok := w.brains[id]; !ok {
		t.Error("brain lost across the sleep cycle")
	}
}
