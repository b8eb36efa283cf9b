package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading embedded defaults: %v", err)
	}

	if cfg.World.MaxFood <= 0 {
		t.Error("defaults must set a food cap")
	}
	if cfg.Physics.DT <= 0 {
		t.Error("defaults must set a positive dt")
	}
	if cfg.Reproduction.Mode != ReproSexual && cfg.Reproduction.Mode != ReproAsexual {
		t.Errorf("defaults set unknown reproduction mode %q", cfg.Reproduction.Mode)
	}
	if cfg.Derived.WorldW32 <= 0 || cfg.Derived.WorldH32 <= 0 {
		t.Error("derived world dimensions not computed")
	}
}

func TestValidateRejectsBadMode(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Reproduction.Mode = "budding"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown reproduction mode must fail validation")
	}
}

func TestValidateRejectsInvertedBounds(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Traits.FOVMin = cfg.Traits.FOVMax + 1
	if err := cfg.Validate(); err == nil {
		t.Error("inverted trait bounds must fail validation")
	}
}

func TestValidateRejectsBadSplit(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Reproduction.ChildTake = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("child_take outside (0,1) must fail validation")
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("Cfg before Init should panic")
		}
	}()
	Cfg()
}

func TestWorldSizeFallsBackToScreen(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.World.Width = 0
	cfg.World.Height = 0
	cfg.computeDerived()

	if cfg.Derived.WorldW32 != float32(cfg.Screen.Width) {
		t.Errorf("world width %f should fall back to screen width %d", cfg.Derived.WorldW32, cfg.Screen.Width)
	}
	if cfg.Derived.WorldH32 != float32(cfg.Screen.Height) {
		t.Errorf("world height %f should fall back to screen height %d", cfg.Derived.WorldH32, cfg.Screen.Height)
	}
}
