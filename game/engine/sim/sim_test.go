package sim

import "testing"

func TestRandomGamesManySeeds(t *testing.T) {
	for seed := int64(1); seed <= 200; seed++ {
		stats, err := RunRandomGame(seed, 400)
		if err != nil {
			t.Fatalf("self-play failed: %v", err)
		}
		if stats.Steps == 0 {
			t.Fatalf("seed %d: no moves played", seed)
		}
		if stats.Seed != seed {
			t.Fatalf("Expected seed %d in stats, got %d", seed, stats.Seed)
		}
	}
}

func TestRandomGameDeterministic(t *testing.T) {
	first, err := RunRandomGame(17, 300)
	if err != nil {
		t.Fatal(err)
	}
	second, err := RunRandomGame(17, 300)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("Expected identical runs, got %+v and %+v", first, second)
	}
}

func FuzzRandomGame(f *testing.F) {
	f.Add(int64(1))
	f.Add(int64(42))
	f.Add(int64(-7))
	f.Fuzz(func(t *testing.T, seed int64) {
		if _, err := RunRandomGame(seed, 300); err != nil {
			t.Fatalf("self-play failed: %v", err)
		}
	})
}
