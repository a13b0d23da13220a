package seed

import (
	"context"
	"testing"

	"chiblets_lite/internal/domain"
	"chiblets_lite/internal/repository/memory"
)

func TestCatalogueCoversEveryRarity(t *testing.T) {
	counts := map[domain.Rarity]int{}
	names := map[string]bool{}
	for _, sp := range Species() {
		if names[sp.Name] {
			t.Fatalf("duplicate species %q", sp.Name)
		}
		names[sp.Name] = true
		if sp.BaseHP <= 0 || sp.BaseAttack <= 0 || sp.BaseDefense <= 0 {
			t.Fatalf("%s has non-positive stats", sp.Name)
		}
		counts[sp.Rarity]++
	}
	for _, r := range []domain.Rarity{domain.RarityCommon, domain.RarityRare, domain.RarityEpic, domain.RarityLegendary} {
		if counts[r] != 4 {
			t.Fatalf("%s: %d species, want 4", r, counts[r])
		}
	}
}

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore().Repos()

	first, err := Run(ctx, store)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Species != 16 || first.TasksCreated != 5 {
		t.Fatalf("unexpected first summary %+v", first)
	}

	second, err := Run(ctx, store)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.TasksCreated != 0 || second.TasksSkipped != 5 {
		t.Fatalf("unexpected second summary %+v", second)
	}

	species, _ := store.Species.List(ctx)
	tasks, _ := store.Tasks.ListActive(ctx)
	if len(species) != 16 || len(tasks) != 5 {
		t.Fatalf("got %d species and %d tasks", len(species), len(tasks))
	}
}
