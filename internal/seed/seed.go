// Package seed holds the launch catalogue of species and social tasks.
package seed

import (
	"context"

	"chiblets_lite/internal/domain"
	"chiblets_lite/internal/logger"
	"chiblets_lite/internal/repository"
)

func sprite(r domain.Rarity) string {
	return "/images/chiblets/" + string(r) + ".png"
}

// Species returns the sixteen launch species, four per rarity.
func Species() []domain.Species {
	list := []domain.Species{
		{Name: "Flame Pup", Type: domain.ElementFire, Rarity: domain.RarityCommon, BaseHP: 50, BaseAttack: 35, BaseDefense: 25,
			Description: "A small fiery companion that loves to play in the warmth."},
		{Name: "Water Sprite", Type: domain.ElementWater, Rarity: domain.RarityCommon, BaseHP: 55, BaseAttack: 30, BaseDefense: 30,
			Description: "A gentle water creature that brings refreshing energy."},
		{Name: "Earth Cub", Type: domain.ElementEarth, Rarity: domain.RarityCommon, BaseHP: 60, BaseAttack: 25, BaseDefense: 35,
			Description: "A sturdy ground-type chiblet with a love for nature."},
		{Name: "Wind Wisp", Type: domain.ElementAir, Rarity: domain.RarityCommon, BaseHP: 45, BaseAttack: 40, BaseDefense: 20,
			Description: "A swift air chiblet that dances on the breeze."},

		{Name: "Inferno Wolf", Type: domain.ElementFire, Rarity: domain.RarityRare, BaseHP: 80, BaseAttack: 65, BaseDefense: 45,
			Description: "A fierce fire wolf with blazing determination."},
		{Name: "Tidal Guardian", Type: domain.ElementWater, Rarity: domain.RarityRare, BaseHP: 85, BaseAttack: 55, BaseDefense: 55,
			Description: "A majestic water guardian that controls the tides."},
		{Name: "Stone Titan", Type: domain.ElementEarth, Rarity: domain.RarityRare, BaseHP: 100, BaseAttack: 50, BaseDefense: 70,
			Description: "A massive earth titan with unbreakable defense."},
		{Name: "Storm Eagle", Type: domain.ElementAir, Rarity: domain.RarityRare, BaseHP: 70, BaseAttack: 75, BaseDefense: 35,
			Description: "A powerful eagle that commands the storms."},

		{Name: "Phoenix Lord", Type: domain.ElementFire, Rarity: domain.RarityEpic, BaseHP: 120, BaseAttack: 95, BaseDefense: 65,
			Description: "A legendary phoenix that rises from the ashes."},
		{Name: "Leviathan King", Type: domain.ElementWater, Rarity: domain.RarityEpic, BaseHP: 130, BaseAttack: 85, BaseDefense: 75,
			Description: "The ruler of all seas, a legendary water beast."},
		{Name: "Terra Colossus", Type: domain.ElementEarth, Rarity: domain.RarityEpic, BaseHP: 140, BaseAttack: 80, BaseDefense: 90,
			Description: "An ancient earth guardian of immense power."},
		{Name: "Sky Sovereign", Type: domain.ElementAir, Rarity: domain.RarityEpic, BaseHP: 110, BaseAttack: 100, BaseDefense: 60,
			Description: "The ultimate master of wind and lightning."},

		{Name: "Infernal Emperor", Type: domain.ElementFire, Rarity: domain.RarityLegendary, BaseHP: 200, BaseAttack: 150, BaseDefense: 100,
			Description: "The supreme ruler of all fire, born from the core of stars."},
		{Name: "Abyssal Sovereign", Type: domain.ElementWater, Rarity: domain.RarityLegendary, BaseHP: 220, BaseAttack: 130, BaseDefense: 120,
			Description: "The ancient lord of the deepest oceans and darkest waters."},
		{Name: "World Tree Ancient", Type: domain.ElementEarth, Rarity: domain.RarityLegendary, BaseHP: 250, BaseAttack: 120, BaseDefense: 150,
			Description: "The eternal guardian of all life, older than time itself."},
		{Name: "Celestial Archon", Type: domain.ElementAir, Rarity: domain.RarityLegendary, BaseHP: 180, BaseAttack: 180, BaseDefense: 80,
			Description: "A divine being that commands the very fabric of the sky."},
	}
	for i := range list {
		list[i].Sprite = sprite(list[i].Rarity)
	}
	return list
}

const twitterURL = "https://twitter.com/chibletsgame"

func wchibi(n int64) domain.Reward {
	return domain.Reward{Type: domain.RewardWchibi, Amount: n}
}

// Tasks returns the launch social tasks.
func Tasks() []domain.Task {
	return []domain.Task{
		{Title: "Follow @ChibletsGame", Description: "Follow our official X (Twitter) account", Type: domain.TaskTwitterFollow, Reward: wchibi(100), URL: twitterURL},
		{Title: "Like our latest post", Description: "Like our most recent announcement", Type: domain.TaskTwitterLike, Reward: wchibi(50), URL: twitterURL},
		{Title: "Retweet our post", Description: "Share our latest update with your followers", Type: domain.TaskTwitterRetweet, Reward: wchibi(75), URL: twitterURL},
		{Title: "Comment on our post", Description: "Leave a comment on our latest announcement", Type: domain.TaskTwitterComment, Reward: wchibi(80), URL: twitterURL},
		{Title: "Daily Login", Description: "Login to the game daily", Type: domain.TaskDailyLogin, Reward: wchibi(25)},
	}
}

type Summary struct {
	Species      int
	TasksCreated int
	TasksSkipped int
}

// Run upserts every species and creates the tasks whose title is not
// already active. Running it twice changes nothing.
func Run(ctx context.Context, store repository.Store) (Summary, error) {
	var sum Summary
	err := store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		for _, sp := range Species() {
			if err := store.Species.Upsert(ctx, &sp); err != nil {
				return err
			}
			sum.Species++
		}

		existing, err := store.Tasks.ListActive(ctx)
		if err != nil {
			return err
		}
		seen := make(map[string]bool, len(existing))
		for _, t := range existing {
			seen[t.Title] = true
		}
		for _, t := range Tasks() {
			if seen[t.Title] {
				sum.TasksSkipped++
				continue
			}
			t.IsActive = true
			if err := store.Tasks.Create(ctx, &t); err != nil {
				return err
			}
			sum.TasksCreated++
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	logger.Info("seed applied", "species", sum.Species, "tasks_created", sum.TasksCreated, "tasks_skipped", sum.TasksSkipped)
	return sum, nil
}
