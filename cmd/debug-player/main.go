package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"slices"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/shinobi-bot/internal/repositories/players"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: debug-player <player-id>")
		os.Exit(1)
	}
	_ = godotenv.Load()

	playerID := os.Args[1]
	ctx := context.Background()

	// Set up Redis
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	// Test connection first
	if _, pingErr := client.Ping(ctx).Result(); pingErr != nil {
		log.Fatalf("Failed to connect to Redis: %v", pingErr)
	}
	defer func() {
		clientErr := client.Close()
		if clientErr != nil {
			log.Printf("Failed to close Redis connection: %v", clientErr)
		}
	}()

	p, err := players.NewRedis(client).Get(ctx, playerID)
	if err != nil {
		log.Printf("Failed to get player: %v", err)
		return
	}

	fmt.Printf("Player ID: %s\n", p.ID)
	fmt.Printf("Name: %s\n", p.Name)
	fmt.Printf("Rank: %s (level %d)\n", p.Rank, p.Level)
	fmt.Printf("Health: %d/%d  Chakra: %d/%d\n", p.Health, p.MaxHealth, p.Chakra, p.MaxChakra)
	fmt.Printf("Power: %.1f  Defense: %.1f  Accuracy: %.1f  Dodge: %.1f\n", p.Power, p.Defense, p.Accuracy, p.Dodge)
	fmt.Printf("Record: %d-%d  Exp: %.2f  Money: %d\n", p.Wins, p.Losses, p.Exp, p.Money)
	if p.Combo != "" {
		fmt.Printf("Combo: %s\n", p.Combo)
	}

	fmt.Printf("Techniques: %d\n", len(p.Techniques))
	slots := make([]string, 0, len(p.Techniques))
	for slot := range p.Techniques {
		slots = append(slots, slot)
	}
	slices.Sort(slots)
	for _, slot := range slots {
		fmt.Printf("  %s: %s\n", slot, p.Techniques[slot])
	}
}
