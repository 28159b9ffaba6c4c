package main

import (
	"context"
	"log"
	"time"

	"designerhub/simulator"
)

func main() {
	config := simulator.SimConfig{
		NumDesigners:       20,
		ItemsPerDesigner:   3,
		ConnectionsPerUser: 4,
		AcceptRate:         0.7,
		SimulationTime:     10 * time.Minute,
		MessageFrequency:   120.0,
		LikeFrequency:      60.0,
		PollFrequency:      90.0,
		DisconnectRate:     0.01,
		ReconnectRate:      0.05,
		EngineURL:          "http://localhost:8080",
	}

	sim := simulator.NewEnhancedSimulator(config)
	ctx, cancel := context.WithTimeout(context.Background(), config.SimulationTime)
	defer cancel()

	log.Printf("Starting simulation with configuration:")
	log.Printf("- Engine URL: %s", config.EngineURL)
	log.Printf("- Number of designers: %d", config.NumDesigners)
	log.Printf("- Portfolio items per designer: %d", config.ItemsPerDesigner)
	log.Printf("- Connection requests per designer: %d", config.ConnectionsPerUser)
	log.Printf("- Accept rate: %.0f%%", config.AcceptRate*100)
	log.Printf("- Simulation time: %v", config.SimulationTime)
	log.Printf("- Message frequency: %.2f messages/designer/hour", config.MessageFrequency)
	log.Printf("- Like frequency: %.2f likes/designer/hour", config.LikeFrequency)
	log.Printf("- Inbox poll frequency: %.2f polls/designer/hour", config.PollFrequency)

	if err := sim.Run(ctx); err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	metrics := sim.GetMetrics()
	log.Printf("\nSimulation completed. Final metrics:")
	log.Printf("- Total designers: %d", metrics.TotalUsers)
	log.Printf("- Active designers at end: %d", metrics.ActiveUsers)
	log.Printf("- Accepted connections: %d", metrics.TotalConnections)
	log.Printf("- Messages sent: %d", metrics.TotalMessages)
	log.Printf("- Likes given: %d", metrics.TotalLikes)
	log.Printf("- Error count: %d", metrics.ErrorCount)
}
