package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *EnhancedSimulator) SimulateActivities(ctx context.Context) error {
	log.Printf("Starting activities simulation...")

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.simulateMessages(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.simulateConversationPolls(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.simulateLikes(ctx)
	}()

	wg.Wait()
	return nil
}

func (s *EnhancedSimulator) simulateMessages(ctx context.Context) {
	log.Printf("Starting message simulation...")

	tickInterval := 500 * time.Millisecond
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	const numWorkers = 5
	messageJobs := make(chan *SimulatedDesigner, s.config.NumDesigners)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for user := range messageJobs {
				if !user.IsConnected || len(user.Partners) == 0 {
					continue
				}

				if rand.Float64() < (s.config.MessageFrequency/3600.0)/2.0 {
					partnerID := user.Partners[rand.Intn(len(user.Partners))]

					data := map[string]interface{}{
						"recipient": partnerID.String(),
						"content":   fmt.Sprintf("Message from %s at %s", user.Name, time.Now().Format(time.RFC3339)),
						"kind":      "text",
					}

					resp, err := s.makeRequest("POST", "/messages", user.Token, data)
					if err != nil {
						log.Printf("Debug: Worker %d failed to send message: %v", workerID, err)
						continue
					}

					var sent struct {
						ID string `json:"id"`
					}
					if err := json.Unmarshal(resp, &sent); err != nil || sent.ID == "" {
						log.Printf("Debug: Unexpected send response: %s", string(resp))
						continue
					}

					s.stats.mu.Lock()
					s.stats.TotalMessages++
					messageCount := s.stats.TotalMessages
					s.stats.mu.Unlock()

					log.Printf("Sent message from %s to partner %s (Total: %d)",
						user.Name, partnerID, messageCount)
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			close(messageJobs)
			wg.Wait()
			return
		case <-ticker.C:
			s.mu.RLock()
			for _, user := range s.users {
				if user.IsConnected {
					select {
					case messageJobs <- user:
					default: // Don't block if channel is full
					}
				}
			}
			s.mu.RUnlock()
		}
	}
}

// simulateConversationPolls mimics a designer opening their inbox: list
// conversations, then open the thread with the most recent unread
// correspondent, which flips those messages to read.
func (s *EnhancedSimulator) simulateConversationPolls(ctx context.Context) {
	log.Printf("Starting conversation poll simulation...")

	tickInterval := time.Second
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.RLock()
			users := s.users
			s.mu.RUnlock()

			for _, user := range users {
				if !user.IsConnected {
					continue
				}
				if rand.Float64() >= (s.config.PollFrequency/3600.0)*float64(tickInterval)/float64(time.Second) {
					continue
				}

				correspondentID, unread, err := s.pollConversations(user)
				if err != nil {
					log.Printf("Debug: Failed to poll conversations for %s: %v", user.Name, err)
					continue
				}

				s.stats.mu.Lock()
				s.stats.TotalPolls++
				s.stats.mu.Unlock()

				if correspondentID == uuid.Nil || unread == 0 {
					continue
				}

				// Opening the thread marks the unread messages as read
				endpoint := fmt.Sprintf("/messages/thread?correspondentId=%s", correspondentID)
				if _, err := s.makeRequest("GET", endpoint, user.Token, nil); err != nil {
					log.Printf("Debug: Failed to open thread for %s: %v", user.Name, err)
					continue
				}
				log.Printf("%s read %d unread messages from %s", user.Name, unread, correspondentID)
			}
		}
	}
}

func (s *EnhancedSimulator) pollConversations(user *SimulatedDesigner) (uuid.UUID, int, error) {
	resp, err := s.makeRequest("GET", "/conversations", user.Token, nil)
	if err != nil {
		return uuid.Nil, 0, err
	}

	var conversations []struct {
		Correspondent struct {
			ID string `json:"id"`
		} `json:"correspondent"`
		UnreadCount int `json:"unreadCount"`
	}
	if err := json.Unmarshal(resp, &conversations); err != nil {
		return uuid.Nil, 0, fmt.Errorf("failed to parse conversations: %v", err)
	}

	// Entries arrive most recent first; open the first unread one
	for _, conv := range conversations {
		if conv.UnreadCount == 0 {
			continue
		}
		id, err := uuid.Parse(conv.Correspondent.ID)
		if err != nil {
			continue
		}
		return id, conv.UnreadCount, nil
	}

	return uuid.Nil, 0, nil
}

func (s *EnhancedSimulator) simulateLikes(ctx context.Context) {
	log.Printf("Starting like simulation...")

	tickInterval := 500 * time.Millisecond
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	const numWorkers = 5
	likeJobs := make(chan *SimulatedDesigner, s.config.NumDesigners)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for user := range likeJobs {
				if !user.IsConnected {
					continue
				}

				if rand.Float64() < (s.config.LikeFrequency/3600.0)/2.0 {
					itemID, err := s.getRandomItemToLike(user)
					if err != nil {
						continue
					}

					endpoint := fmt.Sprintf("/portfolio/like?portfolioId=%s", itemID)
					resp, err := s.makeRequest("POST", endpoint, user.Token, nil)
					if err != nil {
						continue
					}

					var result struct {
						Liked bool `json:"liked"`
					}
					if err := json.Unmarshal(resp, &result); err != nil {
						continue
					}

					s.mu.Lock()
					user.LikedItems[itemID] = result.Liked
					s.mu.Unlock()

					if result.Liked {
						s.stats.mu.Lock()
						s.stats.TotalLikes++
						s.stats.mu.Unlock()
						log.Printf("%s liked item %s", user.Name, itemID)
					}
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			close(likeJobs)
			wg.Wait()
			return
		case <-ticker.C:
			s.mu.RLock()
			for _, user := range s.users {
				if user.IsConnected {
					select {
					case likeJobs <- user:
					default:
					}
				}
			}
			s.mu.RUnlock()
		}
	}
}

// Helper functions

func (s *EnhancedSimulator) getRandomItemToLike(user *SimulatedDesigner) (uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.items) == 0 {
		return uuid.Nil, fmt.Errorf("no portfolio items available")
	}

	// Prefer items the designer has not published themselves
	owned := make(map[uuid.UUID]bool, len(user.Portfolio))
	for _, id := range user.Portfolio {
		owned[id] = true
	}

	for attempts := 0; attempts < 5; attempts++ {
		itemID := s.items[rand.Intn(len(s.items))]
		if !owned[itemID] {
			return itemID, nil
		}
	}

	return s.items[rand.Intn(len(s.items))], nil
}
