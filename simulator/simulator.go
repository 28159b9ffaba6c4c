package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

type SimConfig struct {
	NumDesigners       int
	ItemsPerDesigner   int
	ConnectionsPerUser int
	AcceptRate         float64
	SimulationTime     time.Duration
	MessageFrequency   float64
	LikeFrequency      float64
	PollFrequency      float64
	DisconnectRate     float64
	ReconnectRate      float64
	EngineURL          string
}

type SimulationStats struct {
	mu               sync.RWMutex
	StartTime        time.Time
	TotalRequests    int64
	SuccessRequests  int64
	FailedRequests   int64
	AverageLatency   time.Duration
	ActiveUsers      int
	TotalMessages    int
	TotalConnections int
	TotalLikes       int
	TotalPolls       int
	RequestLatencies []time.Duration
}

// Track simulated designers with their session state
type SimulatedDesigner struct {
	ID          uuid.UUID
	Name        string
	Email       string
	Token       string
	IsConnected bool
	LastActive  time.Time
	Portfolio   []uuid.UUID        // Portfolio items published by this designer
	Partners    []uuid.UUID        // Designers with an accepted connection
	LikedItems  map[uuid.UUID]bool // Items this designer has liked
}

type EnhancedSimulator struct {
	config SimConfig
	stats  *SimulationStats
	users  []*SimulatedDesigner
	items  []uuid.UUID // Global pool of public portfolio items
	client *http.Client
	mu     sync.RWMutex
}

func NewEnhancedSimulator(config SimConfig) *EnhancedSimulator {
	return &EnhancedSimulator{
		config: config,
		stats: &SimulationStats{
			StartTime:        time.Now(),
			RequestLatencies: make([]time.Duration, 0),
		},
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *EnhancedSimulator) Run(ctx context.Context) error {
	log.Printf("Starting enhanced simulation...")

	if err := s.initialize(ctx); err != nil {
		return fmt.Errorf("initialization failed: %v", err)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.SimulateActivities(ctx); err != nil {
			log.Printf("Activities simulation error: %v", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.simulateConnectivity(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.collectMetrics(ctx)
	}()

	wg.Wait()
	return nil
}

func (s *EnhancedSimulator) initialize(ctx context.Context) error {
	log.Printf("Starting initialization...")

	log.Printf("Phase 1: Registering %d designers...", s.config.NumDesigners)
	if err := s.createInitialDesigners(ctx); err != nil {
		return fmt.Errorf("failed to create designers: %v", err)
	}

	log.Printf("Phase 2: Publishing portfolio items...")
	if err := s.publishPortfolios(ctx); err != nil {
		return fmt.Errorf("failed to publish portfolios: %v", err)
	}

	log.Printf("Phase 3: Building the connection graph...")
	if err := s.buildConnections(ctx); err != nil {
		return fmt.Errorf("failed to build connections: %v", err)
	}

	log.Printf("Initialization completed successfully")
	return nil
}

func (s *EnhancedSimulator) createInitialDesigners(ctx context.Context) error {
	s.users = make([]*SimulatedDesigner, 0, s.config.NumDesigners)
	s.mu.Lock()
	defer s.mu.Unlock()

	// Limited worker count to not overwhelm the actor system
	numWorkers := 5
	userJobs := make(chan int, numWorkers)
	results := make(chan *SimulatedDesigner, numWorkers)

	var wg sync.WaitGroup

	// Shared rate limiter across all workers
	rateLimiter := time.NewTicker(200 * time.Millisecond)
	defer rateLimiter.Stop()

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			client := &http.Client{
				Timeout: 5 * time.Second,
			}

			for userNum := range userJobs {
				<-rateLimiter.C

				user := &SimulatedDesigner{
					Name:        fmt.Sprintf("designer_%d", userNum),
					Email:       fmt.Sprintf("designer_%d@test.com", userNum),
					IsConnected: true,
					Portfolio:   make([]uuid.UUID, 0),
					Partners:    make([]uuid.UUID, 0),
					LikedItems:  make(map[uuid.UUID]bool),
				}

				var err error
				for retries := 0; retries < 3; retries++ {
					if err = s.registerDesignerWithClient(ctx, user, client); err == nil {
						results <- user
						break
					}
					backoffDuration := time.Duration(math.Pow(2, float64(retries))) * time.Second
					log.Printf("Worker %d: Retry %d for designer %s after %v delay",
						workerID, retries+1, user.Name, backoffDuration)
					time.Sleep(backoffDuration)
				}

				if err != nil {
					log.Printf("Worker %d: Failed to register designer %s after retries: %v",
						workerID, user.Name, err)
				}
			}
		}(i)
	}

	go func() {
		for i := 0; i < s.config.NumDesigners; i++ {
			userJobs <- i
		}
		close(userJobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	successCount := 0
	progressTicker := time.NewTicker(2 * time.Second)
	defer progressTicker.Stop()

	for user := range results {
		s.users = append(s.users, user)
		successCount++

		select {
		case <-progressTicker.C:
			log.Printf("Progress: %d/%d designers created (%.2f%%)",
				successCount, s.config.NumDesigners,
				float64(successCount)/float64(s.config.NumDesigners)*100)
		default:
		}

		time.Sleep(50 * time.Millisecond)
	}

	log.Printf("Successfully created %d designers", len(s.users))
	return nil
}

func (s *EnhancedSimulator) registerDesignerWithClient(ctx context.Context, user *SimulatedDesigner, client *http.Client) error {
	data := map[string]interface{}{
		"name":     user.Name,
		"email":    user.Email,
		"password": "testpass123",
	}

	resp, err := s.makeRequestWithClient(client, "POST", "/user/register", "", data)
	if err != nil {
		return fmt.Errorf("failed to register designer: %v", err)
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return fmt.Errorf("failed to parse registration response: %v", err)
	}

	registeredID, err := uuid.Parse(result.ID)
	if err != nil {
		return fmt.Errorf("invalid user ID returned: %v", err)
	}
	user.ID = registeredID

	// Log in right away: every other endpoint needs a bearer token
	loginData := map[string]interface{}{
		"email":    user.Email,
		"password": "testpass123",
	}
	loginResp, err := s.makeRequestWithClient(client, "POST", "/user/login", "", loginData)
	if err != nil {
		return fmt.Errorf("failed to login designer: %v", err)
	}

	var login struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	if err := json.Unmarshal(loginResp, &login); err != nil {
		return fmt.Errorf("failed to parse login response: %v", err)
	}
	if !login.Success || login.Token == "" {
		return fmt.Errorf("login rejected for designer %s", user.Name)
	}
	user.Token = login.Token

	return nil
}

func (s *EnhancedSimulator) publishPortfolios(ctx context.Context) error {
	categories := []string{"UI/UX", "Graphic Design", "Web Design", "Illustration", "Branding"}

	for _, user := range s.users {
		for i := 0; i < s.config.ItemsPerDesigner; i++ {
			category := categories[rand.Intn(len(categories))]
			data := map[string]interface{}{
				"title":       fmt.Sprintf("%s piece %d by %s", category, i, user.Name),
				"description": fmt.Sprintf("A %s study published %s", category, time.Now().Format(time.RFC3339)),
				"category":    category,
				"tags":        []string{"simulated", category},
			}

			resp, err := s.makeRequest("POST", "/portfolio", user.Token, data)
			if err != nil {
				log.Printf("Failed to publish portfolio item for %s: %v", user.Name, err)
				continue
			}

			var result struct {
				ID string `json:"id"`
			}
			if err := json.Unmarshal(resp, &result); err != nil {
				continue
			}
			itemID, err := uuid.Parse(result.ID)
			if err != nil {
				continue
			}

			user.Portfolio = append(user.Portfolio, itemID)
			s.mu.Lock()
			s.items = append(s.items, itemID)
			s.mu.Unlock()
		}

		time.Sleep(50 * time.Millisecond)
	}

	log.Printf("Published %d portfolio items", len(s.items))
	return nil
}

// buildConnections has each designer request a handful of collaborations,
// then has recipients work through their inbox accepting most of them.
func (s *EnhancedSimulator) buildConnections(ctx context.Context) error {
	for _, user := range s.users {
		numRequests := s.config.ConnectionsPerUser
		if numRequests >= len(s.users) {
			numRequests = len(s.users) - 1
		}

		candidates := make([]*SimulatedDesigner, len(s.users))
		copy(candidates, s.users)
		rand.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})

		sent := 0
		for _, candidate := range candidates {
			if sent >= numRequests {
				break
			}
			if candidate.ID == user.ID {
				continue
			}

			data := map[string]interface{}{
				"recipient": candidate.ID.String(),
			}
			// Duplicate and reverse requests get rejected with a conflict,
			// which is fine here
			if _, err := s.makeRequest("POST", "/connection", user.Token, data); err != nil {
				continue
			}
			sent++
		}

		time.Sleep(50 * time.Millisecond)
	}

	// Now each designer reviews their received requests
	userByID := make(map[uuid.UUID]*SimulatedDesigner, len(s.users))
	for _, user := range s.users {
		userByID[user.ID] = user
	}

	accepted := 0
	for _, user := range s.users {
		resp, err := s.makeRequest("GET", "/connection/received", user.Token, nil)
		if err != nil {
			log.Printf("Failed to list received requests for %s: %v", user.Name, err)
			continue
		}

		var pending []struct {
			ID        string `json:"id"`
			Requester string `json:"requester"`
			Status    string `json:"status"`
		}
		if err := json.Unmarshal(resp, &pending); err != nil {
			continue
		}

		for _, req := range pending {
			if req.Status != "pending" {
				continue
			}

			accept := rand.Float64() < s.config.AcceptRate
			data := map[string]interface{}{
				"connectionId": req.ID,
				"accept":       accept,
			}
			if _, err := s.makeRequest("POST", "/connection/respond", user.Token, data); err != nil {
				continue
			}

			if accept {
				requesterID, err := uuid.Parse(req.Requester)
				if err != nil {
					continue
				}
				user.Partners = append(user.Partners, requesterID)
				if requester, ok := userByID[requesterID]; ok {
					requester.Partners = append(requester.Partners, user.ID)
				}
				accepted++
			}
		}

		time.Sleep(50 * time.Millisecond)
	}

	s.stats.mu.Lock()
	s.stats.TotalConnections = accepted
	s.stats.mu.Unlock()

	log.Printf("Connection graph built: %d accepted connections", accepted)
	return nil
}

// Helper method to make HTTP requests with the shared client
func (s *EnhancedSimulator) makeRequest(method, endpoint, token string, data interface{}) ([]byte, error) {
	return s.makeRequestWithClient(s.client, method, endpoint, token, data)
}

func (s *EnhancedSimulator) makeRequestWithClient(client *http.Client, method, endpoint, token string, data interface{}) ([]byte, error) {
	var body []byte
	var err error

	if data != nil {
		body, err = json.Marshal(data)
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequest(method, s.config.EngineURL+endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	s.recordRequestMetrics(start, err)

	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("request failed with status: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func (s *EnhancedSimulator) simulateConnectivity(ctx context.Context) {
	log.Printf("Starting connectivity simulation...")
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			for _, user := range s.users {
				if user.IsConnected {
					if rand.Float64() < s.config.DisconnectRate {
						user.IsConnected = false
						s.stats.mu.Lock()
						s.stats.ActiveUsers--
						s.stats.mu.Unlock()
					}
				} else {
					if rand.Float64() < s.config.ReconnectRate {
						user.IsConnected = true
						user.LastActive = time.Now()
						s.stats.mu.Lock()
						s.stats.ActiveUsers++
						s.stats.mu.Unlock()
					}
				}
			}
			s.mu.Unlock()
		}
	}
}

func (s *EnhancedSimulator) recordRequestMetrics(start time.Time, err error) {
	s.stats.mu.Lock()
	defer s.stats.mu.Unlock()

	latency := time.Since(start)
	s.stats.TotalRequests++
	s.stats.RequestLatencies = append(s.stats.RequestLatencies, latency)

	if err != nil {
		s.stats.FailedRequests++
	} else {
		s.stats.SuccessRequests++
	}

	totalLatency := s.stats.AverageLatency * time.Duration(s.stats.TotalRequests-1)
	s.stats.AverageLatency = (totalLatency + latency) / time.Duration(s.stats.TotalRequests)
}

func (s *EnhancedSimulator) collectMetrics(ctx context.Context) {
	log.Printf("Starting metrics collection...")
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			activeUsers := 0
			s.mu.RLock()
			userCount := len(s.users)
			for _, user := range s.users {
				if user.IsConnected {
					activeUsers++
				}
			}
			s.mu.RUnlock()

			// ActiveUsers is a write, so take the full lock for it
			s.stats.mu.Lock()
			s.stats.ActiveUsers = activeUsers
			elapsed := time.Since(s.stats.StartTime)
			requestRate := float64(s.stats.TotalRequests) / elapsed.Seconds()
			successRate := 0.0
			if s.stats.TotalRequests > 0 {
				successRate = float64(s.stats.SuccessRequests) / float64(s.stats.TotalRequests) * 100
			}
			averageLatency := s.stats.AverageLatency
			totalConnections := s.stats.TotalConnections
			totalMessages := s.stats.TotalMessages
			totalLikes := s.stats.TotalLikes
			totalPolls := s.stats.TotalPolls
			failedRequests := s.stats.FailedRequests
			s.stats.mu.Unlock()

			log.Printf("\nSimulation Metrics (%.1f seconds elapsed):", elapsed.Seconds())
			log.Printf("- Request Rate: %.2f req/sec", requestRate)
			log.Printf("- Success Rate: %.1f%%", successRate)
			log.Printf("- Average Latency: %v", averageLatency)
			log.Printf("- Active Designers: %d/%d", activeUsers, userCount)
			log.Printf("- Accepted Connections: %d", totalConnections)
			log.Printf("- Total Messages: %d", totalMessages)
			log.Printf("- Total Likes: %d", totalLikes)
			log.Printf("- Conversation Polls: %d", totalPolls)
			log.Printf("- Failed Requests: %d", failedRequests)
		}
	}
}

// SimulationMetrics holds the metrics of the simulation
type SimulationMetrics struct {
	TotalUsers        int
	ActiveUsers       int
	TotalConnections  int
	TotalMessages     int
	TotalLikes        int
	TotalPolls        int
	AverageLatency    time.Duration
	ErrorCount        int
	RequestsPerSecond float64
}

// GetMetrics returns the current simulation metrics
func (s *EnhancedSimulator) GetMetrics() SimulationMetrics {
	s.stats.mu.RLock()
	defer s.stats.mu.RUnlock()

	elapsed := time.Since(s.stats.StartTime)
	requestRate := float64(s.stats.TotalRequests) / elapsed.Seconds()

	return SimulationMetrics{
		TotalUsers:        len(s.users),
		ActiveUsers:       s.stats.ActiveUsers,
		TotalConnections:  s.stats.TotalConnections,
		TotalMessages:     s.stats.TotalMessages,
		TotalLikes:        s.stats.TotalLikes,
		TotalPolls:        s.stats.TotalPolls,
		AverageLatency:    s.stats.AverageLatency,
		ErrorCount:        int(s.stats.FailedRequests),
		RequestsPerSecond: requestRate,
	}
}
