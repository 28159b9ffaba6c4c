package handlers

import (
	"encoding/json"
	"net/http"

	"designerhub/internal/engine/actors"
	"designerhub/internal/models"

	"github.com/google/uuid"
)

// PortfolioRequest represents a request to create or update a portfolio item
type PortfolioRequest struct {
	ID          string                  `json:"id,omitempty"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Images      []models.PortfolioImage `json:"images,omitempty"`
	Category    string                  `json:"category"`
	Tags        []string                `json:"tags,omitempty"`
	Tools       []string                `json:"tools,omitempty"`
	IsPublic    *bool                   `json:"isPublic,omitempty"`
}

// HandlePortfolio handles portfolio item CRUD
func (s *Server) HandlePortfolio() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			s.createPortfolioItem(w, r)
		case http.MethodGet:
			s.getPortfolioItems(w, r)
		case http.MethodPut:
			s.updatePortfolioItem(w, r)
		case http.MethodDelete:
			s.deletePortfolioItem(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) createPortfolioItem(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(r)
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req PortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	result, err := s.ask(s.Engine.GetPortfolioActor(), &actors.CreatePortfolioMsg{
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		Images:      req.Images,
		Category:    models.PortfolioCategory(req.Category),
		Tags:        req.Tags,
		Tools:       req.Tools,
		IsPublic:    isPublic,
	})
	if err != nil {
		http.Error(w, "Failed to create portfolio item", http.StatusInternalServerError)
		return
	}

	s.writeResult(w, http.StatusCreated, result)
}

func (s *Server) getPortfolioItems(w http.ResponseWriter, r *http.Request) {
	// Single item by id, or a gallery listing filtered by owner/category
	if idStr := r.URL.Query().Get("id"); idStr != "" {
		id, err := uuid.Parse(idStr)
		if err != nil {
			http.Error(w, "Invalid portfolio ID", http.StatusBadRequest)
			return
		}
		result, err := s.ask(s.Engine.GetPortfolioActor(), &actors.GetPortfolioMsg{PortfolioID: id})
		if err != nil {
			http.Error(w, "Failed to get portfolio item", http.StatusInternalServerError)
			return
		}
		s.writeResult(w, http.StatusOK, result)
		return
	}

	msg := &actors.ListPortfolioMsg{
		Category: models.PortfolioCategory(r.URL.Query().Get("category")),
	}
	if ownerStr := r.URL.Query().Get("userId"); ownerStr != "" {
		ownerID, err := uuid.Parse(ownerStr)
		if err != nil {
			http.Error(w, "Invalid user ID", http.StatusBadRequest)
			return
		}
		msg.OwnerID = &ownerID
	}

	result, err := s.ask(s.Engine.GetPortfolioActor(), msg)
	if err != nil {
		http.Error(w, "Failed to list portfolio items", http.StatusInternalServerError)
		return
	}
	s.writeResult(w, http.StatusOK, result)
}

func (s *Server) updatePortfolioItem(w http.ResponseWriter, r *http.Request) {
	actingUser, ok := callerID(r)
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req PortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		http.Error(w, "Invalid portfolio ID", http.StatusBadRequest)
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	result, err := s.ask(s.Engine.GetPortfolioActor(), &actors.UpdatePortfolioMsg{
		PortfolioID: id,
		ActingUser:  actingUser,
		Title:       req.Title,
		Description: req.Description,
		Images:      req.Images,
		Category:    models.PortfolioCategory(req.Category),
		Tags:        req.Tags,
		Tools:       req.Tools,
		IsPublic:    isPublic,
	})
	if err != nil {
		http.Error(w, "Failed to update portfolio item", http.StatusInternalServerError)
		return
	}

	s.writeResult(w, http.StatusOK, result)
}

func (s *Server) deletePortfolioItem(w http.ResponseWriter, r *http.Request) {
	actingUser, ok := callerID(r)
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	idStr := r.URL.Query().Get("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "Invalid portfolio ID", http.StatusBadRequest)
		return
	}

	result, err := s.ask(s.Engine.GetPortfolioActor(), &actors.DeletePortfolioMsg{
		PortfolioID: id,
		ActingUser:  actingUser,
	})
	if err != nil {
		http.Error(w, "Failed to delete portfolio item", http.StatusInternalServerError)
		return
	}

	if success, ok := result.(bool); ok {
		writeJSON(w, http.StatusOK, map[string]bool{"success": success})
		return
	}
	s.writeResult(w, http.StatusOK, result)
}

// HandleToggleLike toggles the caller's like on a portfolio item
func (s *Server) HandleToggleLike() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		userID, ok := callerID(r)
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		portfolioStr := r.URL.Query().Get("portfolioId")
		portfolioID, err := uuid.Parse(portfolioStr)
		if err != nil {
			http.Error(w, "Invalid portfolio ID", http.StatusBadRequest)
			return
		}

		result, err := s.ask(s.Engine.GetPortfolioActor(), &actors.ToggleLikeMsg{
			PortfolioID: portfolioID,
			UserID:      userID,
		})
		if err != nil {
			http.Error(w, "Failed to toggle like", http.StatusInternalServerError)
			return
		}

		if liked, ok := result.(bool); ok {
			writeJSON(w, http.StatusOK, map[string]bool{"liked": liked})
			return
		}
		s.writeResult(w, http.StatusOK, result)
	}
}

// HandleUserLikes lists the caller's likes
func (s *Server) HandleUserLikes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		userID, ok := callerID(r)
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		result, err := s.ask(s.Engine.GetPortfolioActor(), &actors.GetUserLikesMsg{UserID: userID})
		if err != nil {
			http.Error(w, "Failed to list likes", http.StatusInternalServerError)
			return
		}

		s.writeResult(w, http.StatusOK, result)
	}
}
