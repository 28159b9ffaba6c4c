package handlers

import (
	"encoding/json"
	"net/http"

	"designerhub/internal/api"
	"designerhub/internal/engine/actors"

	"github.com/google/uuid"
)

// RegisterUserRequest represents a request to register a new user
type RegisterUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a request to log in a user
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest represents a request to update the caller's profile
type UpdateProfileRequest struct {
	Name      string   `json:"name"`
	Bio       string   `json:"bio"`
	AvatarURL string   `json:"avatarUrl"`
	Skills    []string `json:"skills"`
}

// HandleUserRegistration handles requests to register a new user
func (s *Server) HandleUserRegistration() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req RegisterUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		result, err := s.ask(s.Engine.GetUserActor(), &actors.RegisterUserMsg{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			http.Error(w, "Failed to register user", http.StatusInternalServerError)
			return
		}

		s.writeResult(w, http.StatusCreated, result)
	}
}

// HandleUserLogin handles requests to log in a user
func (s *Server) HandleUserLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		result, err := s.ask(s.Engine.GetUserActor(), &actors.LoginMsg{
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			s.Logger.Errorw("login request failed", "error", err)
			http.Error(w, "Failed to process login", http.StatusInternalServerError)
			return
		}

		loginResp, ok := result.(*api.LoginResponse)
		if !ok {
			s.Logger.Errorw("unexpected login response type", "type", result)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		// Only mint a token when the credentials checked out
		if loginResp.Success {
			userID, err := uuid.Parse(loginResp.UserID)
			if err != nil {
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			token, err := s.Auth.GenerateToken(userID)
			if err != nil {
				s.Logger.Errorw("failed to generate token", "error", err)
				http.Error(w, "Failed to generate auth token", http.StatusInternalServerError)
				return
			}
			loginResp.Token = token
		}

		status := http.StatusOK
		if !loginResp.Success {
			status = http.StatusUnauthorized
		}
		writeJSON(w, status, loginResp)
	}
}

// HandleUserProfile serves public profile reads and caller-scoped updates
func (s *Server) HandleUserProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.getProfile(w, r)
		case http.MethodPut:
			s.updateProfile(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	userIDStr := r.URL.Query().Get("userId")
	if userIDStr == "" {
		http.Error(w, "User ID required", http.StatusBadRequest)
		return
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	result, err := s.ask(s.Engine.GetUserActor(), &actors.GetUserProfileMsg{UserID: userID})
	if err != nil {
		http.Error(w, "Failed to get profile", http.StatusInternalServerError)
		return
	}

	s.writeResult(w, http.StatusOK, result)
}

// HandleUserSearch finds designers by name or skill for the network page
func (s *Server) HandleUserSearch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		query := r.URL.Query().Get("query")
		if query == "" {
			http.Error(w, "Search query required", http.StatusBadRequest)
			return
		}

		result, err := s.ask(s.Engine.GetUserActor(), &actors.SearchUsersMsg{Query: query})
		if err != nil {
			http.Error(w, "Failed to search users", http.StatusInternalServerError)
			return
		}

		s.writeResult(w, http.StatusOK, result)
	}
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	result, err := s.ask(s.Engine.GetUserActor(), &actors.UpdateProfileMsg{
		UserID:    userID,
		Name:      req.Name,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
		Skills:    req.Skills,
	})
	if err != nil {
		http.Error(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}

	s.writeResult(w, http.StatusOK, result)
}
