package handlers

import (
	"encoding/json"
	"net/http"

	"designerhub/internal/engine/actors"

	"github.com/google/uuid"
)

// RequestConnectionRequest represents a request to start a collaboration
type RequestConnectionRequest struct {
	Recipient string `json:"recipient"`
}

// RespondConnectionRequest represents the recipient's decision
type RespondConnectionRequest struct {
	ConnectionID string `json:"connectionId"`
	Accept       bool   `json:"accept"`
}

// HandleConnection creates a pending collaboration request, or fetches
// a single one by id
func (s *Server) HandleConnection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			s.requestConnection(w, r)
		case http.MethodGet:
			s.getConnection(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) requestConnection(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := callerID(r)
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req RequestConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	recipientID, err := uuid.Parse(req.Recipient)
	if err != nil {
		http.Error(w, "Invalid recipient ID", http.StatusBadRequest)
		return
	}

	msg := &actors.RequestConnectionMsg{
		RequesterID: requesterID,
		RecipientID: recipientID,
	}

	result, err := s.ask(s.Engine.GetConnectionActor(), msg)
	if err != nil {
		http.Error(w, "Failed to create connection request", http.StatusInternalServerError)
		return
	}

	s.writeResult(w, http.StatusCreated, result)
}

func (s *Server) getConnection(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	connectionID, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		http.Error(w, "Invalid connection ID", http.StatusBadRequest)
		return
	}

	result, err := s.ask(s.Engine.GetConnectionActor(), &actors.GetConnectionMsg{
		ConnectionID: connectionID,
		ActingUserID: userID,
	})
	if err != nil {
		http.Error(w, "Failed to get connection request", http.StatusInternalServerError)
		return
	}

	s.writeResult(w, http.StatusOK, result)
}

// HandleRespondConnection lets the recipient accept or reject a pending request
func (s *Server) HandleRespondConnection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		actingUserID, ok := callerID(r)
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		var req RespondConnectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		connectionID, err := uuid.Parse(req.ConnectionID)
		if err != nil {
			http.Error(w, "Invalid connection ID", http.StatusBadRequest)
			return
		}

		msg := &actors.RespondConnectionMsg{
			ConnectionID: connectionID,
			ActingUserID: actingUserID,
			Accept:       req.Accept,
		}

		result, err := s.ask(s.Engine.GetConnectionActor(), msg)
		if err != nil {
			http.Error(w, "Failed to respond to connection request", http.StatusInternalServerError)
			return
		}

		s.writeResult(w, http.StatusOK, result)
	}
}

// HandleReceivedConnections lists requests where the caller is the recipient
func (s *Server) HandleReceivedConnections() http.HandlerFunc {
	return s.handleListConnections(true)
}

// HandleSentConnections lists requests where the caller is the requester
func (s *Server) HandleSentConnections() http.HandlerFunc {
	return s.handleListConnections(false)
}

func (s *Server) handleListConnections(received bool) http.HandlerFunc {
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

		var msg interface{}
		if received {
			msg = &actors.ListReceivedRequestsMsg{UserID: userID}
		} else {
			msg = &actors.ListSentRequestsMsg{UserID: userID}
		}

		result, err := s.ask(s.Engine.GetConnectionActor(), msg)
		if err != nil {
			http.Error(w, "Failed to list connection requests", http.StatusInternalServerError)
			return
		}

		s.writeResult(w, http.StatusOK, result)
	}
}
