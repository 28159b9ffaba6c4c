package handlers

import (
	"encoding/json"
	"net/http"

	"designerhub/internal/engine/actors"
	"designerhub/internal/models"

	"github.com/google/uuid"
)

// SendMessageRequest represents a request to send a direct message
type SendMessageRequest struct {
	Recipient string `json:"recipient"`
	Content   string `json:"content"`
	Kind      string `json:"kind,omitempty"`
}

// HandleSendMessage handles sending a direct message to a connection
func (s *Server) HandleSendMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		senderID, ok := callerID(r)
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		var req SendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		recipientID, err := uuid.Parse(req.Recipient)
		if err != nil {
			http.Error(w, "Invalid recipient ID", http.StatusBadRequest)
			return
		}

		msg := &actors.SendMessageMsg{
			SenderID:    senderID,
			RecipientID: recipientID,
			Content:     req.Content,
			Kind:        models.MessageKind(req.Kind),
		}

		result, err := s.ask(s.Engine.GetMessageActor(), msg)
		if err != nil {
			http.Error(w, "Failed to send message", http.StatusInternalServerError)
			return
		}

		s.writeResult(w, http.StatusCreated, result)
	}
}

// HandleThread returns the full message history with one correspondent,
// oldest first, and marks the fetched incoming messages as read.
func (s *Server) HandleThread() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		viewerID, ok := callerID(r)
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		correspondentStr := r.URL.Query().Get("correspondentId")
		if correspondentStr == "" {
			http.Error(w, "Correspondent ID required", http.StatusBadRequest)
			return
		}

		correspondentID, err := uuid.Parse(correspondentStr)
		if err != nil {
			http.Error(w, "Invalid correspondent ID", http.StatusBadRequest)
			return
		}

		msg := &actors.FetchThreadMsg{
			ViewerID:        viewerID,
			CorrespondentID: correspondentID,
		}

		result, err := s.ask(s.Engine.GetMessageActor(), msg)
		if err != nil {
			http.Error(w, "Failed to get thread", http.StatusInternalServerError)
			return
		}

		s.writeResult(w, http.StatusOK, result)
	}
}

// HandleConversations returns the caller's conversation list: one row
// per correspondent with the latest message and unread count.
func (s *Server) HandleConversations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		viewerID, ok := callerID(r)
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		result, err := s.ask(s.Engine.GetMessageActor(), &actors.ListConversationsMsg{ViewerID: viewerID})
		if err != nil {
			http.Error(w, "Failed to list conversations", http.StatusInternalServerError)
			return
		}

		s.writeResult(w, http.StatusOK, result)
	}
}
