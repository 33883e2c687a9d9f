/* results.go
 * Contains the results webhook handler, which drops cached match lists when a competition's results change so the
 * next shell command reads them fresh
 */

package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const tokenHeader = "X-Webhook-Token"

func isRelevantCompetition(sku, prefix string) bool {
	return strings.HasPrefix(strings.ToUpper(sku), strings.ToUpper(prefix))
}

// ResultsWebhookHandler HTTP endpoint that receives a results update for a competition and refreshes the cache
// Preconditions: receives HTTP ResponseWriter and Http Request carrying a JSON ResultsEvent
// Postconditions: Cached match lists for the competition (and the listed teams) are dropped
func (s *Server) ResultsWebhookHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	if s.token != "" && r.Header.Get(tokenHeader) != s.token {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var event ResultsEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		s.logger.Warn("failed to decode webhook", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if event.SKU == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if !isRelevantCompetition(event.SKU, s.skuPrefix) {
		w.WriteHeader(http.StatusOK)
		return
	}

	s.logger.Info("results event", zap.String("sku", event.SKU), zap.String("event", event.Event), zap.Strings("teams", event.Teams))

	if err := s.refresher.Refresh(r.Context(), event.SKU, event.Teams); err != nil {
		s.logger.Error("cache refresh failed", zap.String("sku", event.SKU), zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Handler routes the webhook endpoints
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/webhooks/results", s.ResultsWebhookHandler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}
