package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cbodonnell/tavernkeep/pkg/api/middleware"
	authproviders "github.com/cbodonnell/tavernkeep/pkg/auth/providers"
	"github.com/cbodonnell/tavernkeep/pkg/ledger"
	"github.com/cbodonnell/tavernkeep/pkg/log"
	"github.com/cbodonnell/tavernkeep/pkg/snapshot"
)

// requireClaims returns the caller claims stored by the auth middleware
func requireClaims(w http.ResponseWriter, r *http.Request) (*authproviders.TokenClaims, bool) {
	claims, ok := middleware.CallerClaims(r.Context())
	if !ok {
		log.Error("failed to get claims from context")
		http.Error(w, "Failed to get claims from context", http.StatusInternalServerError)
		return nil, false
	}
	return claims, true
}

// requireMemberAccess checks that the caller may act on the member.
// Players act on their own member, a game master may act on any member.
func requireMemberAccess(w http.ResponseWriter, r *http.Request, memberID string) bool {
	claims, ok := requireClaims(w, r)
	if !ok {
		return false
	}
	if claims.IsGM() || claims.Subject == memberID {
		return true
	}
	http.Error(w, "Cannot act on another member", http.StatusForbidden)
	return false
}

// decodeRequest decodes a JSON request body
func decodeRequest(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		return false
	}
	return true
}

// writeLedgerError maps ledger errors onto HTTP statuses
func writeLedgerError(w http.ResponseWriter, op string, err error) {
	switch {
	case ledger.IsAlreadyExists(err):
		http.Error(w, "Character already exists", http.StatusConflict)
	case ledger.IsNotFound(err):
		http.Error(w, "Character not found", http.StatusNotFound)
	case ledger.IsUnknownSkill(err), ledger.IsUnknownItem(err), ledger.IsInvalidInput(err), snapshot.IsInvalidFormat(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case ledger.IsInsufficientFunds(err):
		http.Error(w, err.Error(), http.StatusPaymentRequired)
	default:
		log.Error("failed to %s: %v", op, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
