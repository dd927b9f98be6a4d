package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cbodonnell/tavernkeep/pkg/ledger"
	"github.com/cbodonnell/tavernkeep/pkg/log"
	"github.com/gorilla/mux"
)

type CreateCharacterRequest struct {
	Name      string `json:"name"`
	Origin    string `json:"origin"`
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Weapon    string `json:"weapon,omitempty"`
}

func HandleCreateCharacter(l *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		if !requireMemberAccess(w, r, vars["memberID"]) {
			return
		}

		request := &CreateCharacterRequest{}
		if !decodeRequest(w, r, request) {
			return
		}

		sheet, err := l.CreateCharacter(r.Context(), ledger.CreateCharacterParams{
			CommunityID: vars["communityID"],
			MemberID:    vars["memberID"],
			Name:        request.Name,
			Origin:      request.Origin,
			Primary:     request.Primary,
			Secondary:   request.Secondary,
			Weapon:      request.Weapon,
		})
		if err != nil {
			writeLedgerError(w, "create character", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(sheet); err != nil {
			log.Error("failed to encode sheet: %v", err)
			http.Error(w, "Failed to encode sheet", http.StatusInternalServerError)
			return
		}
	}
}

func HandleGetSheet(l *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		if !requireMemberAccess(w, r, vars["memberID"]) {
			return
		}

		sheet, err := l.GetSheet(r.Context(), vars["communityID"], vars["memberID"])
		if err != nil {
			writeLedgerError(w, "get sheet", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(sheet); err != nil {
			log.Error("failed to encode sheet: %v", err)
			http.Error(w, "Failed to encode sheet", http.StatusInternalServerError)
			return
		}
	}
}

type AllocateSkillPointsRequest struct {
	Skill  string `json:"skill"`
	Points int    `json:"points"`
}

func HandleAllocateSkillPoints(l *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		if !requireMemberAccess(w, r, vars["memberID"]) {
			return
		}

		request := &AllocateSkillPointsRequest{}
		if !decodeRequest(w, r, request) {
			return
		}

		result, err := l.AllocateSkillPoints(r.Context(), vars["communityID"], vars["memberID"], request.Skill, request.Points)
		if err != nil {
			writeLedgerError(w, "allocate skill points", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			log.Error("failed to encode allocation result: %v", err)
			http.Error(w, "Failed to encode allocation result", http.StatusInternalServerError)
			return
		}
	}
}

type RollCheckRequest struct {
	Skill string `json:"skill"`
}

func HandleRollCheck(l *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		if !requireMemberAccess(w, r, vars["memberID"]) {
			return
		}

		request := &RollCheckRequest{}
		if !decodeRequest(w, r, request) {
			return
		}

		result, err := l.RollCheck(r.Context(), vars["communityID"], vars["memberID"], request.Skill)
		if err != nil {
			writeLedgerError(w, "roll check", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			log.Error("failed to encode check result: %v", err)
			http.Error(w, "Failed to encode check result", http.StatusInternalServerError)
			return
		}
	}
}

type AdjustPoolRequest struct {
	Pool   string `json:"pool"`
	Amount int    `json:"amount"`
}

func HandleApplyDamage(l *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		if !requireMemberAccess(w, r, vars["memberID"]) {
			return
		}

		request := &AdjustPoolRequest{}
		if !decodeRequest(w, r, request) {
			return
		}

		result, err := l.ApplyDamage(r.Context(), vars["communityID"], vars["memberID"], request.Pool, request.Amount)
		if err != nil {
			writeLedgerError(w, "apply damage", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			log.Error("failed to encode pool result: %v", err)
			http.Error(w, "Failed to encode pool result", http.StatusInternalServerError)
			return
		}
	}
}

func HandleApplyHeal(l *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		if !requireMemberAccess(w, r, vars["memberID"]) {
			return
		}

		request := &AdjustPoolRequest{}
		if !decodeRequest(w, r, request) {
			return
		}

		result, err := l.ApplyHeal(r.Context(), vars["communityID"], vars["memberID"], request.Pool, request.Amount)
		if err != nil {
			writeLedgerError(w, "apply heal", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			log.Error("failed to encode pool result: %v", err)
			http.Error(w, "Failed to encode pool result", http.StatusInternalServerError)
			return
		}
	}
}
