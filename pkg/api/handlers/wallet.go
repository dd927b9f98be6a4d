package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cbodonnell/tavernkeep/pkg/ledger"
	"github.com/cbodonnell/tavernkeep/pkg/log"
	"github.com/gorilla/mux"
)

func HandleWalletBalance(l *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		if !requireMemberAccess(w, r, vars["memberID"]) {
			return
		}

		balance, err := l.WalletBalance(r.Context(), vars["communityID"], vars["memberID"])
		if err != nil {
			writeLedgerError(w, "get wallet balance", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(balance); err != nil {
			log.Error("failed to encode balance: %v", err)
			http.Error(w, "Failed to encode balance", http.StatusInternalServerError)
			return
		}
	}
}

type AdjustWalletRequest struct {
	Amount int `json:"amount"`
}

func HandleWalletDebit(l *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		if !requireMemberAccess(w, r, vars["memberID"]) {
			return
		}

		request := &AdjustWalletRequest{}
		if !decodeRequest(w, r, request) {
			return
		}

		balance, err := l.WalletDebit(r.Context(), vars["communityID"], vars["memberID"], request.Amount)
		if err != nil {
			writeLedgerError(w, "debit wallet", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(balance); err != nil {
			log.Error("failed to encode balance: %v", err)
			http.Error(w, "Failed to encode balance", http.StatusInternalServerError)
			return
		}
	}
}

func HandleWalletCredit(l *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		request := &AdjustWalletRequest{}
		if !decodeRequest(w, r, request) {
			return
		}

		balance, err := l.WalletCredit(r.Context(), vars["communityID"], vars["memberID"], request.Amount)
		if err != nil {
			writeLedgerError(w, "credit wallet", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(balance); err != nil {
			log.Error("failed to encode balance: %v", err)
			http.Error(w, "Failed to encode balance", http.StatusInternalServerError)
			return
		}
	}
}

type PurchaseRequest struct {
	Item string `json:"item"`
	Qty  int    `json:"qty"`
}

func HandlePurchase(l *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		if !requireMemberAccess(w, r, vars["memberID"]) {
			return
		}

		request := &PurchaseRequest{}
		if !decodeRequest(w, r, request) {
			return
		}

		result, err := l.Purchase(r.Context(), vars["communityID"], vars["memberID"], request.Item, request.Qty)
		if err != nil {
			writeLedgerError(w, "purchase item", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			log.Error("failed to encode purchase result: %v", err)
			http.Error(w, "Failed to encode purchase result", http.StatusInternalServerError)
			return
		}
	}
}

type GrantItemRequest struct {
	Item string `json:"item"`
	Qty  int    `json:"qty"`
}

func HandleGrantItem(l *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		request := &GrantItemRequest{}
		if !decodeRequest(w, r, request) {
			return
		}

		result, err := l.GrantItem(r.Context(), vars["communityID"], vars["memberID"], request.Item, request.Qty)
		if err != nil {
			writeLedgerError(w, "grant item", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			log.Error("failed to encode grant result: %v", err)
			http.Error(w, "Failed to encode grant result", http.StatusInternalServerError)
			return
		}
	}
}
