package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cbodonnell/tavernkeep/pkg/gamedata"
	"github.com/cbodonnell/tavernkeep/pkg/log"
	"github.com/cbodonnell/tavernkeep/pkg/repositories"
)

func HandleHealthz(repository repositories.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := repository.Ping(r.Context()); err != nil {
			log.Error("failed to ping repository: %v", err)
			http.Error(w, "Storage unavailable", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
			log.Error("failed to encode health status: %v", err)
			http.Error(w, "Failed to encode health status", http.StatusInternalServerError)
			return
		}
	}
}

type ShopResponse struct {
	Currency string              `json:"currency"`
	Items    []gamedata.ShopItem `json:"items"`
}

func HandleShopCatalogue() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := &ShopResponse{
			Currency: gamedata.CurrencyName,
			Items:    gamedata.ShopCatalogue(),
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			log.Error("failed to encode shop catalogue: %v", err)
			http.Error(w, "Failed to encode shop catalogue", http.StatusInternalServerError)
			return
		}
	}
}

type SkillInfo struct {
	Skill     string `json:"skill"`
	Attribute string `json:"attribute"`
}

func HandleSkillList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skills := gamedata.Skills()
		response := make([]SkillInfo, 0, len(skills))
		for _, skill := range skills {
			attribute, _ := gamedata.SkillAttribute(skill)
			response = append(response, SkillInfo{
				Skill:     skill,
				Attribute: string(attribute),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			log.Error("failed to encode skill list: %v", err)
			http.Error(w, "Failed to encode skill list", http.StatusInternalServerError)
			return
		}
	}
}
