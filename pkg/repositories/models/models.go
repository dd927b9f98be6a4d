package models

// Character is one member's character within a community.
type Character struct {
	CommunityID string `json:"community_id"`
	MemberID    string `json:"member_id"`
	Name        string `json:"name"`
	Origin      string `json:"origin"`

	Mind int `json:"mind"`
	Body int `json:"body"`
	Soul int `json:"soul"`

	MaxHealth int `json:"max_health"`
	Health    int `json:"health"`
	MaxSanity int `json:"max_sanity"`
	Sanity    int `json:"sanity"`
	MaxSpirit int `json:"max_spirit"`
	Spirit    int `json:"spirit"`

	Wallet           int `json:"wallet"`
	UnassignedPoints int `json:"unassigned_points"`
}

// Skill is one character's training in a single skill.
type Skill struct {
	CommunityID string `json:"community_id"`
	MemberID    string `json:"member_id"`
	Skill       string `json:"skill"`
	Points      int    `json:"points"`
}

// InventoryEntry is a quantity of one item held by one character.
type InventoryEntry struct {
	CommunityID string `json:"community_id"`
	MemberID    string `json:"member_id"`
	Item        string `json:"item"`
	Qty         int    `json:"qty"`
}

// CommunityState holds every row belonging to one community, each slice
// in stable order.
type CommunityState struct {
	Characters []Character      `json:"characters"`
	Skills     []Skill          `json:"skills"`
	Inventory  []InventoryEntry `json:"inventory"`
}
