package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cbodonnell/tavernkeep/pkg/gamedata"
	"github.com/cbodonnell/tavernkeep/pkg/repositories/models"
)

// Snapshot is the portable backup document for one community: the three
// relations as flat records. It is what the export operation produces
// and the import operation consumes.
type Snapshot struct {
	Characters []models.Character      `json:"characters"`
	Skills     []models.Skill          `json:"skills"`
	Inventory  []models.InventoryEntry `json:"inventory"`
}

type ErrInvalidFormat struct {
	Reason string
}

func (e *ErrInvalidFormat) Error() string {
	return fmt.Sprintf("invalid snapshot format: %s", e.Reason)
}

func IsInvalidFormat(err error) bool {
	var invalidFormat *ErrInvalidFormat
	return errors.As(err, &invalidFormat)
}

// Encode renders a Snapshot as indented JSON. Nil slices are rendered as
// empty arrays so the document always carries all three keys.
func Encode(s *Snapshot) ([]byte, error) {
	doc := *s
	if doc.Characters == nil {
		doc.Characters = []models.Character{}
	}
	if doc.Skills == nil {
		doc.Skills = []models.Skill{}
	}
	if doc.Inventory == nil {
		doc.Inventory = []models.InventoryEntry{}
	}

	b, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %v", err)
	}
	return b, nil
}

// characterRecord decodes one character entry. The outer field shadows
// the embedded one so a missing unassigned_points key can be told apart
// from an explicit zero.
type characterRecord struct {
	models.Character
	UnassignedPoints *int `json:"unassigned_points"`
}

type snapshotDocument struct {
	Characters *[]characterRecord       `json:"characters"`
	Skills     *[]models.Skill          `json:"skills"`
	Inventory  *[]models.InventoryEntry `json:"inventory"`
}

// Decode parses a snapshot document. Malformed JSON, a non-object
// document, or a document missing any of the three record arrays is an
// ErrInvalidFormat. Character records missing the unassigned_points key
// default to the starting pool; a missing wallet defaults to zero.
func Decode(data []byte) (*Snapshot, error) {
	doc := &snapshotDocument{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, &ErrInvalidFormat{Reason: err.Error()}
	}
	if doc.Characters == nil {
		return nil, &ErrInvalidFormat{Reason: "missing characters"}
	}
	if doc.Skills == nil {
		return nil, &ErrInvalidFormat{Reason: "missing skills"}
	}
	if doc.Inventory == nil {
		return nil, &ErrInvalidFormat{Reason: "missing inventory"}
	}

	s := &Snapshot{
		Skills:    *doc.Skills,
		Inventory: *doc.Inventory,
	}
	for _, record := range *doc.Characters {
		character := record.Character
		if record.UnassignedPoints != nil {
			character.UnassignedPoints = *record.UnassignedPoints
		} else {
			character.UnassignedPoints = gamedata.StartingSkillPoints
		}
		s.Characters = append(s.Characters, character)
	}

	return s, nil
}
