package snapshot

import (
	"bytes"
	"testing"

	"github.com/cbodonnell/tavernkeep/pkg/repositories/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	s := &Snapshot{
		Characters: []models.Character{
			{
				CommunityID: "guild-1", MemberID: "member-1", Name: "Livia", Origin: "citizen",
				Mind: 5, Body: 3, Soul: 1,
				MaxHealth: 6, Health: 6, MaxSanity: 10, Sanity: 10, MaxSpirit: 2, Spirit: 2,
				Wallet: 400, UnassignedPoints: 10,
			},
		},
		Skills: []models.Skill{
			{CommunityID: "guild-1", MemberID: "member-1", Skill: "lore", Points: 1},
		},
		Inventory: []models.InventoryEntry{
			{CommunityID: "guild-1", MemberID: "member-1", Item: "common_outfit", Qty: 1},
		},
	}

	data, err := Encode(s)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, s.Characters, got.Characters)
	assert.Equal(t, s.Skills, got.Skills)
	assert.Equal(t, s.Inventory, got.Inventory)
}

func TestEncodeEmpty(t *testing.T) {
	data, err := Encode(&Snapshot{})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"characters": []`)
	assert.Contains(t, string(data), `"skills": []`)
	assert.Contains(t, string(data), `"inventory": []`)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Empty(t, got.Characters)
	assert.Empty(t, got.Skills)
	assert.Empty(t, got.Inventory)
}

func TestDecodeDefaults(t *testing.T) {
	data := []byte(`{
		"characters": [
			{"community_id": "guild-1", "member_id": "member-1", "name": "Livia", "origin": "noble"}
		],
		"skills": [],
		"inventory": []
	}`)

	got, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, got.Characters, 1)
	assert.Equal(t, 10, got.Characters[0].UnassignedPoints)
	assert.Equal(t, 0, got.Characters[0].Wallet)
}

func TestDecodeExplicitZeroPoints(t *testing.T) {
	data := []byte(`{
		"characters": [
			{"community_id": "guild-1", "member_id": "member-1", "name": "Livia", "unassigned_points": 0}
		],
		"skills": [],
		"inventory": []
	}`)

	got, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, got.Characters, 1)
	assert.Equal(t, 0, got.Characters[0].UnassignedPoints)
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "malformed json",
			data: `{"characters": [`,
		},
		{
			name: "not an object",
			data: `[1, 2, 3]`,
		},
		{
			name: "missing characters",
			data: `{"skills": [], "inventory": []}`,
		},
		{
			name: "missing skills",
			data: `{"characters": [], "inventory": []}`,
		},
		{
			name: "missing inventory",
			data: `{"characters": [], "skills": []}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, IsInvalidFormat(err))
		})
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	s := &Snapshot{
		Characters: []models.Character{
			{CommunityID: "guild-1", MemberID: "member-1", Name: "Livia", UnassignedPoints: 7},
		},
		Skills:    []models.Skill{},
		Inventory: []models.InventoryEntry{},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteArchive(&buf, s))

	got, err := ReadArchive(&buf)
	require.NoError(t, err)
	assert.Equal(t, s.Characters, got.Characters)
}
