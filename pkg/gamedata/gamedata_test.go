package gamedata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "already normalized",
			in:   "melee_weapons",
			want: "melee_weapons",
		},
		{
			name: "mixed case with spaces",
			in:   "Melee Weapons",
			want: "melee_weapons",
		},
		{
			name: "surrounding whitespace",
			in:   "  Exorcism ",
			want: "exorcism",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestSkillAttribute(t *testing.T) {
	tests := []struct {
		name          string
		skill         string
		wantAttribute Attribute
		wantOK        bool
	}{
		{
			name:          "mind skill",
			skill:         SkillLore,
			wantAttribute: AttributeMind,
			wantOK:        true,
		},
		{
			name:          "body skill",
			skill:         SkillBrawling,
			wantAttribute: AttributeBody,
			wantOK:        true,
		},
		{
			name:          "soul skill",
			skill:         SkillExorcism,
			wantAttribute: AttributeSoul,
			wantOK:        true,
		},
		{
			name:   "unknown skill",
			skill:  "basket_weaving",
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attribute, ok := SkillAttribute(tt.skill)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantAttribute, attribute)
		})
	}
}

func TestSkills(t *testing.T) {
	skills := Skills()
	require.Len(t, skills, 12)

	counts := map[Attribute]int{}
	for _, skill := range skills {
		attribute, ok := SkillAttribute(skill)
		require.True(t, ok, "skill %s has no attribute", skill)
		counts[attribute]++
	}
	assert.Equal(t, 4, counts[AttributeMind])
	assert.Equal(t, 4, counts[AttributeBody])
	assert.Equal(t, 4, counts[AttributeSoul])
}

func TestItemPrice(t *testing.T) {
	price, ok := ItemPrice(ItemPistol)
	require.True(t, ok)
	assert.Equal(t, 200, price)

	_, ok = ItemPrice("cursed_idol")
	assert.False(t, ok)
}

func TestPoolMappings(t *testing.T) {
	tests := []struct {
		pool          Pool
		wantAttribute Attribute
		wantCondition string
	}{
		{pool: PoolHealth, wantAttribute: AttributeBody, wantCondition: ConditionIncapacitated},
		{pool: PoolSanity, wantAttribute: AttributeMind, wantCondition: ConditionInsane},
		{pool: PoolSpirit, wantAttribute: AttributeSoul, wantCondition: ConditionPossessed},
	}
	for _, tt := range tests {
		t.Run(string(tt.pool), func(t *testing.T) {
			assert.Equal(t, tt.wantAttribute, tt.pool.Attribute())
			assert.Equal(t, tt.wantCondition, tt.pool.TerminalCondition())
		})
	}
}

func TestGetOrigin(t *testing.T) {
	origin, ok := GetOrigin(OriginStreetrat)
	require.True(t, ok)
	assert.Equal(t, 10, origin.Wallet)
	assert.Equal(t, ItemPistol, origin.DefaultWeapon())
	assert.True(t, origin.AllowsWeapon(ItemDagger))
	assert.False(t, origin.AllowsWeapon(ItemHealingSalves))

	noble, ok := GetOrigin(OriginNoble)
	require.True(t, ok)
	assert.Equal(t, 1000, noble.Wallet)
	assert.Empty(t, noble.WeaponChoices)
	assert.Equal(t, "", noble.DefaultWeapon())

	_, ok = GetOrigin("pirate")
	assert.False(t, ok)
}
