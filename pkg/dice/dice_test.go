package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRollerRange(t *testing.T) {
	roller := NewRoller()
	for i := 0; i < 1000; i++ {
		roll := roller.Roll(20)
		assert.GreaterOrEqual(t, roll, 1)
		assert.LessOrEqual(t, roll, 20)
	}
}

func TestRollerZeroSides(t *testing.T) {
	roller := NewRoller()
	assert.Equal(t, 1, roller.Roll(0))
	assert.Equal(t, 1, roller.Roll(-4))
}

func TestSeededRollerDeterministic(t *testing.T) {
	a := NewSeededRoller(42)
	b := NewSeededRoller(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Roll(20), b.Roll(20))
	}
}
