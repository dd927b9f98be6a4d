package ledger

import (
	"sync"

	"github.com/cbodonnell/tavernkeep/pkg/dice"
	"github.com/cbodonnell/tavernkeep/pkg/events"
	"github.com/cbodonnell/tavernkeep/pkg/gamedata"
	"github.com/cbodonnell/tavernkeep/pkg/repositories"
	"github.com/cbodonnell/tavernkeep/pkg/repositories/models"
)

// Ledger is the authoritative record of every character in every
// community. All operations are scoped to a (community, member)
// identity and read-modify-write operations on the same identity are
// serialized.
type Ledger struct {
	repository  repositories.Repository
	roller      dice.Roller
	broker      *events.Broker
	locks       *keyedMutex
	restoreLock sync.RWMutex
}

// NewLedgerOptions contains options for creating a new Ledger.
// Repository is required. Roller defaults to an entropy-seeded roller.
// Broker may be nil, in which case no events are published.
type NewLedgerOptions struct {
	Repository repositories.Repository
	Roller     dice.Roller
	Broker     *events.Broker
}

func NewLedger(opts NewLedgerOptions) *Ledger {
	roller := opts.Roller
	if roller == nil {
		roller = dice.NewRoller()
	}
	return &Ledger{
		repository: opts.Repository,
		roller:     roller,
		broker:     opts.Broker,
		locks:      newKeyedMutex(),
	}
}

// lockIdentity serializes the caller with other operations on the same
// identity and with community restores. The returned func releases both
// locks.
func (l *Ledger) lockIdentity(communityID, memberID string) func() {
	l.restoreLock.RLock()
	m := l.locks.get(identity{communityID: communityID, memberID: memberID})
	m.Lock()
	return func() {
		m.Unlock()
		l.restoreLock.RUnlock()
	}
}

func (l *Ledger) publish(eventType, communityID, memberID string, payload interface{}) {
	if l.broker == nil {
		return
	}
	l.broker.Publish(eventType, communityID, memberID, payload)
}

type identity struct {
	communityID string
	memberID    string
}

// keyedMutex hands out one mutex per identity. Entries are never
// reclaimed; the map is bounded by the number of active characters.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[identity]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{
		locks: make(map[identity]*sync.Mutex),
	}
}

func (k *keyedMutex) get(id identity) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.locks[id]
	if !ok {
		m = &sync.Mutex{}
		k.locks[id] = m
	}
	return m
}

func attributeValue(character *models.Character, attribute gamedata.Attribute) int {
	switch attribute {
	case gamedata.AttributeMind:
		return character.Mind
	case gamedata.AttributeBody:
		return character.Body
	case gamedata.AttributeSoul:
		return character.Soul
	default:
		return 0
	}
}

func poolValues(character *models.Character, pool gamedata.Pool) (current, maximum int) {
	switch pool {
	case gamedata.PoolHealth:
		return character.Health, character.MaxHealth
	case gamedata.PoolSanity:
		return character.Sanity, character.MaxSanity
	case gamedata.PoolSpirit:
		return character.Spirit, character.MaxSpirit
	default:
		return 0, 0
	}
}

func setPoolValue(character *models.Character, pool gamedata.Pool, value int) {
	switch pool {
	case gamedata.PoolHealth:
		character.Health = value
	case gamedata.PoolSanity:
		character.Sanity = value
	case gamedata.PoolSpirit:
		character.Spirit = value
	}
}
