package ledger_test

import (
	"math/big"
	"sync"
	"time"

	"github.com/blues/egf/internal/ledger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
)

var (
	ownerAddr    = common.HexToAddress("0xA0")
	custodyAddr  = common.HexToAddress("0xC0")
	stakeCustody = common.HexToAddress("0xC1")
	saleCustody  = common.HexToAddress("0xC2")
	creatorAddr  = common.HexToAddress("0x01")
	funderAddr   = common.HexToAddress("0x02")
	otherAddr    = common.HexToAddress("0x03")
)

var genesis = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

// eth converts whole ether to wei.
func eth(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(params.Ether))
}

// recordSink collects published events for assertions.
type recordSink struct {
	mu     sync.Mutex
	events []ledger.Event
}

func (s *recordSink) Publish(event ledger.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordSink) all() []ledger.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ledger.Event, len(s.events))
	copy(out, s.events)
	return out
}

func (s *recordSink) last() ledger.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) == 0 {
		return nil
	}
	return s.events[len(s.events)-1]
}

type testEnv struct {
	clock    *ledger.ManualClock
	bank     *ledger.Bank
	leaf     *ledger.Token
	registry *ledger.Registry
	sink     *recordSink
}

// newTestEnv wires a registry with a funded reward reserve and bank balances
// for the creator and two funders.
func newTestEnv() *testEnv {
	clock := ledger.NewManualClock(genesis)
	bank := ledger.NewBank()
	leaf := ledger.NewToken("LeafToken", "LEAF", ownerAddr, eth(1000000), clock)
	sink := &recordSink{}

	registry := ledger.NewRegistry(ownerAddr, custodyAddr, bank, leaf,
		ledger.WithClock(clock),
		ledger.WithEventSink(sink),
	)

	// reward reserve held by the registry custody
	if err := leaf.Transfer(ownerAddr, custodyAddr, eth(100000)); err != nil {
		panic(err)
	}
	for _, addr := range []common.Address{creatorAddr, funderAddr, otherAddr} {
		if err := bank.Deposit(addr, eth(1000)); err != nil {
			panic(err)
		}
	}

	return &testEnv{clock: clock, bank: bank, leaf: leaf, registry: registry, sink: sink}
}

// createCampaign creates a standard open campaign and returns its id.
func (e *testEnv) createCampaign(creator common.Address, target *big.Int, window time.Duration) uint64 {
	now := e.clock.Now()
	id, err := e.registry.CreateCampaign(creator, "Reforestation", "Plant trees in the valley", target,
		now, now.Add(window), "https://example.com/forest.png")
	if err != nil {
		panic(err)
	}
	return id
}

// endCampaign moves the campaign window into the past, keeping other fields.
func (e *testEnv) endCampaign(creator common.Address, id uint64) {
	c, err := e.registry.GetCampaign(id)
	if err != nil {
		panic(err)
	}
	err = e.registry.UpdateCampaign(creator, id, c.Name, c.Description, c.TargetAmount,
		c.StartAt, e.clock.Now().Add(time.Second), c.Image)
	if err != nil {
		panic(err)
	}
	e.clock.Advance(2 * time.Second)
}
