package event_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/blues/egf/internal/event"
	"github.com/blues/egf/internal/ledger"
	"github.com/blues/egf/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	ownerAddr    = common.HexToAddress("0xA0")
	custodyAddr  = common.HexToAddress("0xC0")
	stakeCustody = common.HexToAddress("0xC1")
	creatorAddr  = common.HexToAddress("0x01")
	funderAddr   = common.HexToAddress("0x02")
)

func eth(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(params.Ether))
}

type dispatcherEnv struct {
	db         *gorm.DB
	dispatcher *event.Dispatcher
	bank       *ledger.Bank
	leaf       *ledger.Token
	registry   *ledger.Registry
	engine     *ledger.StakingEngine
}

func newDispatcherEnv(t *testing.T) *dispatcherEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.CampaignModel{},
		&model.ContributionRecordModel{},
		&model.RefundRecordModel{},
		&model.RewardRecordModel{},
		&model.StakeRecordModel{},
		&model.LedgerEventModel{},
	))

	dispatcher, err := event.NewDispatcher(db, 4)
	require.NoError(t, err)
	t.Cleanup(dispatcher.Close)

	bank := ledger.NewBank()
	leaf := ledger.NewToken("LeafToken", "LEAF", ownerAddr, eth(1000000), nil)
	registry := ledger.NewRegistry(ownerAddr, custodyAddr, bank, leaf,
		ledger.WithEventSink(dispatcher),
	)
	dispatcher.BindRegistry(registry)

	engine := ledger.NewStakingEngine(stakeCustody, leaf, bank, registry,
		ledger.WithStakingEventSink(dispatcher),
	)

	require.NoError(t, bank.Deposit(funderAddr, eth(1000)))
	require.NoError(t, leaf.Transfer(ownerAddr, funderAddr, eth(1000)))

	return &dispatcherEnv{
		db:         db,
		dispatcher: dispatcher,
		bank:       bank,
		leaf:       leaf,
		registry:   registry,
		engine:     engine,
	}
}

func TestDispatcherProjectsCampaignLifecycle(t *testing.T) {
	e := newDispatcherEnv(t)

	now := time.Now()
	id, err := e.registry.CreateCampaign(creatorAddr, "Solar rooftop", "Panels for the school roof",
		eth(100), now, now.Add(30*24*time.Hour), "https://example.com/solar.png")
	require.NoError(t, err)
	require.NoError(t, e.registry.FundCampaign(funderAddr, id, eth(10)))

	e.dispatcher.Wait()

	var row model.CampaignModel
	require.NoError(t, e.db.Where("campaign_id = ?", id).First(&row).Error)
	assert.Equal(t, "Solar rooftop", row.Name)
	assert.Equal(t, creatorAddr.Hex(), row.CreatorAddress)
	assert.Equal(t, eth(10).String(), row.AmountCollected)
	assert.Equal(t, model.CampaignStatusActive, row.Status)

	var contribution model.ContributionRecordModel
	require.NoError(t, e.db.Where("campaign_id = ?", id).First(&contribution).Error)
	assert.Equal(t, funderAddr.Hex(), contribution.Address)
	assert.Equal(t, eth(10).String(), contribution.Amount)
	assert.Empty(t, contribution.TokenAddress)

	// every engine event lands in the event table
	var events int64
	e.db.Model(&model.LedgerEventModel{}).Count(&events)
	assert.EqualValues(t, 2, events)
	var processed int64
	e.db.Model(&model.LedgerEventModel{}).Where("processed = ?", true).Count(&processed)
	assert.EqualValues(t, 2, processed)
}

func TestDispatcherProjectsStakePosition(t *testing.T) {
	e := newDispatcherEnv(t)

	require.NoError(t, e.leaf.Approve(funderAddr, stakeCustody, eth(100)))
	require.NoError(t, e.engine.StakeTokens(funderAddr, eth(100), ledger.OneMonth))

	e.dispatcher.Wait()

	var row model.StakeRecordModel
	require.NoError(t, e.db.Where("address = ?", funderAddr.Hex()).First(&row).Error)
	assert.Equal(t, eth(100).String(), row.Amount)
	assert.EqualValues(t, 2592000, row.Duration)
	assert.Equal(t, model.StakeStatusActive, row.Status)
}

func TestDispatcherStampsStakeStartTime(t *testing.T) {
	e := newDispatcherEnv(t)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	clock := ledger.NewManualClock(start)
	engine := ledger.NewStakingEngine(stakeCustody, e.leaf, e.bank, e.registry,
		ledger.WithStakingClock(clock),
		ledger.WithStakingEventSink(e.dispatcher),
	)

	require.NoError(t, e.leaf.Approve(funderAddr, stakeCustody, eth(100)))
	require.NoError(t, engine.StakeTokens(funderAddr, eth(100), ledger.OneMonth))

	e.dispatcher.Wait()

	// the read model carries the engine's stake start, not the ingestion time
	var row model.StakeRecordModel
	require.NoError(t, e.db.Where("address = ?", funderAddr.Hex()).First(&row).Error)
	assert.True(t, row.StartTime.Equal(start))
}

func TestDispatcherRecordsRefund(t *testing.T) {
	e := newDispatcherEnv(t)

	now := time.Now()
	id, err := e.registry.CreateCampaign(creatorAddr, "Solar rooftop", "Panels for the school roof",
		eth(100), now, now.Add(time.Second), "https://example.com/solar.png")
	require.NoError(t, err)
	require.NoError(t, e.registry.FundCampaign(funderAddr, id, eth(10)))

	// wait out the funding window, then refund
	time.Sleep(1100 * time.Millisecond)
	require.NoError(t, e.registry.Refund(funderAddr, id))

	e.dispatcher.Wait()

	var refund model.RefundRecordModel
	require.NoError(t, e.db.Where("campaign_id = ?", id).First(&refund).Error)
	assert.Equal(t, funderAddr.Hex(), refund.Address)
	assert.Equal(t, eth(10).String(), refund.Amount)
}
