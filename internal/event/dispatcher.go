package event

import (
	"encoding/json"
	"sync"

	"github.com/blues/egf/internal/ledger"
	"github.com/blues/egf/internal/logger"
	"github.com/blues/egf/internal/logic"
	"github.com/blues/egf/internal/model"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
)

// Dispatcher 账本事件分发器，实现ledger.EventSink
// 事件先落库再分发给处理器，处理完成后标记processed
type Dispatcher struct {
	pool       *ants.Pool
	eventLogic *logic.EventLogic

	campaignProcessor *CampaignProcessor
	fundingProcessor  *FundingProcessor
	stakingProcessor  *StakingProcessor

	wg sync.WaitGroup
}

// NewDispatcher 创建事件分发器
func NewDispatcher(db *gorm.DB, poolSize int) (*Dispatcher, error) {
	if poolSize <= 0 {
		poolSize = 8
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	campaignProcessor := NewCampaignProcessor(db)
	return &Dispatcher{
		pool:              pool,
		eventLogic:        logic.NewEventLogic(db),
		campaignProcessor: campaignProcessor,
		fundingProcessor:  NewFundingProcessor(db, campaignProcessor),
		stakingProcessor:  NewStakingProcessor(db),
	}, nil
}

// BindRegistry 注入活动登记簿，处理器用它获取活动完整快照
// 引擎和分发器互相引用，必须在构造后单独绑定
func (d *Dispatcher) BindRegistry(registry *ledger.Registry) {
	d.campaignProcessor.BindRegistry(registry)
}

// Publish 接收引擎事件，落库后异步分发
func (d *Dispatcher) Publish(evt ledger.Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		logger.Error("Failed to marshal event %s: %v", evt.Name(), err)
		return
	}

	record := &model.LedgerEventModel{
		EventType: evt.Name(),
		Data:      string(data),
	}
	if err := d.eventLogic.CreateEvent(record); err != nil {
		logger.Error("Failed to save event %s: %v", evt.Name(), err)
	}

	d.wg.Add(1)
	submitErr := d.pool.Submit(func() {
		defer d.wg.Done()
		if err := d.handleEvent(evt); err != nil {
			logger.Error("Failed to process event %s: %v", evt.Name(), err)
			return
		}
		if record.Id != 0 {
			if err := d.eventLogic.UpdateEventProcessed(record.Id, true); err != nil {
				logger.Error("Failed to mark event %s processed: %v", evt.Name(), err)
			}
		}
	})
	if submitErr != nil {
		d.wg.Done()
		logger.Error("Failed to submit event %s: %v", evt.Name(), submitErr)
	}
}

// handleEvent 按事件类型路由到处理器
func (d *Dispatcher) handleEvent(evt ledger.Event) error {
	switch e := evt.(type) {
	case ledger.CampaignCreated:
		return d.campaignProcessor.Refresh(e.ID)
	case ledger.CampaignUpdated:
		return d.campaignProcessor.Refresh(e.ID)
	case ledger.WithdrawSuccessful:
		return d.campaignProcessor.HandleWithdraw(e)
	case ledger.CampaignFunded:
		return d.fundingProcessor.HandleFunded(e)
	case ledger.RefundIssued:
		return d.fundingProcessor.HandleRefund(e)
	case ledger.RewardClaimed:
		return d.fundingProcessor.HandleReward(e)
	case ledger.Staked:
		return d.stakingProcessor.HandleStaked(e)
	case ledger.StakingRewardPaid:
		return d.stakingProcessor.HandleRewardPaid(e)
	case ledger.RewardReinvested:
		return d.stakingProcessor.HandleReinvested(e)
	case ledger.Unstaked:
		return d.stakingProcessor.HandleUnstaked(e)
	case ledger.TokenAuthorisationChanged:
		logger.Info("Token %s authorisation set to %v", e.Token.Hex(), e.Authorised)
		return nil
	case ledger.TokenLocked:
		logger.Info("Holder %s locked tokens", e.Holder.Hex())
		return nil
	case ledger.TokenUnlocked:
		logger.Info("Holder %s unlocked tokens", e.Holder.Hex())
		return nil
	default:
		logger.Warn("Unknown event type: %s", evt.Name())
		return nil
	}
}

// Wait 等待已提交的事件处理完成
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close 排空并释放协程池
func (d *Dispatcher) Close() {
	d.wg.Wait()
	d.pool.Release()
}
