package scheduler

import (
	"math/big"
	"time"

	"github.com/blues/egf/internal/config"
	"github.com/blues/egf/internal/ledger"
	"github.com/blues/egf/internal/logger"
	"github.com/blues/egf/internal/model"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// CampaignStatusJob 活动状态扫描任务
// 时间推进不产生引擎事件，到点的状态变化由本任务写进读模型
type CampaignStatusJob struct {
	db       *gorm.DB
	registry *ledger.Registry
	config   *config.Config
}

// NewCampaignStatusJob 创建活动状态扫描任务
func NewCampaignStatusJob(db *gorm.DB, registry *ledger.Registry, cfg *config.Config) *CampaignStatusJob {
	return &CampaignStatusJob{
		db:       db,
		registry: registry,
		config:   cfg,
	}
}

// GetName 获取任务名称
func (j *CampaignStatusJob) GetName() string {
	return "campaign_status_updater"
}

// GetSchedule 获取调度配置
func (j *CampaignStatusJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Scheduler.Interval) * time.Second)
}

// Execute 执行任务
func (j *CampaignStatusJob) Execute() {
	logger.Debug("Starting campaign status update task")

	now := time.Now()

	var campaigns []model.CampaignModel
	err := j.db.Where("status IN ?", []model.CampaignStatus{
		model.CampaignStatusUpcoming,
		model.CampaignStatusActive,
	}).Find(&campaigns).Error
	if err != nil {
		logger.Error("Failed to fetch campaigns: %v", err)
		return
	}

	updatedCount := 0

	for _, campaign := range campaigns {
		newStatus, shouldUpdate := j.nextStatus(&campaign, now)
		if !shouldUpdate {
			continue
		}

		if err := j.db.Model(&campaign).Update("status", newStatus).Error; err != nil {
			logger.Error("Failed to update campaign %d status: %v", campaign.CampaignId, err)
			continue
		}

		logger.Info("Updated campaign %d status from %s to %s",
			campaign.CampaignId, campaign.Status, newStatus)
		updatedCount++
	}

	if updatedCount > 0 {
		logger.Info("Campaign status update completed. Updated %d campaigns", updatedCount)
	}
}

// nextStatus 推导活动行的下一个状态
func (j *CampaignStatusJob) nextStatus(campaign *model.CampaignModel, now time.Time) (model.CampaignStatus, bool) {
	target, okT := new(big.Int).SetString(campaign.TargetAmount, 10)
	collected, okC := new(big.Int).SetString(campaign.AmountCollected, 10)
	if !okT || !okC {
		logger.Warn("Campaign %d has malformed amounts", campaign.CampaignId)
		return "", false
	}

	switch campaign.Status {
	case model.CampaignStatusUpcoming:
		if now.After(campaign.StartTime) {
			return model.CampaignStatusActive, true
		}

	case model.CampaignStatusActive:
		if now.After(campaign.EndTime) {
			if collected.Cmp(target) >= 0 {
				return model.CampaignStatusSuccess, true
			}
			return model.CampaignStatusFailed, true
		}
		if collected.Cmp(target) >= 0 {
			return model.CampaignStatusSuccess, true
		}
	}

	return "", false
}
