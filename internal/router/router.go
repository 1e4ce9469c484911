package router

import (
	"github.com/blues/egf/internal/config"
	"github.com/blues/egf/internal/handler"
	"github.com/blues/egf/internal/ledger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Engines 路由需要的账本引擎集合
type Engines struct {
	Registry *ledger.Registry
	Staking  *ledger.StakingEngine
	Sale     *ledger.TokenSale
	Bank     *ledger.Bank
	// 按符号索引的代币实例，供代币接口路由
	TokensBySymbol map[string]*ledger.Token
	// 按地址索引的代币实例，供出资币种授权使用
	TokensByAddress map[common.Address]*ledger.Token
}

func Setup(db *gorm.DB, engines *Engines, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "greenfund-service",
		})
	})

	// API版本组
	v1 := r.Group("/api/v1")
	{
		// 活动相关路由
		campaignHandler := handler.NewCampaignHandler(db, engines.Registry, engines.TokensByAddress)
		campaigns := v1.Group("/campaigns")
		{
			campaigns.POST("", campaignHandler.CreateCampaign)
			campaigns.GET("", campaignHandler.GetCampaigns)
			campaigns.GET("/stats", campaignHandler.GetAllCampaignStats)
			campaigns.GET("/:id", campaignHandler.GetCampaign)
			campaigns.PUT("/:id", campaignHandler.UpdateCampaign)
			campaigns.POST("/:id/toggle", campaignHandler.ToggleCampaignStatus)
			campaigns.POST("/:id/fund", campaignHandler.FundCampaign)
			campaigns.POST("/:id/fund-token", campaignHandler.FundCampaignWithToken)
			campaigns.POST("/:id/withdraw", campaignHandler.Withdraw)
			campaigns.POST("/:id/refund", campaignHandler.Refund)
			campaigns.POST("/:id/claim-reward", campaignHandler.ClaimReward)
			campaigns.GET("/:id/contributions", campaignHandler.GetContributions)
			campaigns.GET("/:id/refunds", campaignHandler.GetRefunds)
			campaigns.GET("/:id/stats", campaignHandler.GetCampaignStats)
		}
		v1.POST("/tokens/authorise", campaignHandler.AuthoriseToken)

		// 代币相关路由
		tokenHandler := handler.NewTokenHandler(engines.TokensBySymbol)
		tokens := v1.Group("/tokens/:symbol")
		{
			tokens.GET("", tokenHandler.GetInfo)
			tokens.GET("/balance/:address", tokenHandler.GetBalance)
			tokens.POST("/transfer", tokenHandler.Transfer)
			tokens.POST("/approve", tokenHandler.Approve)
			tokens.POST("/mint", tokenHandler.Mint)
			tokens.POST("/burn", tokenHandler.Burn)
			tokens.POST("/minters", tokenHandler.GrantMinter)
			tokens.DELETE("/minters", tokenHandler.RevokeMinter)
			tokens.POST("/mint-monthly", tokenHandler.MintMonthly)
			tokens.POST("/lock", tokenHandler.Lock)
			tokens.POST("/unlock", tokenHandler.Unlock)
			tokens.GET("/locked/:address", tokenHandler.GetLocked)
		}

		// 申购相关路由
		saleHandler := handler.NewSaleHandler(engines.Sale)
		sale := v1.Group("/sale")
		{
			sale.POST("/buy", saleHandler.Buy)
			sale.POST("/sell", saleHandler.Sell)
		}

		// 质押相关路由
		stakingHandler := handler.NewStakingHandler(db, engines.Staking, cfg.Staking.BonusRate)
		staking := v1.Group("/staking")
		{
			staking.POST("/stake", stakingHandler.Stake)
			staking.POST("/claim", stakingHandler.ClaimReward)
			staking.POST("/unstake", stakingHandler.Unstake)
			staking.POST("/reinvest", stakingHandler.Reinvest)
			staking.GET("/stats", stakingHandler.GetStats)
			staking.GET("/:address", stakingHandler.GetPosition)
			staking.GET("/:address/reward", stakingHandler.GetReward)
			staking.GET("/:address/history", stakingHandler.GetHistory)
		}

		// 原生币账本路由
		bankHandler := handler.NewBankHandler(engines.Bank)
		bank := v1.Group("/bank")
		{
			bank.GET("/balance/:address", bankHandler.GetBalance)
			bank.POST("/deposit", bankHandler.Deposit)
			bank.POST("/withdraw", bankHandler.Withdraw)
			bank.POST("/transfer", bankHandler.Transfer)
		}

		// 事件查询路由
		eventHandler := handler.NewEventHandler(db)
		events := v1.Group("/events")
		{
			events.GET("", eventHandler.GetEvents)
			events.GET("/stats", eventHandler.GetEventStats)
		}
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Caller-Address")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
