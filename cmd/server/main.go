package main

import (
	"math/big"

	"github.com/blues/egf/internal/config"
	"github.com/blues/egf/internal/database"
	"github.com/blues/egf/internal/event"
	"github.com/blues/egf/internal/ledger"
	"github.com/blues/egf/internal/logger"
	"github.com/blues/egf/internal/router"
	"github.com/blues/egf/internal/scheduler"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	if cfg.Log.Output == "file" {
		fileLogger, err := logger.NewWithFileRotation(logger.ParseLogLevel(cfg.Log.Level), cfg.Log.File)
		if err != nil {
			logger.Fatal("Failed to initialize file logger: %v", err)
		}
		logger.SetDefaultLogger(fileLogger)
	} else {
		logger.SetLevel(logger.ParseLogLevel(cfg.Log.Level))
	}
	defer logger.Sync()

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// 初始化事件分发器
	dispatcher, err := event.NewDispatcher(db, 8)
	if err != nil {
		logger.Fatal("Failed to initialize event dispatcher: %v", err)
	}
	defer dispatcher.Close()

	// 初始化账本引擎
	owner := common.HexToAddress(cfg.Ledger.Owner)
	custody := common.HexToAddress(cfg.Ledger.Custody)
	saleCustody := common.HexToAddress(cfg.Sale.Custody)
	stakeCustody := common.HexToAddress(cfg.Staking.Custody)

	initialSupply, ok := new(big.Int).SetString(cfg.Token.InitialSupply, 10)
	if !ok {
		logger.Fatal("Invalid token initial supply: %s", cfg.Token.InitialSupply)
	}

	bank := ledger.NewBank()
	leaf := ledger.NewToken(cfg.Token.Name, cfg.Token.Symbol, owner, initialSupply, nil)
	leaf.SetEventSink(dispatcher)
	if cfg.Token.MonthlyMint != "" {
		amount, ok := new(big.Int).SetString(cfg.Token.MonthlyMint, 10)
		if !ok {
			logger.Fatal("Invalid monthly mint amount: %s", cfg.Token.MonthlyMint)
		}
		if err := leaf.SetMonthlyMint(owner, amount); err != nil {
			logger.Fatal("Failed to configure monthly mint: %v", err)
		}
	}
	if cfg.Token.MaxSupply != "" {
		amount, ok := new(big.Int).SetString(cfg.Token.MaxSupply, 10)
		if !ok {
			logger.Fatal("Invalid max supply: %s", cfg.Token.MaxSupply)
		}
		if err := leaf.SetMaxSupply(owner, amount); err != nil {
			logger.Fatal("Failed to configure max supply: %v", err)
		}
	}

	registry := ledger.NewRegistry(owner, custody, bank, leaf,
		ledger.WithRewardRate(big.NewInt(cfg.Ledger.RewardRate)),
		ledger.WithEventSink(dispatcher),
	)
	dispatcher.BindRegistry(registry)

	// 模拟支付代币，申购托管持有增发角色
	mdai := ledger.NewToken("MockDai", "mDAI", owner, initialSupply, nil)
	if err := mdai.GrantMinter(owner, saleCustody); err != nil {
		logger.Fatal("Failed to grant minter to sale custody: %v", err)
	}
	sale := ledger.NewTokenSale(mdai, bank, ledger.FixedRateOracle{Rate: big.NewInt(cfg.Sale.Rate)}, saleCustody)

	staking := ledger.NewStakingEngine(stakeCustody, mdai, bank, registry,
		ledger.WithAccrualCap(cfg.Staking.CapAccrual),
		ledger.WithStakingEventSink(dispatcher),
	)

	// 托管预备金：奖励代币给活动托管，质押收益储备给质押托管
	reserve := new(big.Int).Div(initialSupply, big.NewInt(2))
	if err := leaf.Transfer(owner, custody, reserve); err != nil {
		logger.Fatal("Failed to seed reward reserve: %v", err)
	}
	if err := mdai.Transfer(owner, stakeCustody, reserve); err != nil {
		logger.Fatal("Failed to seed staking reserve: %v", err)
	}

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	engines := &router.Engines{
		Registry: registry,
		Staking:  staking,
		Sale:     sale,
		Bank:     bank,
		TokensBySymbol: map[string]*ledger.Token{
			leaf.Symbol(): leaf,
			mdai.Symbol(): mdai,
		},
		TokensByAddress: map[common.Address]*ledger.Token{
			common.HexToAddress(cfg.Sale.TokenAddress): mdai,
		},
	}
	r := router.Setup(db, engines, cfg)

	// 启动定时任务
	manager := scheduler.Start(db, registry, cfg)
	defer manager.Stop()

	// 启动服务器
	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
