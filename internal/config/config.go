package config

import (
	"github.com/blues/egf/internal/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Token     TokenConfig     `mapstructure:"token"`
	Sale      SaleConfig      `mapstructure:"sale"`
	Staking   StakingConfig   `mapstructure:"staking"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// LedgerConfig 账本引擎配置
type LedgerConfig struct {
	Owner      string `mapstructure:"owner"`       // 平台管理地址
	Custody    string `mapstructure:"custody"`     // 活动登记簿托管地址
	RewardRate int64  `mapstructure:"reward_rate"` // 出资奖励比例（代币/原生币）
}

// TokenConfig 奖励代币配置
type TokenConfig struct {
	Name          string `mapstructure:"name"`
	Symbol        string `mapstructure:"symbol"`
	InitialSupply string `mapstructure:"initial_supply"` // wei字符串
	MonthlyMint   string `mapstructure:"monthly_mint"`   // wei字符串，空表示不启用
	MaxSupply     string `mapstructure:"max_supply"`     // wei字符串，空表示不设上限
}

// SaleConfig 代币申购配置
type SaleConfig struct {
	Custody      string `mapstructure:"custody"`       // 申购托管地址
	Rate         int64  `mapstructure:"rate"`          // 1原生币可兑换的代币数
	TokenAddress string `mapstructure:"token_address"` // 支付代币的登记地址
}

// StakingConfig 质押配置
type StakingConfig struct {
	Custody    string `mapstructure:"custody"`     // 质押托管地址
	CapAccrual bool   `mapstructure:"cap_accrual"` // 收益是否封顶在锁定期
	BonusRate  int64  `mapstructure:"bonus_rate"`  // 收益转投加成比例
}

type SchedulerConfig struct {
	Interval int `mapstructure:"interval"` // 秒
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, stderr, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

// GetLevel 实现 logger.LogConfig 接口
func (l LogConfig) GetLevel() string {
	return l.Level
}

// GetOutput 实现 logger.LogConfig 接口
func (l LogConfig) GetOutput() string {
	return l.Output
}

// GetFile 实现 logger.LogConfig 接口
func (l LogConfig) GetFile() string {
	return l.File
}

func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/egf")

	// 设置默认值
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.dbname", "greenfund")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("ledger.owner", "0x00000000000000000000000000000000000000a0")
	viper.SetDefault("ledger.custody", "0x00000000000000000000000000000000000000c0")
	viper.SetDefault("ledger.reward_rate", 100)
	viper.SetDefault("token.name", "GreenLeafToken")
	viper.SetDefault("token.symbol", "LEAF")
	viper.SetDefault("token.initial_supply", "1000000000000000000000000")
	viper.SetDefault("sale.custody", "0x00000000000000000000000000000000000000c2")
	viper.SetDefault("sale.rate", 1000)
	viper.SetDefault("sale.token_address", "0x00000000000000000000000000000000000000d1")
	viper.SetDefault("staking.custody", "0x00000000000000000000000000000000000000c1")
	viper.SetDefault("staking.cap_accrual", true)
	viper.SetDefault("staking.bonus_rate", 10)
	viper.SetDefault("scheduler.interval", 60)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file", "logs/app.log")

	// 自动读取环境变量
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return &config
}
