package ledger

import (
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// DefaultRewardRate 默认奖励汇率：每1个原生币出资奖励100个奖励代币
var DefaultRewardRate = big.NewInt(100)

// Campaign 众筹活动
type Campaign struct {
	ID              uint64
	Creator         common.Address
	Name            string
	Description     string
	Image           string
	TargetAmount    *big.Int
	AmountCollected *big.Int
	StartAt         time.Time
	EndAt           time.Time
	IsActive        bool
	ClaimedByOwner  bool
}

// Contribution 单个出资人在单个活动上的累计出资
type Contribution struct {
	Native        *big.Int
	Tokens        map[common.Address]*big.Int
	RewardClaimed bool
}

// Total 出资总额（原生币与代币按面值合计）
func (c *Contribution) Total() *big.Int {
	total := new(big.Int).Set(c.Native)
	for _, amount := range c.Tokens {
		total.Add(total, amount)
	}
	return total
}

func (c *Contribution) clone() Contribution {
	out := Contribution{
		Native:        new(big.Int).Set(c.Native),
		Tokens:        make(map[common.Address]*big.Int, len(c.Tokens)),
		RewardClaimed: c.RewardClaimed,
	}
	for addr, amount := range c.Tokens {
		out.Tokens[addr] = new(big.Int).Set(amount)
	}
	return out
}

// pool 活动托管中尚未退出的资金，按币种记账
// AmountCollected记录毛收入，退款只消减pool不回退毛收入
type pool struct {
	native *big.Int
	tokens map[common.Address]*big.Int
}

// Registry 众筹活动登记簿，独占Campaign与Contribution记录
// 所有公开操作整体串行，等价于链上逐笔执行
type Registry struct {
	mu sync.Mutex

	owner   common.Address
	custody common.Address
	bank    *Bank

	rewardToken *Token
	rewardRate  *big.Int

	campaigns     []*Campaign
	contributions map[uint64]map[common.Address]*Contribution
	pools         map[uint64]*pool

	authorised map[common.Address]bool
	tokens     map[common.Address]*Token

	clock Clock
	sink  EventSink
}

// RegistryOption 登记簿可选配置
type RegistryOption func(*Registry)

// WithRewardRate 覆盖奖励汇率
func WithRewardRate(rate *big.Int) RegistryOption {
	return func(r *Registry) { r.rewardRate = new(big.Int).Set(rate) }
}

// WithClock 注入时钟
func WithClock(clock Clock) RegistryOption {
	return func(r *Registry) { r.clock = clock }
}

// WithEventSink 注入事件接收器
func WithEventSink(sink EventSink) RegistryOption {
	return func(r *Registry) { r.sink = sink }
}

// NewRegistry 创建登记簿
// custody是登记簿在原生币账本上的托管地址，rewardToken余额也挂在custody名下
func NewRegistry(owner, custody common.Address, bank *Bank, rewardToken *Token, opts ...RegistryOption) *Registry {
	r := &Registry{
		owner:         owner,
		custody:       custody,
		bank:          bank,
		rewardToken:   rewardToken,
		rewardRate:    new(big.Int).Set(DefaultRewardRate),
		contributions: make(map[uint64]map[common.Address]*Contribution),
		pools:         make(map[uint64]*pool),
		authorised:    make(map[common.Address]bool),
		tokens:        make(map[common.Address]*Token),
		clock:         SystemClock{},
		sink:          NopSink{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Owner 登记簿管理者
func (r *Registry) Owner() common.Address { return r.owner }

// Custody 托管地址
func (r *Registry) Custody() common.Address { return r.custody }

// RewardRate 当前奖励汇率
func (r *Registry) RewardRate() *big.Int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return new(big.Int).Set(r.rewardRate)
}

// CreateCampaign 创建活动，返回顺序递增的活动ID
func (r *Registry) CreateCampaign(caller common.Address, name, description string, target *big.Int, startAt, endAt time.Time, image string) (uint64, error) {
	if err := validateCampaignFields(name, description, image, target, startAt, endAt); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uint64(len(r.campaigns))
	c := &Campaign{
		ID:              id,
		Creator:         caller,
		Name:            name,
		Description:     description,
		Image:           image,
		TargetAmount:    new(big.Int).Set(target),
		AmountCollected: new(big.Int),
		StartAt:         startAt,
		EndAt:           endAt,
		IsActive:        true,
	}
	r.campaigns = append(r.campaigns, c)
	r.contributions[id] = make(map[common.Address]*Contribution)
	r.pools[id] = &pool{native: new(big.Int), tokens: make(map[common.Address]*big.Int)}

	r.sink.Publish(CampaignCreated{
		ID:           id,
		Creator:      caller,
		TargetAmount: new(big.Int).Set(target),
		StartAt:      startAt,
		EndAt:        endAt,
	})
	return id, nil
}

// UpdateCampaign 创建者原地覆盖可变字段，校验与创建一致
func (r *Registry) UpdateCampaign(caller common.Address, id uint64, name, description string, target *big.Int, startAt, endAt time.Time, image string) error {
	if err := validateCampaignFields(name, description, image, target, startAt, endAt); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.campaign(id)
	if err != nil {
		return err
	}
	if c.Creator != caller {
		return ErrNotCreator
	}

	c.Name = name
	c.Description = description
	c.Image = image
	c.TargetAmount = new(big.Int).Set(target)
	c.StartAt = startAt
	c.EndAt = endAt

	r.sink.Publish(CampaignUpdated{
		ID:           id,
		Creator:      caller,
		TargetAmount: new(big.Int).Set(target),
		StartAt:      startAt,
		EndAt:        endAt,
	})
	return nil
}

// ToggleCampaignStatus 创建者开关活动
func (r *Registry) ToggleCampaignStatus(caller common.Address, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.campaign(id)
	if err != nil {
		return err
	}
	if c.Creator != caller {
		return ErrNotCreator
	}
	c.IsActive = !c.IsActive
	return nil
}

// FundCampaign 原生币出资
func (r *Registry) FundCampaign(caller common.Address, id uint64, amount *big.Int) error {
	return r.fundNative(caller, caller, id, amount)
}

// FundCampaignFor 由payer垫付、记在funder名下的出资，质押收益转投走这条路径
func (r *Registry) FundCampaignFor(payer, funder common.Address, id uint64, amount *big.Int) error {
	return r.fundNative(payer, funder, id, amount)
}

func (r *Registry) fundNative(payer, funder common.Address, id uint64, amount *big.Int) error {
	now := r.clock.Now()
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.fundable(id, amount, now)
	if err != nil {
		return err
	}
	if err := r.bank.Transfer(payer, r.custody, amount); err != nil {
		return err
	}

	c.AmountCollected.Add(c.AmountCollected, amount)
	p := r.pools[id]
	p.native.Add(p.native, amount)

	contrib := r.contribution(id, funder)
	contrib.Native.Add(contrib.Native, amount)

	r.sink.Publish(CampaignFunded{ID: id, Funder: funder, Amount: new(big.Int).Set(amount)})
	return nil
}

// FundCampaignWithToken 授权币种出资，需要事先approve托管地址
func (r *Registry) FundCampaignWithToken(caller common.Address, id uint64, tokenAddr common.Address, amount *big.Int) error {
	now := r.clock.Now()
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.fundable(id, amount, now)
	if err != nil {
		return err
	}
	if !r.authorised[tokenAddr] {
		return ErrTokenNotAuthorised
	}
	token := r.tokens[tokenAddr]
	if err := token.TransferFrom(r.custody, caller, r.custody, amount); err != nil {
		return err
	}

	c.AmountCollected.Add(c.AmountCollected, amount)
	p := r.pools[id]
	bal, ok := p.tokens[tokenAddr]
	if !ok {
		bal = new(big.Int)
		p.tokens[tokenAddr] = bal
	}
	bal.Add(bal, amount)

	contrib := r.contribution(id, caller)
	tb, ok := contrib.Tokens[tokenAddr]
	if !ok {
		tb = new(big.Int)
		contrib.Tokens[tokenAddr] = tb
	}
	tb.Add(tb, amount)

	r.sink.Publish(CampaignFunded{ID: id, Funder: caller, Amount: new(big.Int).Set(amount), Token: tokenAddr})
	return nil
}

// Withdraw 活动结束后创建者一次性提取托管资金
func (r *Registry) Withdraw(caller common.Address, id uint64) error {
	now := r.clock.Now()
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.campaign(id)
	if err != nil {
		return err
	}
	if c.Creator != caller {
		return ErrNotCreator
	}
	if now.Before(c.EndAt) {
		return ErrCampaignNotEnded
	}
	if c.ClaimedByOwner {
		return ErrAlreadyWithdrawn
	}

	p := r.pools[id]
	paid := new(big.Int).Set(p.native)
	if p.native.Sign() > 0 {
		if err := r.bank.Transfer(r.custody, caller, p.native); err != nil {
			return err
		}
		p.native = new(big.Int)
	}
	for addr, bal := range p.tokens {
		if bal.Sign() <= 0 {
			continue
		}
		if err := r.tokens[addr].Transfer(r.custody, caller, bal); err != nil {
			return err
		}
		paid.Add(paid, bal)
		p.tokens[addr] = new(big.Int)
	}

	c.ClaimedByOwner = true
	r.sink.Publish(WithdrawSuccessful{ID: id, Creator: caller, Amount: paid})
	return nil
}

// Refund 活动结束且未达标时出资人按原币种取回出资
func (r *Registry) Refund(caller common.Address, id uint64) error {
	now := r.clock.Now()
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.campaign(id)
	if err != nil {
		return err
	}
	if now.Before(c.EndAt) {
		return ErrCampaignNotEnded
	}
	contrib, ok := r.contributions[id][caller]
	if !ok || contrib.Total().Sign() == 0 {
		return ErrNotContributor
	}
	if c.ClaimedByOwner || c.AmountCollected.Cmp(c.TargetAmount) >= 0 {
		return ErrCampaignSuccessful
	}

	p := r.pools[id]
	if contrib.Native.Sign() > 0 {
		if err := r.bank.Transfer(r.custody, caller, contrib.Native); err != nil {
			return err
		}
		p.native.Sub(p.native, contrib.Native)
		r.sink.Publish(RefundIssued{ID: id, Contributor: caller, Amount: new(big.Int).Set(contrib.Native)})
		contrib.Native = new(big.Int)
	}
	for addr, amount := range contrib.Tokens {
		if amount.Sign() <= 0 {
			continue
		}
		if err := r.tokens[addr].Transfer(r.custody, caller, amount); err != nil {
			return err
		}
		p.tokens[addr].Sub(p.tokens[addr], amount)
		r.sink.Publish(RefundIssued{ID: id, Contributor: caller, Amount: new(big.Int).Set(amount), Token: addr})
		contrib.Tokens[addr] = new(big.Int)
	}
	return nil
}

// ClaimReward 活动结束后按出资比例领取奖励代币，每人每活动一次
func (r *Registry) ClaimReward(caller common.Address, id uint64) error {
	now := r.clock.Now()
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.campaign(id)
	if err != nil {
		return err
	}
	if now.Before(c.EndAt) {
		return ErrCampaignNotEnded
	}
	contrib, ok := r.contributions[id][caller]
	if !ok || contrib.Total().Sign() == 0 {
		return ErrNotContributor
	}
	if contrib.RewardClaimed {
		return ErrRewardClaimed
	}

	// 奖励 = 出资总额 × 汇率，从托管的奖励代币余额发放
	reward := new(big.Int).Mul(contrib.Total(), r.rewardRate)
	if err := r.rewardToken.Transfer(r.custody, caller, reward); err != nil {
		return err
	}
	contrib.RewardClaimed = true

	r.sink.Publish(RewardClaimed{ID: id, Contributor: caller, Reward: reward})
	return nil
}

// SetAuthorisedToken 管理员增删可用于出资的代币
// 取消授权只是停止新增出资，已存在的出资仍可按原币种退款
func (r *Registry) SetAuthorisedToken(caller, tokenAddr common.Address, token *Token, authorised bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if caller != r.owner {
		return ErrNotOwner
	}
	if authorised {
		if token == nil {
			return ErrTokenNotAuthorised
		}
		r.tokens[tokenAddr] = token
	}
	r.authorised[tokenAddr] = authorised

	r.sink.Publish(TokenAuthorisationChanged{Token: tokenAddr, Authorised: authorised})
	return nil
}

// IsAuthorisedToken 查询币种授权状态
func (r *Registry) IsAuthorisedToken(tokenAddr common.Address) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.authorised[tokenAddr]
}

// CampaignsCount 活动总数
func (r *Registry) CampaignsCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return uint64(len(r.campaigns))
}

// GetCampaign 查询单个活动
func (r *Registry) GetCampaign(id uint64) (Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, err := r.campaign(id)
	if err != nil {
		return Campaign{}, err
	}
	return cloneCampaign(c), nil
}

// Campaigns 按ID顺序返回全部活动
func (r *Registry) Campaigns() []Campaign {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Campaign, 0, len(r.campaigns))
	for _, c := range r.campaigns {
		out = append(out, cloneCampaign(c))
	}
	return out
}

// Contribution 查询出资记录，无记录时返回零值记录
func (r *Registry) Contribution(id uint64, addr common.Address) (Contribution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.campaign(id); err != nil {
		return Contribution{}, err
	}
	contrib, ok := r.contributions[id][addr]
	if !ok {
		return Contribution{Native: new(big.Int), Tokens: map[common.Address]*big.Int{}}, nil
	}
	return contrib.clone(), nil
}

func (r *Registry) campaign(id uint64) (*Campaign, error) {
	if id >= uint64(len(r.campaigns)) {
		return nil, ErrInvalidCampaign
	}
	return r.campaigns[id], nil
}

// fundable 出资前置校验
// 活动一旦募满（amountCollected >= targetAmount）即停止接受出资
func (r *Registry) fundable(id uint64, amount *big.Int, now time.Time) (*Campaign, error) {
	c, err := r.campaign(id)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, ErrCampaignInactive
	}
	if !now.Before(c.EndAt) {
		return nil, ErrCampaignExpired
	}
	if c.AmountCollected.Cmp(c.TargetAmount) >= 0 {
		return nil, ErrCampaignFunded
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrZeroAmount
	}
	return c, nil
}

func (r *Registry) contribution(id uint64, addr common.Address) *Contribution {
	contrib, ok := r.contributions[id][addr]
	if !ok {
		contrib = &Contribution{Native: new(big.Int), Tokens: make(map[common.Address]*big.Int)}
		r.contributions[id][addr] = contrib
	}
	return contrib
}

func cloneCampaign(c *Campaign) Campaign {
	out := *c
	out.TargetAmount = new(big.Int).Set(c.TargetAmount)
	out.AmountCollected = new(big.Int).Set(c.AmountCollected)
	return out
}

func validateCampaignFields(name, description, image string, target *big.Int, startAt, endAt time.Time) error {
	if name == "" {
		return ErrEmptyName
	}
	if description == "" {
		return ErrEmptyDescription
	}
	if image == "" {
		return ErrEmptyImage
	}
	if target == nil || target.Sign() <= 0 {
		return ErrZeroTarget
	}
	if !endAt.After(startAt) {
		return ErrBadDates
	}
	return nil
}
