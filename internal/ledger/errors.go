package ledger

// ErrorKind 错误分类
type ErrorKind int

const (
	KindInvalidInput ErrorKind = iota
	KindNotFound
	KindUnauthorized
	KindStateConflict
	KindTokenNotAuthorised
	KindNoRewards
)

// String 返回分类名称
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindStateConflict:
		return "state_conflict"
	case KindTokenNotAuthorised:
		return "token_not_authorised"
	case KindNoRewards:
		return "no_rewards"
	default:
		return "unknown"
	}
}

// Error 账本操作拒绝原因，等价于链上revert reason
type Error struct {
	Kind   ErrorKind
	Reason string
}

func (e *Error) Error() string {
	return e.Reason
}

// Is 支持 errors.Is 按分类匹配
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Reason != "" && t.Reason != e.Reason {
		return false
	}
	return t.Kind == e.Kind
}

func reject(kind ErrorKind, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

// 校验失败原因，与原合约revert文案保持一致
var (
	ErrEmptyName          = reject(KindInvalidInput, "Name cannot be empty")
	ErrEmptyDescription   = reject(KindInvalidInput, "Description cannot be empty")
	ErrEmptyImage         = reject(KindInvalidInput, "Image URL cannot be empty")
	ErrZeroTarget         = reject(KindInvalidInput, "Target amount should be greater than zero")
	ErrBadDates           = reject(KindInvalidInput, "End date should be after start date")
	ErrZeroAmount         = reject(KindInvalidInput, "Amount must be greater than zero")
	ErrInvalidCampaign    = reject(KindNotFound, "Invalid campaign id")
	ErrNotCreator         = reject(KindUnauthorized, "Only the campaign creator can call this function.")
	ErrNotOwner           = reject(KindUnauthorized, "Caller is not the owner")
	ErrCampaignInactive   = reject(KindStateConflict, "Campaign is not active")
	ErrCampaignExpired    = reject(KindStateConflict, "Campaign is expired")
	ErrCampaignFunded     = reject(KindStateConflict, "Campaign already funded")
	ErrCampaignNotEnded   = reject(KindStateConflict, "Campaign is not ended")
	ErrAlreadyWithdrawn   = reject(KindStateConflict, "Amount already withdrawn")
	ErrNotContributor     = reject(KindStateConflict, "Not a contributor")
	ErrCampaignSuccessful = reject(KindStateConflict, "Campaign goal was reached")
	ErrRewardClaimed      = reject(KindStateConflict, "Reward already claimed")
	ErrTokenNotAuthorised = reject(KindTokenNotAuthorised, "Token is not authorised")

	ErrZeroStake        = reject(KindInvalidInput, "Amount must be more than 0")
	ErrInvalidDuration  = reject(KindInvalidInput, "Invalid staking duration")
	ErrNoRewards        = reject(KindNoRewards, "No rewards available")
	ErrNoStake          = reject(KindStateConflict, "No active stake")
	ErrInsufficientBank = reject(KindStateConflict, "Insufficient balance")
	ErrInsufficientFund = reject(KindStateConflict, "Insufficient token balance")
	ErrInsufficientAllw = reject(KindStateConflict, "Insufficient allowance")
	ErrNotMinter        = reject(KindUnauthorized, "Caller is not a minter")
	ErrMintTooSoon      = reject(KindStateConflict, "Monthly mint not available yet")
	ErrMaxSupply        = reject(KindStateConflict, "Max supply exceeded")
	ErrIncorrectEth     = reject(KindInvalidInput, "Incorrect ETH amount")

	ErrAlreadyLocked     = reject(KindStateConflict, "GLT already locked")
	ErrInsufficientLock  = reject(KindStateConflict, "Insufficient GLT to lock")
	ErrLockNotOver       = reject(KindStateConflict, "Lock period not over")
	ErrNothingLocked     = reject(KindStateConflict, "No GLT locked")
	ErrInvalidLockPeriod = reject(KindInvalidInput, "Invalid lock period")
	ErrInvalidBonusRate  = reject(KindInvalidInput, "Invalid bonus rate")
)
