package types

const (
	// ModuleName is the name of the liquid staking module
	ModuleName = "liquidstaking"

	// StoreKey is the string store representation
	StoreKey = ModuleName

	// QuerierRoute is the querier route for the liquid staking module
	QuerierRoute = ModuleName

	// RouterKey is the msg router key for the liquid staking module
	RouterKey = ModuleName
)

var (
	ConfigKey     = []byte{0x11} // key for the module config
	NextPoolIDKey = []byte{0x12} // key for the pool id sequence

	PoolsPrefix              = []byte{0x21} // prefix for each key to a pool
	PoolsByValidatorContract = []byte{0x22} // index of pools by validator contract
	PoolsByRewardContract    = []byte{0x23} // index of pools by reward contract

	ValidatorMetasPrefix     = []byte{0x31} // key for a (validator, pool) track
	ValidatorPoolIndexPrefix = []byte{0x32} // index of the pool a validator is associated to

	UndelegationBatchesPrefix = []byte{0x41} // key for a (pool, batch) undelegation record

	AirdropRegistryPrefix = []byte{0x51} // prefix for the airdrop registry, keyed by lower-cased denom
)
