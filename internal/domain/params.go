package domain

const (
	BpsDenominator = 10000

	MaxPlatformFeeRateBps = 1000 // 10%
	MaxInsuranceRateBps   = 2000 // 20%
)

// Params is the governance configuration record. It is threaded
// explicitly through the engine services and mutated only behind the
// admin capability.
type Params struct {
	PlatformFeeRateBps int32  `json:"platform_fee_rate_bps"`
	InsuranceRateBps   int32  `json:"insurance_rate_bps"`
	TreasuryAccount    string `json:"treasury_account"`
	Paused             bool   `json:"paused"`
}
