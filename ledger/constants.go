package ledger

// Release schedule constants. Thresholds are measured in blocks elapsed since
// the vault's last heartbeat; both tiers run against the same checkpoint,
// the tier 2 clock is not restarted when tier 1 fires
const (
	// Tier1Threshold inactivity threshold for the first tranche, in blocks
	Tier1Threshold = Height(26280)
	// Tier2Threshold inactivity threshold for the second and final tranche, in blocks
	Tier2Threshold = Height(52560)

	// TierSplitNumerator / TierSplitDenominator make the tier 1 tranche
	// exactly 10% of the total deposited figure, 1000 basis points of 10000
	TierSplitNumerator   = 1000
	TierSplitDenominator = 10000
)
