package constant

type AssetStatus string

const (
	AssetStatusRequested  AssetStatus = "REQUESTED"
	AssetStatusUploading  AssetStatus = "UPLOADING"
	AssetStatusProcessing AssetStatus = "PROCESSING"
	AssetStatusReady      AssetStatus = "READY"
	AssetStatusFailed     AssetStatus = "FAILED"
)

type EntryType string

const (
	EntryTypeMovie   EntryType = "movie"
	EntryTypeEpisode EntryType = "episode"
)

type OrderStatus string

const (
	OrderStatusCreated OrderStatus = "created"
	OrderStatusPaid    OrderStatus = "paid"
)

type Plan string

const (
	PlanMonthly   Plan = "monthly"
	PlanQuarterly Plan = "quarterly"
	PlanYearly    Plan = "yearly"
	// PlanPromo windows come from promo-code redemptions, not orders.
	PlanPromo Plan = "promo"
)

// Months is the subscription window granted by the plan.
func (p Plan) Months() int {
	switch p {
	case PlanMonthly:
		return 1
	case PlanQuarterly:
		return 3
	case PlanYearly:
		return 12
	}
	return 0
}

type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentStaging    Environment = "staging"
	EnvironmentDevelop    Environment = "develop"
)

func (e Environment) String() string {
	return string(e)
}
