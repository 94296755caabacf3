package domain

import "time"

// Operating cost kinds stored on operating_costs.kind.
const (
	CostKindTeam    = "team"
	CostKindService = "service"
)

// OperatingCost is a recurring team member or service cost.
type OperatingCost struct {
	Name        string  `json:"name" db:"name"`
	Kind        string  `json:"kind" db:"kind"`
	Role        string  `json:"role" db:"role"`
	DailyCost   float64 `json:"daily_cost" db:"daily_cost"`
	MonthlyCost float64 `json:"monthly_cost" db:"monthly_cost"`
}

// TeamBurn is the team and services cost view.
type TeamBurn struct {
	ViewStatus
	Members             []OperatingCost `json:"members"`
	Services            []OperatingCost `json:"services"`
	TeamDaily           float64         `json:"team_daily"`
	TeamMonthly         float64         `json:"team_monthly"`
	ServicesDaily       float64         `json:"services_daily"`
	ServicesMonthly     float64         `json:"services_monthly"`
	TotalDaily          float64         `json:"total_daily"`
	TotalMonthly        float64         `json:"total_monthly"`
	TeamSharePercent    float64         `json:"team_share_percent"`
	ServiceSharePercent float64         `json:"service_share_percent"`
	AnnualBurn          float64         `json:"annual_burn"`
}

// CashPosition is the operator supplied cash input for the CFO view.
type CashPosition struct {
	CurrentCash    float64 `json:"current_cash"`
	MonthlyBurn    float64 `json:"monthly_burn"`
	TargetCash     float64 `json:"target_cash"`
	MonthlyNetGain float64 `json:"monthly_net_gain"`
}

// CFOOverview is the runway and cash target view.
type CFOOverview struct {
	ViewStatus
	CashPosition
	RunwayMonths    float64    `json:"runway_months"`
	RunwaySafe      bool       `json:"runway_safe"`
	MonthsToTarget  int        `json:"months_to_target"`
	TargetReachable bool       `json:"target_reachable"`
	TargetDate      *time.Time `json:"target_date,omitempty"`
	CriticalStock   int        `json:"critical_stock"`
}
