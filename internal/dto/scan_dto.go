package dto

// ─── Scan ────────────────────────────────────────────────────────────────────

type ScanRequest struct {
	QRPayload string `json:"qr_payload" validate:"required"`
	// LoyaltyProgramID selects the program for identity (user_id) scans; the
	// scanning device knows which program it serves. Ignored for redemptions.
	LoyaltyProgramID string `json:"loyalty_program_id" validate:"omitempty,uuid"`
}

// PunchCardSnapshot is the post-operation view of the card returned to the
// scanning device.
type PunchCardSnapshot struct {
	ID             string `json:"id"`
	ShopName       string `json:"shopName"`
	ShopAddress    string `json:"shopAddress"`
	CurrentPunches int    `json:"currentPunches"`
	TotalPunches   int    `json:"totalPunches"`
	Status         string `json:"status"`
}

// PunchOperationResult is the outcome of an applied punch or a redemption.
type PunchOperationResult struct {
	RewardAchieved  bool               `json:"rewardAchieved"`
	NewPunchCard    *PunchCardSnapshot `json:"newPunchCard,omitempty"`
	RequiredPunches int                `json:"required_punches"`
	CurrentPunches  int                `json:"current_punches"`
}
