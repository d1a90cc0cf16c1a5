package dto

type PunchCardResponse struct {
	ID               string `json:"id"`
	LoyaltyProgramID string `json:"loyalty_program_id"`
	ProgramName      string `json:"program_name"`
	ShopName         string `json:"shopName"`
	ShopAddress      string `json:"shopAddress"`
	CurrentPunches   int    `json:"currentPunches"`
	TotalPunches     int    `json:"totalPunches"`
	Status           string `json:"status"`
}
