package catalog

type playersEnvelope struct {
	Data       []playerItem `json:"data"`
	Pagination pagination   `json:"pagination"`
}

type pagination struct {
	Count       int  `json:"count"`
	PerPage     int  `json:"per_page"`
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	HasMore     bool `json:"has_more"`
}

type playerItem struct {
	ID          int64    `json:"id"`
	DisplayName string   `json:"display_name"`
	Name        string   `json:"name"`
	Position    string   `json:"position"`
	Price       float64  `json:"price"`
	PriceChange *float64 `json:"price_change"`
	Injured     bool     `json:"injured"`
	TotalPoints float64  `json:"total_points"`
	RoundPoints *float64 `json:"round_points"` // null until the round's first match kicks off
	Club        clubItem `json:"club"`
}

type clubItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortCode string `json:"short_code"`
}
