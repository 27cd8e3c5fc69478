package types

// Rating holds the agency ratings of an instrument.
type Rating struct {
	ID           int    `json:"id" db:"id"`
	MoodysRating string `json:"moodysRating" db:"moodys_rating" validate:"required,max=125" label:"Moody's rating"`
	SandPRating  string `json:"sandPRating" db:"sand_p_rating" validate:"required,max=125" label:"S&P rating"`
	FitchRating  string `json:"fitchRating" db:"fitch_rating" validate:"required,max=125" label:"Fitch rating"`
	OrderNumber  *int   `json:"orderNumber" db:"order_number" validate:"omitempty,gt=0" label:"Order number"`
}
