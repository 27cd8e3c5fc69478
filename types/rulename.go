package types

// RuleName is a named rule definition with its SQL fragments.
type RuleName struct {
	ID          int    `json:"id" db:"id"`
	Name        string `json:"name" db:"name" validate:"required,max=125" label:"Name"`
	Description string `json:"description" db:"description" validate:"required,max=125" label:"Description"`
	JSON        string `json:"json" db:"json" validate:"required,max=125" label:"JSON"`
	Template    string `json:"template" db:"template" validate:"required,max=512" label:"Template"`
	SQLStr      string `json:"sqlStr" db:"sql_str" validate:"required,max=125" label:"SQL query"`
	SQLPart     string `json:"sqlPart" db:"sql_part" validate:"required,max=125" label:"SQL part"`
}
