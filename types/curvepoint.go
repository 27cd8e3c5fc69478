package types

import "time"

// CurvePoint is a single (term, value) point on a rate curve.
type CurvePoint struct {
	ID           int        `json:"id" db:"id"`
	CurveID      *int       `json:"curveId" db:"curve_id" validate:"required,gt=0" label:"Curve identifier"`
	AsOfDate     *time.Time `json:"asOfDate" db:"as_of_date" label:"As of date"`
	Term         *float64   `json:"term" db:"term" validate:"omitempty,gt=0" label:"Curve term"`
	Value        *float64   `json:"value" db:"curve_value" validate:"omitempty,gt=0" label:"Curve value"`
	CreationDate *time.Time `json:"creationDate" db:"creation_date"`
}
