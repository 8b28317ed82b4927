package domain

import "time"

type SoilCondition string

const (
	SoilExcellent SoilCondition = "excellent"
	SoilGood      SoilCondition = "good"
	SoilFair      SoilCondition = "fair"
	SoilPoor      SoilCondition = "poor"
)

// SoilConditions lists the conditions in draw order.
var SoilConditions = [...]SoilCondition{SoilExcellent, SoilGood, SoilFair, SoilPoor}

func (s SoilCondition) Valid() bool {
	switch s {
	case SoilExcellent, SoilGood, SoilFair, SoilPoor:
		return true
	}
	return false
}

// Tree is created once per scan and never updated.
type Tree struct {
	ID            string        `db:"id" json:"id"`
	UserID        string        `db:"user_id" json:"user_id"`
	TreeName      string        `db:"tree_name" json:"tree_name"`
	GrowthLevel   int           `db:"growth_level" json:"growth_level"`
	Humidity      int           `db:"humidity" json:"humidity"`
	SoilCondition SoilCondition `db:"soil_condition" json:"soil_condition"`
	TotalScans    int           `db:"total_scans" json:"total_scans"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}
