package models

// ActivityType classifies audit-trail entries.
type ActivityType string

const (
	ActivityTypeNew     ActivityType = "new"
	ActivityTypeUpdate  ActivityType = "update"
	ActivityTypeRestock ActivityType = "restock"
	ActivityTypeSale    ActivityType = "sale"
	ActivityTypeDelete  ActivityType = "delete"
)

func (t ActivityType) IsValid() bool {
	switch t {
	case ActivityTypeNew, ActivityTypeUpdate, ActivityTypeRestock, ActivityTypeSale, ActivityTypeDelete:
		return true
	}
	return false
}
