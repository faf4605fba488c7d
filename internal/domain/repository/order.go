package repository

import (
	"sort"

	"dsc_team/internal/domain/model"
)

// sortByCreatedAt orders members by created_at, keeping the incoming order
// for equal timestamps.
func sortByCreatedAt(members []model.Member) {
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].CreatedAt.Before(members[j].CreatedAt)
	})
}
