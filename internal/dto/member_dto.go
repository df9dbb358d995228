package dto

import (
	"github.com/google/uuid"
)

type MemberFilter struct {
	Search string `form:"search"`
	SortBy string `form:"sortBy"` // "name", "recent"
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

type PaginationMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// MemberCard is the flattened directory entry: the profile plus the
// most recent education and employment rows.
type MemberCard struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Location         string    `json:"location"`
	Title            string    `json:"title"`
	Company          string    `json:"company"`
	Education        string    `json:"education"`
	Institution      string    `json:"institution"`
	YearOfPassing    string    `json:"year_of_passing"`
	CurrentlyWorking bool      `json:"currently_working"`
	Village          string    `json:"village"`
	District         string    `json:"district"`
	NativePlace      string    `json:"native_place"`
	JoinedDate       string    `json:"joined_date"`
}

type MemberListResponse struct {
	Members    []MemberCard   `json:"members"`
	Pagination PaginationMeta `json:"pagination"`
}

type UpdateUserInput struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone"`
	Role     *string `json:"role" binding:"omitempty,oneof=admin moderator member"`
}
