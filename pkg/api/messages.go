package api

// AuthService

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

// UserService

type GetProfileRequest struct {
	UserID string `json:"userId"`
}

type GetProfileResponse struct {
	User *User `json:"user"`
}

type UpdateProfileRequest struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type UpdateProfileResponse struct {
	User *User `json:"user"`
}

// TripService

type CreateTripRequest struct {
	Title        string   `json:"title"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	BaseCurrency string   `json:"baseCurrency"`
	InviteEmails []string `json:"inviteEmails,omitempty"`
}

type CreateTripResponse struct {
	Trip *Trip `json:"trip"`
}

type GetTripRequest struct {
	TripID string `json:"tripId"`
}

type GetTripResponse struct {
	Trip *Trip `json:"trip"`
}

type ListTripsRequest struct{}

type ListTripsResponse struct {
	Trips []*Trip `json:"trips"`
}

// UpdateTripRequest changes only the fields that are set.
type UpdateTripRequest struct {
	TripID       string  `json:"tripId"`
	Title        *string `json:"title,omitempty"`
	StartDate    *string `json:"startDate,omitempty"`
	EndDate      *string `json:"endDate,omitempty"`
	BaseCurrency *string `json:"baseCurrency,omitempty"`
}

type UpdateTripResponse struct {
	Trip *Trip `json:"trip"`
}

type DeleteTripRequest struct {
	TripID string `json:"tripId"`
}

type DeleteTripResponse struct{}

type InviteMemberRequest struct {
	TripID string `json:"tripId"`
	Email  string `json:"email"`
}

type InviteMemberResponse struct {
	Trip *Trip `json:"trip"`
	// Added is false when the email was already invited.
	Added bool `json:"added"`
}

type RevokeInviteRequest struct {
	TripID string `json:"tripId"`
	Email  string `json:"email"`
}

type RevokeInviteResponse struct {
	Trip *Trip `json:"trip"`
}

type JoinTripRequest struct {
	TripID   string `json:"tripId"`
	Nickname string `json:"nickname,omitempty"`
}

type JoinTripResponse struct {
	Member *Member `json:"member"`
	// Joined is false when the caller already was a member.
	Joined bool `json:"joined"`
}

type ListMembersRequest struct {
	TripID string `json:"tripId"`
}

type ListMembersResponse struct {
	Members []*Member `json:"members"`
	// PendingEmails are invited addresses without a member record.
	PendingEmails []string `json:"pendingEmails"`
}

type UpdateMemberRequest struct {
	TripID   string  `json:"tripId"`
	UserID   string  `json:"userId"`
	Role     *string `json:"role,omitempty"`
	Nickname *string `json:"nickname,omitempty"`
}

type UpdateMemberResponse struct {
	Member *Member `json:"member"`
}

type ListMembershipsRequest struct{}

type ListMembershipsResponse struct {
	Members []*Member `json:"members"`
}

type ListActivityRequest struct {
	TripID string `json:"tripId"`
	// Limit caps the number of entries. Zero returns everything.
	Limit int32 `json:"limit,omitempty"`
}

type ListActivityResponse struct {
	Entries []*LogEntry `json:"entries"`
}

// ScheduleService

type ScheduleItemInput struct {
	Category     string         `json:"category"`
	Title        string         `json:"title"`
	Date         string         `json:"date"`
	StartTime    string         `json:"startTime,omitempty"`
	EndDate      string         `json:"endDate,omitempty"`
	EndTime      string         `json:"endTime,omitempty"`
	Notes        string         `json:"notes,omitempty"`
	LocationURL  string         `json:"locationUrl,omitempty"`
	Participants []string       `json:"participants,omitempty"`
	Color        string         `json:"color,omitempty"`
	Flight       *FlightDetails `json:"flight,omitempty"`
}

type CreateItemRequest struct {
	TripID string             `json:"tripId"`
	Item   *ScheduleItemInput `json:"item"`
}

type CreateItemResponse struct {
	Item *ScheduleItem `json:"item"`
}

type GetItemRequest struct {
	TripID string `json:"tripId"`
	ItemID string `json:"itemId"`
}

type GetItemResponse struct {
	Item *ScheduleItem `json:"item"`
}

type ListItemsRequest struct {
	TripID   string `json:"tripId"`
	Category string `json:"category,omitempty"`
	Date     string `json:"date,omitempty"`
}

type ListItemsResponse struct {
	Items []*ScheduleItem `json:"items"`
}

// UpdateItemRequest replaces the item's content with Item.
type UpdateItemRequest struct {
	TripID string             `json:"tripId"`
	ItemID string             `json:"itemId"`
	Item   *ScheduleItemInput `json:"item"`
}

type UpdateItemResponse struct {
	Item *ScheduleItem `json:"item"`
}

type DeleteItemRequest struct {
	TripID string `json:"tripId"`
	ItemID string `json:"itemId"`
}

type DeleteItemResponse struct{}

type WatchItemsRequest struct {
	TripID string `json:"tripId"`
}

// WatchItemsResponse is a full snapshot of the trip's schedule.
type WatchItemsResponse struct {
	Items []*ScheduleItem `json:"items"`
}

// LedgerService

type TransactionInput struct {
	Kind       string   `json:"kind"`
	Title      string   `json:"title"`
	Amount     float64  `json:"amount"`
	Currency   string   `json:"currency"`
	PaidBy     string   `json:"paidBy"`
	SplitAmong []string `json:"splitAmong"`
}

type CreateTransactionRequest struct {
	TripID      string            `json:"tripId"`
	Transaction *TransactionInput `json:"transaction"`
}

type CreateTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type UpdateTransactionRequest struct {
	TripID        string            `json:"tripId"`
	TransactionID string            `json:"transactionId"`
	Transaction   *TransactionInput `json:"transaction"`
}

type UpdateTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type DeleteTransactionRequest struct {
	TripID        string `json:"tripId"`
	TransactionID string `json:"transactionId"`
}

type DeleteTransactionResponse struct{}

type ListTransactionsRequest struct {
	TripID string `json:"tripId"`
}

type ListTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

type GetBalancesRequest struct {
	TripID string `json:"tripId"`
}

type GetBalancesResponse struct {
	Balances    []*MemberBalance `json:"balances"`
	Currencies  []string         `json:"currencies"`
	Suggestions []*Transfer      `json:"suggestions"`
}

type WatchBalancesRequest struct {
	TripID string `json:"tripId"`
}

// WatchBalancesResponse is a recomputed snapshot of the trip's balances.
type WatchBalancesResponse struct {
	Balances    []*MemberBalance `json:"balances"`
	Currencies  []string         `json:"currencies"`
	Suggestions []*Transfer      `json:"suggestions"`
}
