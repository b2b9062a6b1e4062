package models

// LogCategory groups activity entries by the kind of document touched.
type LogCategory string

const (
	LogSchedule LogCategory = "schedule"
	LogExpense  LogCategory = "expense"
	LogMember   LogCategory = "member"
	LogTrip     LogCategory = "trip"
)

// LogAction is what happened to the document.
type LogAction string

const (
	ActionCreate LogAction = "create"
	ActionUpdate LogAction = "update"
	ActionDelete LogAction = "delete"
	ActionJoin   LogAction = "join"
	ActionInvite LogAction = "invite"
	ActionRevoke LogAction = "revoke"
)

// LogEntry is an append-only activity record.
type LogEntry struct {
	ID       string
	TripID   string
	Category LogCategory
	Action   LogAction

	// Title names the affected document (e.g., the expense title).
	Title string

	// Details is free text. For deletions it holds a JSON snapshot of the
	// removed document.
	Details string

	ActorID   string
	CreatedAt int64
}
