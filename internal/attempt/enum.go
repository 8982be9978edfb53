package attempt

// Status of a stored attempt. An attempt is created in progress by Start,
// so there is no value for a quiz that has not been started.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusSubmitted  Status = "submitted"
	StatusAbandoned  Status = "abandoned"
)
