package mutation

// Status is the state of a single mutation.
// A mutation moves Idle → Pending → Success or Idle → Pending → Error.
// Success and Error are terminal; retrying means starting a new mutation.
type Status int

const (
	Idle Status = iota
	Pending
	Success
	Error
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Observer is told about every status transition of a mutation.
type Observer func(key string, s Status, err error)
