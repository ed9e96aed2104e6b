package container

// Operation names a container API call for the purpose of lock checks.
type Operation int

const (
	OpAdd Operation = iota
	OpSet
	OpRemove
	OpSetFlag
	OpSetDelegator
	OpGet
	OpHas
	OpLock
	OpUnlock
)

var operationNames = map[Operation]string{
	OpAdd:          "add",
	OpSet:          "set",
	OpRemove:       "remove",
	OpSetFlag:      "set flag",
	OpSetDelegator: "set delegator",
	OpGet:          "get",
	OpHas:          "has",
	OpLock:         "lock",
	OpUnlock:       "unlock",
}

func (o Operation) String() string {
	if s, ok := operationNames[o]; ok {
		return s
	}
	return "unknown"
}

// mutates reports whether o changes container state in a way a lock forbids.
func (o Operation) mutates() bool {
	switch o {
	case OpAdd, OpSet, OpRemove, OpSetFlag, OpSetDelegator:
		return true
	}
	return false
}

// lockState is the two-state machine gating the container API.
type lockState bool

const (
	stateOpen   lockState = false
	stateLocked lockState = true
)

func (s lockState) String() string {
	if s == stateLocked {
		return "locked"
	}
	return "open"
}

// permits returns nil when op may run in state s, or an ErrLocked error.
func (s lockState) permits(op Operation) error {
	if s == stateLocked && op.mutates() {
		return newError(op.String(), "", ErrLocked, "")
	}
	return nil
}

// next returns the state after op has run.
func (s lockState) next(op Operation) lockState {
	switch op {
	case OpLock:
		return stateLocked
	case OpUnlock:
		return stateOpen
	}
	return s
}
