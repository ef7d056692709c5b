package lr

import (
	"fmt"

	"github.com/npillmayer/golalr/lr/sparse"
)

// ActionType is the type of an entry of the ACTION table.
type ActionType int

// Types of actions. NoAction denotes an empty table entry, Error an entry
// which has been set to error explicitly (by a non-associative operator).
const (
	NoAction ActionType = iota
	Shift
	Reduce
	Accept
	Error
)

func (t ActionType) String() string {
	switch t {
	case Shift:
		return "shift"
	case Reduce:
		return "reduce"
	case Accept:
		return "accept"
	case Error:
		return "error"
	}
	return "none"
}

// Action is an entry of the ACTION table. Target is the state to shift to
// for shift actions and the serial number of the rule to reduce for reduce
// actions.
type Action struct {
	Type   ActionType
	Target int
}

// IsError is true for actions which do not let a parser proceed.
func (a Action) IsError() bool {
	return a.Type == NoAction || a.Type == Error
}

func (a Action) String() string {
	switch a.Type {
	case Shift:
		return fmt.Sprintf("s%d", a.Target)
	case Reduce:
		return fmt.Sprintf("r%d", a.Target)
	case Accept:
		return "acc"
	case Error:
		return "err"
	}
	return ""
}

// Actions are stored in a matrix as int32. The lowest 2 bits carry the
// action type, the remaining bits the target.
//
//	0          explicit error
//	s<<2 | 1   shift to state s
//	r<<2 | 2   reduce rule r
//	3          accept
//
// An empty entry is represented by the matrix' null value.
const (
	encError  int32 = 0
	encShift  int32 = 1
	encReduce int32 = 2
	encAccept int32 = 3
)

func encodeAction(a Action) int32 {
	switch a.Type {
	case Shift:
		return int32(a.Target)<<2 | encShift
	case Reduce:
		return int32(a.Target)<<2 | encReduce
	case Accept:
		return encAccept
	case Error:
		return encError
	}
	return sparse.DefaultNullValue
}

func decodeAction(v int32, null int32) Action {
	if v == null {
		return Action{}
	}
	switch v & 3 {
	case encShift:
		return Action{Type: Shift, Target: int(v >> 2)}
	case encReduce:
		return Action{Type: Reduce, Target: int(v >> 2)}
	case encAccept:
		return Action{Type: Accept}
	}
	return Action{Type: Error}
}
