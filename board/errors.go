package board

import "fmt"

// ContractViolation is raised (via panic) when a caller breaks a
// precondition of this package: coordinates off the board, or Empty passed
// where a stone color is required. FromGrid returns it as a plain error.
type ContractViolation struct {
	Msg string
}

func (e *ContractViolation) Error() string {
	return "board contract violation: " + e.Msg
}

func violation(format string, args ...any) *ContractViolation {
	return &ContractViolation{Msg: fmt.Sprintf(format, args...)}
}

func checkPos(p Pos) {
	if !p.OnBoard() {
		panic(violation("position %d,%d is off the board", p.Col, p.Row))
	}
}

func checkColor(c Color) Color {
	if !c.Valid() {
		panic(violation("%v is not a stone color", c))
	}
	return c
}

// Recover converts a recovered ContractViolation panic into an error and
// re-panics anything else. Use it as `defer board.Recover(&err)`.
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if cv, ok := r.(*ContractViolation); ok {
		*err = cv
		return
	}
	panic(r)
}
