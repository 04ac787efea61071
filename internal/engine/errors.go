package engine

import (
	"errors"
	"fmt"
)

// ErrNotInitialized is returned when an operation needs a project state
// and none exists under the project root.
var ErrNotInitialized = errors.New("尚未初始化 SDD 项目")

// MissingPredecessorError reports a phase invoked before the phase that
// produces its input has run.
type MissingPredecessorError struct {
	Phase string
	Needs string
}

func (e *MissingPredecessorError) Error() string {
	return fmt.Sprintf("无法执行 %s：缺少前置产物 %s", e.Phase, e.Needs)
}

// MalformedInputError reports an externally supplied file that failed
// to parse, naming the file's purpose so the caller knows what to fix.
type MalformedInputError struct {
	Path    string
	Purpose string
	Err     error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("解析%s失败（%s）: %v", e.Purpose, e.Path, e.Err)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}
