package script

// ActionProgressKey is the ExecutionContext property holding the
// *JobProgress of the running action.
const ActionProgressKey = "actionprogress"

// DebugService exposes internal debug information to scripts.
type DebugService struct {
	execution *Execution
}

// NewDebugService creates the service.
func NewDebugService(execution *Execution) *DebugService {
	return &DebugService{execution: execution}
}

// IsEnabled reports whether detailed progress is available for the current
// action.
func (s *DebugService) IsEnabled() bool {
	return s.ActionProgress() != nil
}

// ActionProgress returns the progress of the current action, or nil.
func (s *DebugService) ActionProgress() *JobProgress {
	ctx := s.execution.Context()
	if ctx == nil {
		return nil
	}
	progress, _ := ctx.Property(ActionProgressKey).(*JobProgress)
	return progress
}
