package script

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebugService_NoContext(t *testing.T) {
	svc := NewDebugService(NewExecution())
	assert.Nil(t, svc.ActionProgress())
	assert.False(t, svc.IsEnabled())
}

func TestDebugService_ContextWithoutProgress(t *testing.T) {
	exec := NewExecution()
	exec.Push(NewExecutionContext())

	svc := NewDebugService(exec)
	assert.Nil(t, svc.ActionProgress())
	assert.False(t, svc.IsEnabled())
}

func TestDebugService_WrongPropertyType(t *testing.T) {
	exec := NewExecution()
	ec := NewExecutionContext()
	ec.SetProperty(ActionProgressKey, "not a progress")
	exec.Push(ec)

	assert.False(t, NewDebugService(exec).IsEnabled())
}

func TestDebugService_ActionProgress(t *testing.T) {
	exec := NewExecution()
	ec := NewExecutionContext()
	progress := NewJobProgress()
	ec.SetProperty(ActionProgressKey, progress)
	exec.Push(ec)

	svc := NewDebugService(exec)
	assert.True(t, svc.IsEnabled())
	assert.Same(t, progress, svc.ActionProgress())

	// A nested context hides the outer one until popped.
	exec.Push(NewExecutionContext())
	assert.False(t, svc.IsEnabled())
	exec.Pop()
	assert.True(t, svc.IsEnabled())
}

func TestExecution_PopEmpty(t *testing.T) {
	exec := NewExecution()
	assert.Nil(t, exec.Pop())
	assert.Nil(t, exec.Context())
}

func TestExecutionContext_Properties(t *testing.T) {
	ec := NewExecutionContext()
	ec.SetProperty("b", 2)
	ec.SetProperty("a", 1)

	assert.True(t, ec.HasProperty("a"))
	assert.Equal(t, 1, ec.Property("a"))
	assert.Equal(t, []string{"a", "b"}, ec.Keys())

	ec.RemoveProperty("a")
	assert.False(t, ec.HasProperty("a"))
	assert.Nil(t, ec.Property("a"))
}

func TestExecutionContext_Concurrent(t *testing.T) {
	ec := NewExecutionContext()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ec.SetProperty("k", i)
			_ = ec.Property("k")
		}(i)
	}
	wg.Wait()
	assert.True(t, ec.HasProperty("k"))
}

func TestJobProgress_Nested(t *testing.T) {
	p := NewJobProgress()
	assert.Zero(t, p.Offset())

	p.PushLevel(2)
	p.PushLevel(4)
	require.Equal(t, 2, p.Depth())

	p.Step()
	assert.InDelta(t, 0.125, p.Offset(), 1e-9)
	assert.InDelta(t, 0.25, p.CurrentLevelOffset(), 1e-9)

	p.PopLevel()
	assert.InDelta(t, 0.5, p.Offset(), 1e-9)

	p.Step()
	assert.InDelta(t, 1.0, p.Offset(), 1e-9)

	p.Step()
	assert.InDelta(t, 1.0, p.Offset(), 1e-9, "steps past the level count are ignored")

	p.PopLevel()
	assert.Zero(t, p.Depth())
	assert.InDelta(t, 1.0, p.Offset(), 1e-9)

	p.PopLevel()
	assert.InDelta(t, 1.0, p.Offset(), 1e-9)
}

func TestJobProgress_ZeroSteps(t *testing.T) {
	p := NewJobProgress()
	p.PushLevel(0)
	p.Step()
	assert.InDelta(t, 1.0, p.Offset(), 1e-9)
}
