package script

import "sync"

// JobProgress tracks progress through nested levels of steps. Each level
// splits the step of its parent it was pushed in, so Offset always moves
// forward from 0 to 1.
//
//	p.PushLevel(2)   // two steps
//	p.PushLevel(4)   //   first step split in four
//	p.Step()         //   offset 0.125
//	p.PopLevel()     // offset 0.5
type JobProgress struct {
	mu     sync.Mutex
	levels []level
	final  float64
}

type level struct {
	steps int
	done  int
	base  float64
	span  float64
}

func (l level) offset() float64 {
	return l.base + l.span*float64(l.done)/float64(l.steps)
}

// NewJobProgress creates a progress at offset 0.
func NewJobProgress() *JobProgress {
	return &JobProgress{}
}

// PushLevel opens a level of steps inside the current step. Counts below
// one are treated as one.
func (p *JobProgress) PushLevel(steps int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if steps < 1 {
		steps = 1
	}
	next := level{steps: steps, base: p.final, span: 1 - p.final}
	if n := len(p.levels); n > 0 {
		parent := p.levels[n-1]
		next.base = parent.offset()
		next.span = parent.span / float64(parent.steps)
	}
	p.levels = append(p.levels, next)
}

// Step completes one step of the current level.
func (p *JobProgress) Step() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.complete()
}

// PopLevel closes the current level, completing the parent step it was
// pushed in.
func (p *JobProgress) PopLevel() {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.levels)
	if n == 0 {
		return
	}
	top := p.levels[n-1]
	p.levels = p.levels[:n-1]
	if len(p.levels) == 0 {
		p.final = top.base + top.span
		return
	}
	p.complete()
}

func (p *JobProgress) complete() {
	n := len(p.levels)
	if n == 0 {
		return
	}
	if l := &p.levels[n-1]; l.done < l.steps {
		l.done++
	}
}

// Offset returns the overall progress between 0 and 1.
func (p *JobProgress) Offset() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n := len(p.levels); n > 0 {
		return p.levels[n-1].offset()
	}
	return p.final
}

// CurrentLevelOffset returns the progress within the current level.
func (p *JobProgress) CurrentLevelOffset() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.levels)
	if n == 0 {
		return p.final
	}
	l := p.levels[n-1]
	return float64(l.done) / float64(l.steps)
}

// Depth returns the number of open levels.
func (p *JobProgress) Depth() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.levels)
}
