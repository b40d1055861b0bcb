package monitoring

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// PlanStep describes one stage of a pivot run.
type PlanStep struct {
	Stage       string        `json:"stage"`
	Description string        `json:"description"`
	RowsIn      int64         `json:"rows_in"`
	RowsOut     int64         `json:"rows_out"`
	Duration    time.Duration `json:"duration,omitempty"`
}

// ExecutionPlan is the ordered list of stages a pivot run went through.
type ExecutionPlan struct {
	Steps []PlanStep `json:"steps"`
}

// PlanBuilder helps construct execution plans.
type PlanBuilder struct {
	steps []PlanStep
}

// NewPlanBuilder creates a new plan builder.
func NewPlanBuilder() *PlanBuilder {
	return &PlanBuilder{
		steps: make([]PlanStep, 0),
	}
}

// AddStep appends a stage to the plan.
func (pb *PlanBuilder) AddStep(stage, description string, rowsIn, rowsOut int) *PlanBuilder {
	pb.steps = append(pb.steps, PlanStep{
		Stage:       stage,
		Description: description,
		RowsIn:      int64(rowsIn),
		RowsOut:     int64(rowsOut),
	})
	return pb
}

// WithMetrics copies durations from recorded metrics onto the steps with the
// same stage name, in order.
func (pb *PlanBuilder) WithMetrics(metrics []StageMetrics) *PlanBuilder {
	used := make([]bool, len(metrics))
	for i := range pb.steps {
		for j, m := range metrics {
			if !used[j] && m.Stage == pb.steps[i].Stage {
				pb.steps[i].Duration = m.Duration
				used[j] = true
				break
			}
		}
	}
	return pb
}

// Build constructs and returns the final plan.
func (pb *PlanBuilder) Build() ExecutionPlan {
	steps := make([]PlanStep, len(pb.steps))
	copy(steps, pb.steps)
	return ExecutionPlan{Steps: steps}
}

// TotalDuration returns the sum of the step durations.
func (p ExecutionPlan) TotalDuration() time.Duration {
	var total time.Duration
	for _, s := range p.Steps {
		total += s.Duration
	}
	return total
}

// Step returns the first step with the given stage name.
func (p ExecutionPlan) Step(stage string) (PlanStep, bool) {
	for _, s := range p.Steps {
		if s.Stage == stage {
			return s, true
		}
	}
	return PlanStep{}, false
}

// ToJSON converts the plan to indented JSON.
func (p ExecutionPlan) ToJSON() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// String renders the plan as one line per stage.
func (p ExecutionPlan) String() string {
	var b strings.Builder
	for i, s := range p.Steps {
		fmt.Fprintf(&b, "%d. %-8s %6d -> %-6d %s", i+1, s.Stage, s.RowsIn, s.RowsOut, s.Description)
		if s.Duration > 0 {
			fmt.Fprintf(&b, " (%v)", s.Duration)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
