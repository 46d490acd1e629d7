// Package query filters trips with CEL boolean expressions.
//
// Expressions see a single variable, trip, with these fields:
//
//	start_time, end_time  timestamp
//	duration              double (seconds)
//	start_station, end_station, user_type, gender, weekday  string
//	birth_year, month, hour  int
//
// Example: trip.duration > 1800.0 && trip.user_type == "Customer"
package query

import (
	"fmt"
	"strings"

	"github.com/Veraticus/bikeshare/internal/common"
	"github.com/Veraticus/bikeshare/internal/dataset"
	"github.com/Veraticus/bikeshare/internal/model"
	"github.com/google/cel-go/cel"
)

// costLimit bounds evaluation work per trip.
const costLimit = 100000

// Predicate is a compiled trip expression.
type Predicate struct {
	program    cel.Program
	expression string
}

// Compile parses and type-checks expr. The expression must evaluate to a bool.
func Compile(expr string) (*Predicate, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("%w: empty expression", common.ErrInvalidFilter)
	}

	env, err := cel.NewEnv(
		cel.Variable("trip", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidFilter, issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("%w: expression must be boolean, got %s", common.ErrInvalidFilter, ast.OutputType())
	}

	program, err := env.Program(ast, cel.CostLimit(costLimit))
	if err != nil {
		return nil, fmt.Errorf("program creation error: %w", err)
	}

	return &Predicate{program: program, expression: expr}, nil
}

// String returns the source expression.
func (p *Predicate) String() string {
	return p.expression
}

// Match evaluates the predicate against one trip. Non-boolean results are errors.
func (p *Predicate) Match(trip model.Trip) (bool, error) {
	out, _, err := p.program.Eval(map[string]any{"trip": Facts(trip)})
	if err != nil {
		return false, fmt.Errorf("evaluating %q: %w", p.expression, err)
	}

	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q evaluated to %v, not a bool", common.ErrInvalidFilter, p.expression, out.Value())
	}
	return matched, nil
}

// Apply returns a table holding the trips that match. The column set is unchanged.
func (p *Predicate) Apply(table *dataset.Table) (*dataset.Table, error) {
	var evalErr error
	out := table.Where(func(trip model.Trip) bool {
		if evalErr != nil {
			return false
		}
		matched, err := p.Match(trip)
		if err != nil {
			evalErr = err
			return false
		}
		return matched
	})
	if evalErr != nil {
		return nil, evalErr
	}
	return out, nil
}

// Facts exposes a trip's fields under the names expressions use.
func Facts(trip model.Trip) map[string]any {
	return map[string]any{
		"start_time":    trip.StartTime,
		"end_time":      trip.EndTime,
		"duration":      trip.Duration,
		"start_station": trip.StartStation,
		"end_station":   trip.EndStation,
		"user_type":     trip.UserType,
		"gender":        trip.Gender,
		"birth_year":    int64(trip.BirthYear),
		"month":         int64(trip.Month()),
		"weekday":       trip.Weekday().String(),
		"hour":          int64(trip.Hour()),
	}
}
