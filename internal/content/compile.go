package content

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/dayline/internal/timeline"
	"github.com/roach88/dayline/internal/value"
)

// CompileCatalog parses a CUE value into a Catalog.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value is the unified scenario document, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`sequence: SEQ_A: { ... }`)
//	cat, err := CompileCatalog(v)
//
// Field iteration order in CUE follows declaration order, which is what
// gives the catalog its deterministic event ordering.
func CompileCatalog(v cue.Value) (*Catalog, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	cat := &Catalog{}

	if err := compileSequences(v, cat); err != nil {
		return nil, err
	}
	if err := compileNodes(v, cat); err != nil {
		return nil, err
	}
	if err := compileSimpleEvents(v, cat); err != nil {
		return nil, err
	}
	if err := compileStakeholders(v, cat); err != nil {
		return nil, err
	}
	if err := compileExpected(v, cat); err != nil {
		return nil, err
	}
	if err := compileSchedule(v, cat); err != nil {
		return nil, err
	}

	if err := validateCatalog(cat, v.Pos()); err != nil {
		return nil, err
	}

	cat.index()
	return cat, nil
}

func compileSequences(v cue.Value, cat *Catalog) error {
	seqVal := v.LookupPath(cue.ParsePath("sequence"))
	if !seqVal.Exists() {
		return nil
	}

	iter, err := seqVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}

	for iter.Next() {
		sv := iter.Value()
		seq := Sequence{ID: iter.Label()}

		role, err := requiredString(sv, "stakeholder_role")
		if err != nil {
			return err
		}
		seq.StakeholderRole = role

		seq.Inevitable, err = optionalBool(sv, "inevitable")
		if err != nil {
			return err
		}
		seq.Opening, err = optionalString(sv, "opening")
		if err != nil {
			return err
		}
		seq.Closing, err = optionalString(sv, "closing")
		if err != nil {
			return err
		}

		nodesVal := sv.LookupPath(cue.ParsePath("nodes"))
		if !nodesVal.Exists() {
			return &CompileError{
				Field:   fmt.Sprintf("sequence.%s.nodes", seq.ID),
				Message: "a sequence needs at least one node",
				Pos:     sv.Pos(),
			}
		}
		nodeIter, err := nodesVal.List()
		if err != nil {
			return formatCUEError(err)
		}
		for nodeIter.Next() {
			id, err := nodeIter.Value().String()
			if err != nil {
				return formatCUEError(err)
			}
			seq.Nodes = append(seq.Nodes, id)
		}
		if len(seq.Nodes) == 0 {
			return &CompileError{
				Field:   fmt.Sprintf("sequence.%s.nodes", seq.ID),
				Message: "a sequence needs at least one node",
				Pos:     sv.Pos(),
			}
		}

		cat.Sequences = append(cat.Sequences, seq)
	}
	return nil
}

func compileNodes(v cue.Value, cat *Catalog) error {
	nodeVal := v.LookupPath(cue.ParsePath("node"))
	if !nodeVal.Exists() {
		return nil
	}

	iter, err := nodeVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}

	for iter.Next() {
		nv := iter.Value()
		node := DecisionNode{ID: iter.Label()}

		node.Prompt, err = requiredString(nv, "prompt")
		if err != nil {
			return err
		}

		optsVal := nv.LookupPath(cue.ParsePath("options"))
		if !optsVal.Exists() {
			return &CompileError{
				Field:   fmt.Sprintf("node.%s.options", node.ID),
				Message: "a decision node needs at least one option",
				Pos:     nv.Pos(),
			}
		}
		optIter, err := optsVal.List()
		if err != nil {
			return formatCUEError(err)
		}
		for optIter.Next() {
			opt, err := compileOption(optIter.Value(), node.ID)
			if err != nil {
				return err
			}
			node.Options = append(node.Options, opt)
		}
		if len(node.Options) == 0 {
			return &CompileError{
				Field:   fmt.Sprintf("node.%s.options", node.ID),
				Message: "a decision node needs at least one option",
				Pos:     nv.Pos(),
			}
		}

		cat.Nodes = append(cat.Nodes, node)
	}
	return nil
}

func compileOption(v cue.Value, nodeID string) (Option, error) {
	var opt Option

	id, err := requiredString(v, "id")
	if err != nil {
		return opt, err
	}
	opt.ID = id

	opt.Text, err = requiredString(v, "text")
	if err != nil {
		return opt, err
	}
	opt.Response, err = optionalString(v, "response")
	if err != nil {
		return opt, err
	}

	consVal := v.LookupPath(cue.ParsePath("consequences"))
	if consVal.Exists() {
		m, err := compileValueMap(consVal)
		if err != nil {
			return opt, err
		}
		opt.Consequences = m
	}

	return opt, nil
}

func compileSimpleEvents(v cue.Value, cat *Catalog) error {
	evVal := v.LookupPath(cue.ParsePath("simple_event"))
	if !evVal.Exists() {
		return nil
	}

	iter, err := evVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}

	for iter.Next() {
		ev := SimpleEvent{ID: iter.Label()}
		sv := iter.Value()

		ev.Title, err = requiredString(sv, "title")
		if err != nil {
			return err
		}
		ev.Description, err = optionalString(sv, "description")
		if err != nil {
			return err
		}

		lane, err := optionalString(sv, "lane")
		if err != nil {
			return err
		}
		if lane == "" {
			lane = string(LaneContingency)
		}
		ev.Lane = Lane(lane)
		if !ValidLane(ev.Lane) {
			return &CompileError{
				Field:   fmt.Sprintf("simple_event.%s.lane", ev.ID),
				Message: fmt.Sprintf("unknown lane %q", lane),
				Pos:     sv.Pos(),
			}
		}

		ev.Trigger, err = optionalString(sv, "trigger")
		if err != nil {
			return err
		}
		ev.Blocked, err = optionalBool(sv, "blocked")
		if err != nil {
			return err
		}

		cat.SimpleEvents = append(cat.SimpleEvents, ev)
	}
	return nil
}

func compileStakeholders(v cue.Value, cat *Catalog) error {
	stVal := v.LookupPath(cue.ParsePath("stakeholder"))
	if !stVal.Exists() {
		return nil
	}

	iter, err := stVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}

	for iter.Next() {
		st := Stakeholder{ID: iter.Label()}
		sv := iter.Value()

		st.Name, err = requiredString(sv, "name")
		if err != nil {
			return err
		}
		st.Role, err = requiredString(sv, "role")
		if err != nil {
			return err
		}

		cat.Stakeholders = append(cat.Stakeholders, st)
	}
	return nil
}

func compileExpected(v cue.Value, cat *Catalog) error {
	expVal := v.LookupPath(cue.ParsePath("expected"))
	if !expVal.Exists() {
		return nil
	}

	iter, err := expVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}

	for iter.Next() {
		exp := ExpectedAction{ID: iter.Label()}
		ev := iter.Value()

		exp.Target, err = requiredString(ev, "target")
		if err != nil {
			return err
		}
		exp.Rule, err = optionalString(ev, "rule")
		if err != nil {
			return err
		}

		consVal := ev.LookupPath(cue.ParsePath("constraints"))
		if consVal.Exists() {
			m, err := compileValueMap(consVal)
			if err != nil {
				return err
			}
			exp.Constraints = m
		}

		srcVal := ev.LookupPath(cue.ParsePath("source"))
		if srcVal.Exists() {
			exp.SourceNode, err = optionalString(srcVal, "node")
			if err != nil {
				return err
			}
			exp.SourceOption, err = optionalString(srcVal, "option")
			if err != nil {
				return err
			}
		}

		cat.Expected = append(cat.Expected, exp)
	}
	return nil
}

func compileSchedule(v cue.Value, cat *Catalog) error {
	schVal := v.LookupPath(cue.ParsePath("schedule"))
	if !schVal.Exists() {
		return nil
	}

	iter, err := schVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}

	for iter.Next() {
		eventID := iter.Label()
		sv := iter.Value()

		dayVal := sv.LookupPath(cue.ParsePath("day"))
		if !dayVal.Exists() {
			return &CompileError{
				Field:   fmt.Sprintf("schedule.%s.day", eventID),
				Message: "day is required",
				Pos:     sv.Pos(),
			}
		}
		day, err := dayVal.Int64()
		if err != nil {
			return formatCUEError(err)
		}

		slotStr, err := requiredString(sv, "slot")
		if err != nil {
			return err
		}
		slot, err := timeline.ParseSlot(slotStr)
		if err != nil {
			return &CompileError{
				Field:   fmt.Sprintf("schedule.%s.slot", eventID),
				Message: err.Error(),
				Pos:     sv.Pos(),
			}
		}

		at, err := timeline.NewCoordinate(int(day), slot)
		if err != nil {
			return &CompileError{
				Field:   fmt.Sprintf("schedule.%s", eventID),
				Message: err.Error(),
				Pos:     sv.Pos(),
			}
		}

		cat.Schedule = append(cat.Schedule, ScheduleEntry{EventID: eventID, At: at})
	}
	return nil
}

// compileValueMap converts a CUE struct into a value.Map.
// Floats are forbidden; authored numbers must be integers.
func compileValueMap(v cue.Value) (value.Map, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	m := value.Map{}
	for iter.Next() {
		val, err := compileValue(iter.Value())
		if err != nil {
			return nil, err
		}
		m[iter.Label()] = val
	}
	return m, nil
}

// compileValue converts a concrete CUE value into the closed value variant
// set. Mirrors the shape restrictions of canonical encoding: strings, ints,
// bools, lists, and nested structs only. Floats and nulls are rejected
// here so they can never reach the content-addressing path.
func compileValue(v cue.Value) (value.Value, error) {
	switch v.Kind() {
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return value.String(s), nil
	case cue.IntKind:
		i, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return value.Int(i), nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return value.Bool(b), nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		list := value.List{}
		for iter.Next() {
			elem, err := compileValue(iter.Value())
			if err != nil {
				return nil, err
			}
			list = append(list, elem)
		}
		return list, nil
	case cue.StructKind:
		return compileValueMap(v)
	case cue.FloatKind, cue.NumberKind:
		return nil, &CompileError{
			Field:   "type",
			Message: "float values are forbidden - use int instead",
			Pos:     v.Pos(),
		}
	case cue.NullKind:
		return nil, &CompileError{
			Field:   "type",
			Message: "null values are forbidden - omit the field instead",
			Pos:     v.Pos(),
		}
	default:
		return nil, &CompileError{
			Field:   "type",
			Message: fmt.Sprintf("unsupported value kind: %v", v.Kind()),
			Pos:     v.Pos(),
		}
	}
}

func requiredString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", &CompileError{
			Field:   field,
			Message: field + " is required",
			Pos:     v.Pos(),
		}
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalBool(v cue.Value, field string) (bool, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return false, nil
	}
	b, err := fv.Bool()
	if err != nil {
		return false, formatCUEError(err)
	}
	return b, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
