package content

import (
	"fmt"

	"cuelang.org/go/cue/token"
)

// validateCatalog checks cross-references after all sections compiled:
// sequence node ids resolve, option ids are unique within a node,
// expectation targets and sources resolve, and schedule entries refer to
// known events. The catalog is not yet indexed at this point, so lookups
// build transient sets.
func validateCatalog(cat *Catalog, pos token.Pos) error {
	nodeIDs := make(map[string]*DecisionNode, len(cat.Nodes))
	for i := range cat.Nodes {
		n := &cat.Nodes[i]
		if _, dup := nodeIDs[n.ID]; dup {
			return &CompileError{
				Field:   "node." + n.ID,
				Message: "duplicate node id",
				Pos:     pos,
			}
		}
		nodeIDs[n.ID] = n

		seen := make(map[string]bool, len(n.Options))
		for _, opt := range n.Options {
			if seen[opt.ID] {
				return &CompileError{
					Field:   fmt.Sprintf("node.%s.options", n.ID),
					Message: fmt.Sprintf("duplicate option id %q", opt.ID),
					Pos:     pos,
				}
			}
			seen[opt.ID] = true
		}
	}

	eventIDs := make(map[string]bool, len(cat.Sequences)+len(cat.SimpleEvents))
	for _, seq := range cat.Sequences {
		eventIDs[seq.ID] = true
		for _, nodeID := range seq.Nodes {
			if _, ok := nodeIDs[nodeID]; !ok {
				return &CompileError{
					Field:   fmt.Sprintf("sequence.%s.nodes", seq.ID),
					Message: fmt.Sprintf("unknown node %q", nodeID),
					Pos:     pos,
				}
			}
		}
	}
	for _, ev := range cat.SimpleEvents {
		if eventIDs[ev.ID] {
			return &CompileError{
				Field:   "simple_event." + ev.ID,
				Message: "id collides with a sequence id",
				Pos:     pos,
			}
		}
		eventIDs[ev.ID] = true
	}

	for _, exp := range cat.Expected {
		if _, ok := nodeIDs[exp.Target]; !ok && !eventIDs[exp.Target] {
			return &CompileError{
				Field:   fmt.Sprintf("expected.%s.target", exp.ID),
				Message: fmt.Sprintf("unknown target %q", exp.Target),
				Pos:     pos,
			}
		}
		if exp.SourceNode != "" {
			node, ok := nodeIDs[exp.SourceNode]
			if !ok {
				return &CompileError{
					Field:   fmt.Sprintf("expected.%s.source.node", exp.ID),
					Message: fmt.Sprintf("unknown node %q", exp.SourceNode),
					Pos:     pos,
				}
			}
			if exp.SourceOption != "" {
				if _, ok := node.OptionByID(exp.SourceOption); !ok {
					return &CompileError{
						Field:   fmt.Sprintf("expected.%s.source.option", exp.ID),
						Message: fmt.Sprintf("node %q has no option %q", exp.SourceNode, exp.SourceOption),
						Pos:     pos,
					}
				}
			}
		}
	}

	// Authored schedule entries may point at ids outside the catalog; those
	// resolve to a diagnostic placeholder at runtime rather than failing
	// compilation. Only coordinate validity is checked here, and that
	// happened during compileSchedule.
	return nil
}
