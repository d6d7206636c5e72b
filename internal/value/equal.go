package value

// Equal reports whether two Values are deep-structurally equal.
//
// Rules:
//   - Primitive variants (Null, String, Int, Bool) compare by identity.
//   - Lists compare element-wise in order; order is significant.
//   - Maps compare by key set and pairwise value equality; key order is
//     irrelevant.
//   - Values of different variant kind are never equal.
//
// The relation is symmetric and terminates on acyclic content. Narrative
// content is acyclic by construction, so no cycle detection is performed.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Int:
		bv, ok := b.(Int)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Map:
		bv, ok := b.(Map)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			other, present := bv[k]
			if !present || !Equal(v, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
