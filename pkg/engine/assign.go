package engine

// assign searches for a one-to-one pairing of slots with candidates. Slots
// are visited in order; for each slot the unused candidates are tried in
// index order.
//
// try attempts to pair a slot with a candidate. When the pairing holds it
// must call next, which continues with the remaining slots, and return its
// result; if next fails, try may look for another way to make the same
// pairing hold before giving up, and must leave no state behind when it
// returns false. Once every slot is paired, done decides whether the
// complete pairing is accepted; a rejection resumes the search.
//
// On success the returned slice maps each slot to its candidate.
func assign(order []int, candidates int, try func(slot, candidate int, next func() bool) bool, done func() bool) ([]int, bool) {
	if len(order) != candidates {
		return nil, false
	}

	pairing := make([]int, len(order))
	used := make([]bool, candidates)

	var search func(k int) bool
	search = func(k int) bool {
		if k == len(order) {
			return done()
		}
		slot := order[k]

		for c := 0; c < candidates; c++ {
			if used[c] {
				continue
			}
			used[c] = true
			pairing[slot] = c
			if try(slot, c, func() bool { return search(k + 1) }) {
				return true
			}
			used[c] = false
		}
		return false
	}

	if !search(0) {
		return nil, false
	}
	return pairing, true
}
