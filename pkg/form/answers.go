package form

// AnswerSet maps question ids to answer values. Ratings are stored as their
// decimal string, text answers verbatim.
type AnswerSet map[string]string

// Get returns the value for id and whether it holds a non-empty answer.
func (a AnswerSet) Get(id string) (string, bool) {
	if a == nil {
		return "", false
	}
	v, ok := a[id]
	return v, ok && v != ""
}

// Answered reports whether id has a non-empty answer.
func (a AnswerSet) Answered(id string) bool {
	_, ok := a.Get(id)
	return ok
}

// Clone returns an independent copy. A nil set clones to an empty one.
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
