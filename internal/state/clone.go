package state

import "encoding/json"

// Clone returns a deep copy of s. The machine never mutates its input;
// every branch of transit starts from a clone so that a caller holding
// the previous snapshot (e.g. for a persistence rollback) is never
// surprised by an in-place mutation.
func (s *ProjectState) Clone() *ProjectState {
	if s == nil {
		return nil
	}
	// A deep-copy-via-JSON round trip is the simplest correct way to
	// clone a tree this shape without hand-maintaining a copy for every
	// nested slice and map as fields are added.
	raw, err := json.Marshal(s)
	if err != nil {
		panic("state: Clone: marshal: " + err.Error())
	}
	var out ProjectState
	if err := json.Unmarshal(raw, &out); err != nil {
		panic("state: Clone: unmarshal: " + err.Error())
	}
	return &out
}
