package tracklog

// FakeStore records appended batches for test assertions.
type FakeStore struct {
	// Batches contains a copy of every batch appended.
	Batches [][]byte

	// AppendError, if set, will be returned by Append.
	AppendError error
}

// NewFakeStore creates an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

// Append records a copy of the batch.
func (f *FakeStore) Append(batch []byte) error {
	if f.AppendError != nil {
		return f.AppendError
	}
	cp := make([]byte, len(batch))
	copy(cp, batch)
	f.Batches = append(f.Batches, cp)
	return nil
}

// Writes returns the number of durable-write invocations that succeeded.
func (f *FakeStore) Writes() int {
	return len(f.Batches)
}
