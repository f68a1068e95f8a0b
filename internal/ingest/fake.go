package ingest

// FakeSource yields scripted line batches. Each Poll consumes one batch;
// when the script is exhausted, Poll returns nil.
type FakeSource struct {
	// Batches contains the scripted batches, consumed in order.
	Batches [][]string

	// Closed tracks if Close was called.
	Closed bool

	index int
}

// NewFakeSource creates a FakeSource with the given batches.
func NewFakeSource(batches ...[]string) *FakeSource {
	return &FakeSource{Batches: batches}
}

// Push appends another batch to the script.
func (f *FakeSource) Push(lines ...string) {
	f.Batches = append(f.Batches, lines)
}

// Poll returns the next scripted batch.
func (f *FakeSource) Poll() []string {
	if f.index >= len(f.Batches) {
		return nil
	}
	batch := f.Batches[f.index]
	f.index++
	return batch
}

// Close marks the source as closed.
func (f *FakeSource) Close() error {
	f.Closed = true
	return nil
}
