package led

// FakeSetter records LED states for test assertions.
type FakeSetter struct {
	// Link and Fix hold the most recent levels.
	Link bool
	Fix  bool

	// Sets counts Set calls.
	Sets int

	// Closed tracks if Close was called.
	Closed bool

	// SetError, if set, will be returned by Set.
	SetError error
}

// NewFakeSetter creates a FakeSetter with both LEDs dark.
func NewFakeSetter() *FakeSetter {
	return &FakeSetter{}
}

// Set records the levels.
func (f *FakeSetter) Set(link, fix bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Link = link
	f.Fix = fix
	f.Sets++
	return nil
}

// Close marks the setter as closed.
func (f *FakeSetter) Close() error {
	f.Closed = true
	return nil
}
