package timesync

import (
	"errors"
	"time"
)

// FakeSource is a scriptable Source for tests.
type FakeSource struct {
	// Time is returned by Query while Err is nil.
	Time time.Time

	// Err, if set, makes Query fail.
	Err error

	// Queries counts Query calls.
	Queries int
}

// NewFakeSource creates a source that fails until scripted otherwise.
func NewFakeSource() *FakeSource {
	return &FakeSource{Err: errors.New("no reply")}
}

// Succeed scripts the source to answer with t from now on.
func (f *FakeSource) Succeed(t time.Time) {
	f.Time = t
	f.Err = nil
}

// Fail scripts the source to fail from now on.
func (f *FakeSource) Fail() {
	f.Err = errors.New("no reply")
}

// Query returns the scripted outcome.
func (f *FakeSource) Query() (time.Time, error) {
	f.Queries++
	if f.Err != nil {
		return time.Time{}, f.Err
	}
	return f.Time, nil
}
