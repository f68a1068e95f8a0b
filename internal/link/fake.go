package link

// FakeLink is a scriptable Link for tests.
type FakeLink struct {
	// Up controls what Connected reports.
	Up bool

	// Addr is returned by LocalAddr while Up.
	Addr string

	// AssociateCalls records the credentials of each Associate call.
	AssociateCalls []Credentials

	// DisconnectCalls counts Disconnect calls.
	DisconnectCalls int
}

// NewFakeLink creates a FakeLink that starts down.
func NewFakeLink() *FakeLink {
	return &FakeLink{Addr: "192.168.1.50"}
}

// Associate records the attempt. The fake does not come up by itself — tests
// set Up explicitly to simulate association completing.
func (f *FakeLink) Associate(ssid, secret string) {
	f.AssociateCalls = append(f.AssociateCalls, Credentials{SSID: ssid, Secret: secret})
}

// Connected reports the scripted state.
func (f *FakeLink) Connected() bool {
	return f.Up
}

// Disconnect records the call and takes the fake down.
func (f *FakeLink) Disconnect() {
	f.DisconnectCalls++
	f.Up = false
}

// LocalAddr returns the scripted address while up.
func (f *FakeLink) LocalAddr() string {
	if !f.Up {
		return ""
	}
	return f.Addr
}
