package version

import "testing"

func TestCurrent(t *testing.T) {
	old := Dirty
	t.Cleanup(func() { Dirty = old })

	Dirty = "true"
	info := Current()
	if !info.Dirty || info.Version != Version {
		t.Fatalf("unexpected info %+v", info)
	}
	if got := info.String(); got != Version+" ("+Commit+") dirty" {
		t.Fatalf("unexpected string %q", got)
	}
}
