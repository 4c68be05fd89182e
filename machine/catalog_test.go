package machine

import "testing"

func TestCatalogStandardRpns(t *testing.T) {
	c := NewControllerCatalog()
	for lsb := uint8(0); lsb <= 5; lsb++ {
		if !c.RpnEnabled(0, lsb) {
			t.Errorf("rpn 0/%d should be enabled", lsb)
		}
	}
	if c.RpnEnabled(0, 6) || c.RpnEnabled(1, 0) {
		t.Errorf("non standard rpn enabled")
	}
	for addr := range c.EnabledNrpns {
		if c.EnabledNrpns[addr] {
			t.Fatalf("nrpn %d enabled by default", addr)
		}
	}
}

func TestCatalogNrpnOptIn(t *testing.T) {
	c := NewControllerCatalog()
	c.EnableNrpn(10, 20)
	if !c.NrpnEnabled(10, 20) || c.NrpnEnabled(10, 21) {
		t.Errorf("enable nrpn 10/20")
	}
	c.EnableAllNrpnMsbs()
	for msb := uint8(0); msb < 128; msb++ {
		if !c.NrpnEnabled(msb, 0) {
			t.Fatalf("nrpn %d/0 not enabled", msb)
		}
	}
	if c.NrpnEnabled(5, 1) {
		t.Errorf("enable all msbs should only touch lsb 0")
	}
}

func TestCatalogsAreIndependent(t *testing.T) {
	a, b := NewMidi1Machine(), NewMidi1Machine()
	a.Catalog.EnableRpn(0, 7)
	if b.Catalog.RpnEnabled(0, 7) {
		t.Errorf("catalogs share state")
	}
	if !NewControllerCatalog().RpnEnabled(0, 0) {
		t.Errorf("defaults changed")
	}
}
