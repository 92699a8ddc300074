package pricing

import "testing"

func TestResolvePromo(t *testing.T) {
	tests := []struct {
		code       string
		wantStatus PromoStatus
		wantDisc   float64
	}{
		{"TELEPORT20", PromoApplied, 0.20},
		{"teleport20", PromoApplied, 0.20},
		{"  Welcome50 ", PromoApplied, 0.50},
		{"", PromoNone, 0},
		{"   ", PromoNone, 0},
		{"FREE100", PromoInvalid, 0},
		{"☃", PromoInvalid, 0},
	}
	for _, tt := range tests {
		got := ResolvePromo(tt.code)
		if got.Status != tt.wantStatus || got.Discount != tt.wantDisc {
			t.Errorf("ResolvePromo(%q) = %+v, want status %s discount %v", tt.code, got, tt.wantStatus, tt.wantDisc)
		}
	}
	if ResolvePromo("teleport20") != ResolvePromo("TELEPORT20") {
		t.Error("promo lookup should be case-insensitive")
	}
}
