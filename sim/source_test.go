package sim

import "testing"

func TestConstantMasksToRange(t *testing.T) {
	src := Constant(0xF123)
	if v := src(0); v != 0x123 {
		t.Errorf("Expected 0x123, got %#x", v)
	}
	if v := src(999); v != 0x123 {
		t.Errorf("Expected level to ignore time, got %#x", v)
	}
}

func TestSineSweep(t *testing.T) {
	src := Sine(2048, 1000, 1000)
	if v := src(0); v != 2048 {
		t.Errorf("Expected midpoint at phase zero, got %d", v)
	}
	quarter := src(250)
	if quarter < 3046 || quarter > 3048 {
		t.Errorf("Expected peak near 3048, got %d", quarter)
	}
	threeQ := src(750)
	if threeQ < 1048 || threeQ > 1050 {
		t.Errorf("Expected trough near 1048, got %d", threeQ)
	}
	if v := src(1250); v != quarter {
		t.Errorf("Expected periodic repeat, got %d and %d", quarter, v)
	}
}

func TestTriangleSweep(t *testing.T) {
	src := Triangle(2000, 500, 800)
	if v := src(0); v != 1500 {
		t.Errorf("Expected trough at phase zero, got %d", v)
	}
	if v := src(400); v != 2500 {
		t.Errorf("Expected peak at half period, got %d", v)
	}
	mid := src(200)
	if mid < 1999 || mid > 2001 {
		t.Errorf("Expected midpoint on the rising edge, got %d", mid)
	}
}

func TestSourceClamping(t *testing.T) {
	high := Sine(4000, 1000, 100)
	low := Sine(100, 1000, 100)
	if v := high(25); v != 4095 {
		t.Errorf("Expected clamp at full scale, got %d", v)
	}
	if v := low(75); v != 0 {
		t.Errorf("Expected clamp at zero, got %d", v)
	}
}
