package utils

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"
)

func TestRandomInt(t *testing.T) {
	_, err := RandomInt(0)
	if err == nil {
		t.Error("RandomInt(0) should fail")
	}

	val, err := RandomInt(1)
	if err != nil {
		t.Errorf("RandomInt(1) failed: %v", err)
	}
	if val != 0 {
		t.Errorf("RandomInt(1) should return 0, got %d", val)
	}

	var max int64 = 100
	for i := 0; i < 1000; i++ {
		val, err := RandomInt(max)
		if err != nil {
			t.Fatalf("RandomInt failed: %v", err)
		}
		if val < 0 || val >= max {
			t.Errorf("RandomInt returned value out of range: %d", val)
		}
	}
}

func TestRandomIntRange(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 2000; i++ {
		v, err := RandomIntRange(RandReader, 7, 11)
		if err != nil {
			t.Fatal(err)
		}
		if v < 7 || v > 11 {
			t.Fatalf("value %d out of range [7, 11]", v)
		}
		seen[v] = true
	}
	if len(seen) != 5 {
		t.Errorf("expected all 5 values to appear, saw %d", len(seen))
	}

	if _, err := RandomIntRange(RandReader, 5, 4); err == nil {
		t.Error("RandomIntRange should reject an empty range")
	}

	v, err := RandomIntRange(RandReader, 8, 8)
	if err != nil || v != 8 {
		t.Errorf("RandomIntRange(8, 8) = %d, %v", v, err)
	}
}

func TestRandomIntFrom_ShortReader(t *testing.T) {
	_, err := RandomIntFrom(bytes.NewReader(nil), 100)
	if err == nil {
		t.Error("expected error from exhausted reader")
	}
}

func TestSecureRandomBytes_RandError(t *testing.T) {
	old := RandReader
	RandReader = &errorReader{}
	defer func() { RandReader = old }()

	if _, err := SecureRandomBytes(32); err == nil {
		t.Error("expected error from rand failure")
	}
	if _, err := RandomInt(10); err == nil {
		t.Error("expected error from rand failure")
	}
}

func TestShakeReader_Deterministic(t *testing.T) {
	seed := []byte("classroom seed for testing")
	a := make([]byte, 64)
	b := make([]byte, 64)
	if _, err := io.ReadFull(NewShakeReader(DomainKeygen, seed), a); err != nil {
		t.Fatal(err)
	}
	if _, err := io.ReadFull(NewShakeReader(DomainKeygen, seed), b); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("same seed produced different streams")
	}

	c := make([]byte, 64)
	if _, err := io.ReadFull(NewShakeReader("other-domain", seed), c); err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a, c) {
		t.Error("different domains produced identical streams")
	}
}

func TestHashWithDomain(t *testing.T) {
	data := []byte("143:7")
	h1 := HashWithDomain("a", data)
	h2 := HashWithDomain("b", data)
	if len(h1) != 32 {
		t.Errorf("expected 32-byte hash, got %d", len(h1))
	}
	if bytes.Equal(h1, h2) {
		t.Error("domain separation failed")
	}
	if bytes.Equal(SHA3256(data), h1) {
		t.Error("domain hash should differ from plain hash")
	}
}

func TestHashWithDomain_LongDomainPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for oversized domain")
		}
	}()
	HashWithDomain(string(make([]byte, 256)), nil)
}

func TestValidateSeed(t *testing.T) {
	if err := ValidateSeed([]byte("short")); err == nil {
		t.Error("ValidateSeed should reject short seeds")
	}
	if err := ValidateSeed(make([]byte, 32)); err == nil {
		t.Error("ValidateSeed should reject all zeros")
	}
	good, _ := SecureRandomBytes(32)
	if err := ValidateSeed(good); err != nil {
		t.Errorf("ValidateSeed rejected good seed: %v", err)
	}
}

func TestSafeMultiply(t *testing.T) {
	v, err := SafeMultiply(97, 89)
	if err != nil || v != 8633 {
		t.Errorf("SafeMultiply(97, 89) = %d, %v", v, err)
	}
	if v, err := SafeMultiply(0, 5); err != nil || v != 0 {
		t.Errorf("SafeMultiply(0, 5) = %d, %v", v, err)
	}
	if _, err := SafeMultiply(math.MaxInt64, 2); !errors.Is(err, ErrOverflow) {
		t.Errorf("expected ErrOverflow, got %v", err)
	}
	if _, err := SafeMultiply(-1, 2); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestCheckRange(t *testing.T) {
	if err := CheckRange(5, 1, 10, "x"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := CheckRange(11, 1, 10, "x"); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
	if err := CheckPositive(0, "n"); err == nil {
		t.Error("CheckPositive(0) should fail")
	}
}

type errorReader struct{}

func (e *errorReader) Read(p []byte) (n int, err error) {
	return 0, errors.New("simulated rand error")
}
