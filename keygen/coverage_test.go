package keygen

import "testing"

func TestValidate_PrivateExponentRange(t *testing.T) {
	kp, err := FromPrimes(11, 13, 7)
	if err != nil {
		t.Fatal(err)
	}
	// -17 and 223 are both congruent to d = 103 mod 120.
	for _, d := range []int64{-17, 223, kp.Phi} {
		bad := *kp
		bad.D = d
		if err := Validate(&bad); err == nil {
			t.Errorf("d = %d should be rejected", d)
		}
	}
}
