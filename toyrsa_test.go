package toyrsa_test

import (
	"math"
	"testing"

	toyrsa "github.com/BackendStack21/toyrsa-go"
	"github.com/BackendStack21/toyrsa-go/alphabet"
	"github.com/BackendStack21/toyrsa-go/attack"
	"github.com/BackendStack21/toyrsa-go/cipher"
	"github.com/BackendStack21/toyrsa-go/core"
	"github.com/BackendStack21/toyrsa-go/keygen"
)

func TestCiphertextString(t *testing.T) {
	if s := (toyrsa.Ciphertext{6, 57, 0}).String(); s != "6 57 0" {
		t.Errorf("String() = %q", s)
	}
	if s := toyrsa.Ciphertext(nil).String(); s != "" {
		t.Errorf("empty String() = %q", s)
	}
}

func TestKeyPairHalves(t *testing.T) {
	kp := toyrsa.KeyPair{P: 11, Q: 13, N: 143, Phi: 120, E: 7, D: 103}
	if pk := kp.Public(); pk.E != 7 || pk.N != 143 {
		t.Errorf("Public() = %+v", pk)
	}
	if sk := kp.Private(); sk.D != 103 || sk.N != 143 {
		t.Errorf("Private() = %+v", sk)
	}
}

func TestNoCandidate(t *testing.T) {
	res := toyrsa.NoCandidate(toyrsa.StrategyExhaustive)
	if res.Found || !math.IsInf(res.MSE, 1) || res.Plaintext != "" || res.Stop != toyrsa.StopExhausted {
		t.Errorf("NoCandidate = %+v", res)
	}
}

// TestEndToEnd follows the full data flow: keys, encryption, then a
// ciphertext-only attack that sees only (e, n).
func TestEndToEnd(t *testing.T) {
	params := core.DefaultParams()
	message := "Meet me at the train station at noon today"

	for i := 0; i < 10; i++ {
		kp, err := keygen.GenerateKeyPair(params.MinPrime, params.MaxPrime)
		if err != nil {
			t.Fatalf("GenerateKeyPair failed: %v", err)
		}
		ct, err := cipher.Encrypt(message, kp.E, kp.N)
		if err != nil {
			t.Fatalf("Encrypt failed: %v", err)
		}

		plain, err := cipher.Decrypt(ct, kp.D, kp.N)
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}
		if plain != alphabet.Normalize(message) {
			t.Fatalf("Decrypt = %q", plain)
		}

		pub := kp.Public()
		res, err := attack.PhiRestricted(ct, pub.E, pub.N, params.AttemptCap, params.MSEThreshold)
		if err != nil {
			t.Fatalf("PhiRestricted failed: %v", err)
		}
		if res.Plaintext != plain {
			t.Fatalf("key %+v: attack recovered %q", kp, res.Plaintext)
		}
	}
}
