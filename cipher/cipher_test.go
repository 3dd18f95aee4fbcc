package cipher

import (
	"errors"
	"testing"

	toyrsa "github.com/BackendStack21/toyrsa-go"
	"github.com/BackendStack21/toyrsa-go/alphabet"
	"github.com/BackendStack21/toyrsa-go/keygen"
)

func TestEncrypt_TextbookExample(t *testing.T) {
	ct, err := Encrypt("HI", 7, 143)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if len(ct) != 2 || ct[0] != 6 || ct[1] != 57 {
		t.Fatalf("Encrypt(HI) = %v, want [6 57]", ct)
	}
	if ct.String() != "6 57" {
		t.Errorf("String() = %q", ct.String())
	}

	plain, err := Decrypt(ct, 103, 143)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if plain != "HI" {
		t.Errorf("Decrypt = %q, want HI", plain)
	}
}

func TestEncrypt_Normalizes(t *testing.T) {
	ct, err := Encrypt("  hello,   world! ", 7, 143)
	if err != nil {
		t.Fatal(err)
	}
	want := toyrsa.Ciphertext{6, 82, 132, 132, 53, 104, 22, 53, 30, 132, 42}
	if ct.String() != want.String() {
		t.Errorf("Encrypt = %v, want %v", ct, want)
	}
}

func TestRoundTrip_RandomKeys(t *testing.T) {
	texts := []string{
		"THE QUICK BROWN FOX",
		"attack at dawn",
		"A",
		"",
		"zebra  quiz  JUMPS",
	}
	for i := 0; i < 50; i++ {
		kp, err := keygen.GenerateKeyPair(7, 97)
		if err != nil {
			t.Fatal(err)
		}
		for _, text := range texts {
			ct, err := Encrypt(text, kp.E, kp.N)
			if err != nil {
				t.Fatalf("Encrypt failed: %v", err)
			}
			for _, c := range ct {
				if c < 0 || c >= kp.N {
					t.Fatalf("token %d outside [0, %d)", c, kp.N)
				}
			}
			plain, err := Decrypt(ct, kp.D, kp.N)
			if err != nil {
				t.Fatalf("Decrypt failed: %v", err)
			}
			if plain != alphabet.Normalize(text) {
				t.Fatalf("key %+v: round trip of %q gave %q", kp, text, plain)
			}
		}
	}
}

func TestEncrypt_ModulusTooSmall(t *testing.T) {
	if _, err := Encrypt("HI", 5, 21); !errors.Is(err, toyrsa.ErrModulusTooSmall) {
		t.Errorf("expected ErrModulusTooSmall, got %v", err)
	}
	if _, err := Decrypt(toyrsa.Ciphertext{1}, 5, 21); !errors.Is(err, toyrsa.ErrModulusTooSmall) {
		t.Errorf("expected ErrModulusTooSmall, got %v", err)
	}
	if _, err := Encrypt("HI", -1, 143); err == nil {
		t.Error("negative exponent should be rejected")
	}
}

func TestDecrypt_WrongKeyUsesPlaceholder(t *testing.T) {
	ct, _ := Encrypt("HELLO", 7, 143)
	plain, err := Decrypt(ct, 7, 143)
	if err != nil {
		t.Fatal(err)
	}
	if len(plain) != 5 {
		t.Errorf("decoded length = %d, want 5", len(plain))
	}
}

func TestParseCiphertext(t *testing.T) {
	ct, skipped := ParseCiphertext(" 6, 57\t x 12abc\n104,,3 ")
	if ct.String() != "6 57 104 3" {
		t.Errorf("parsed %v", ct)
	}
	if len(skipped) != 2 {
		t.Fatalf("skipped %d tokens, want 2", len(skipped))
	}
	if skipped[0].Token != "x" || skipped[0].Index != 2 {
		t.Errorf("unexpected skip %+v", skipped[0])
	}
	if !errors.Is(skipped[1], toyrsa.ErrInvalidCiphertextToken) {
		t.Errorf("skip should wrap ErrInvalidCiphertextToken: %v", skipped[1])
	}

	ct, skipped = ParseCiphertext("")
	if len(ct) != 0 || len(skipped) != 0 {
		t.Error("empty input should parse to nothing")
	}
}

func TestDecryptString(t *testing.T) {
	plain, skipped, err := DecryptString("6 oops 57", 103, 143)
	if err != nil {
		t.Fatal(err)
	}
	if plain != "HI" {
		t.Errorf("DecryptString = %q, want HI", plain)
	}
	if len(skipped) != 1 {
		t.Errorf("skipped = %v", skipped)
	}
}

func TestTokenHistogram(t *testing.T) {
	h := TokenHistogram(toyrsa.Ciphertext{104, 6, 104, 53, 6, 104, 100})
	wantLabels := []string{"6", "53", "100", "104"}
	wantCounts := []int{2, 1, 1, 3}
	if len(h.Labels) != len(wantLabels) {
		t.Fatalf("labels = %v", h.Labels)
	}
	for i := range wantLabels {
		if h.Labels[i] != wantLabels[i] || h.Counts[i] != wantCounts[i] {
			t.Errorf("bin %d = %s:%d, want %s:%d", i, h.Labels[i], h.Counts[i], wantLabels[i], wantCounts[i])
		}
	}
	if h := TokenHistogram(nil); len(h.Labels) != 0 {
		t.Error("empty ciphertext should give an empty histogram")
	}
}
