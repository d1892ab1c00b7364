package basesig

import "testing"

func TestSignVerifyRoundtrip(t *testing.T) {
	seed := make([]byte, SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}
	pk, err := GenerateFromSeed(seed)
	if err != nil {
		t.Fatalf("GenerateFromSeed: %v", err)
	}
	pub := pk.Public()
	msg := []byte("hello, kes")
	sig := pk.Sign(msg)
	if !pub.Verify(msg, sig) {
		t.Fatal("valid signature failed to verify")
	}
	if pub.Verify([]byte("tampered"), sig) {
		t.Fatal("signature verified against the wrong message")
	}
}

func TestGenerateFromSeedRejectsWrongSize(t *testing.T) {
	if _, err := GenerateFromSeed(make([]byte, SeedSize-1)); err != ErrSeedSize {
		t.Fatalf("got %v, want ErrSeedSize", err)
	}
}

func TestDeterministic(t *testing.T) {
	seed := make([]byte, SeedSize)
	pk1, _ := GenerateFromSeed(seed)
	pk2, _ := GenerateFromSeed(seed)
	if pk1.Public() != pk2.Public() {
		t.Fatal("same seed produced different public keys")
	}
	if pk1.Sign([]byte("x")) != pk2.Sign([]byte("x")) {
		t.Fatal("same seed produced different signatures")
	}
}
