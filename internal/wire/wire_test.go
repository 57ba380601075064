package wire

import (
	"bytes"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte("hello"),
		{0, 1, 2, 3, 4},
	}
	for _, payload := range cases {
		got, err := Decode(Encode(payload))
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("payload mismatch: got %x want %x", got, payload)
		}
	}
}

func TestRejectsTrailingBytes(t *testing.T) {
	b := append(Encode([]byte("x")), 0xFF)
	if _, err := Decode(b); err == nil {
		t.Fatal("trailing byte accepted")
	}
}

func TestRejectsBadHeader(t *testing.T) {
	good := Encode([]byte("payload"))

	cases := map[string][]byte{
		"short":     good[:5],
		"bad magic": append([]byte("XXXX"), good[4:]...),
		"bad ver":   append(append([]byte{}, good[:4]...), append([]byte{99}, good[5:]...)...),
		"truncated": good[:len(good)-2],
	}
	for name, b := range cases {
		if _, err := Decode(b); err == nil {
			t.Fatalf("%s accepted", name)
		}
	}
}

func TestRejectsLengthMismatch(t *testing.T) {
	b := Encode([]byte("abcdef"))
	b[9] = 2 // declared length no longer matches actual payload
	if _, err := Decode(b); err == nil {
		t.Fatal("length mismatch accepted")
	}
}
