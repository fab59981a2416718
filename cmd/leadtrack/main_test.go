package main

import (
	"errors"
	"os"
	"testing"
)

func TestReadPassphrase_RequiresTerminal(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	w.WriteString("secret\n")
	w.Close()

	got, err := readPassphrase(r, "Passphrase: ")
	if !errors.Is(err, errNoTerminal) {
		t.Errorf("readPassphrase() error = %v, want %v", err, errNoTerminal)
	}
	if got != "" {
		t.Errorf("readPassphrase() = %q, want empty", got)
	}
}
