package vaultloader

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap"
)

func TestLoadVaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vaults.txt")
	data := "# treasury\n" +
		"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed\n" +
		"\n" +
		"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359\n" +
		"0x5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED\n" +
		"vault.eth\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := LoadVaults(path, zap.NewNop())
	if err != nil {
		t.Fatalf("LoadVaults: %v", err)
	}
	want := []string{
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestLoadVaultsMissingFile(t *testing.T) {
	if _, err := LoadVaults(filepath.Join(t.TempDir(), "missing.txt"), zap.NewNop()); err == nil {
		t.Fatal("expected an error")
	}
}

func TestLoadVaultsJSONArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vaults.json")
	data := `
  ["0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
   "vault.eth",
   "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
   "0x5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED"]`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := LoadVaults(path, zap.NewNop())
	if err != nil {
		t.Fatalf("LoadVaults: %v", err)
	}
	want := []string{
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestLoadVaultsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vaults.json")
	if err := os.WriteFile(path, []byte(`["0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",`), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadVaults(path, zap.NewNop()); err == nil {
		t.Fatal("expected a decode error")
	}
}
