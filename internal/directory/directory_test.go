package directory

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleListing = `Company Name,Industry,Symbol
Tata Consultancy Services Limited,Information Technology,TCS
Infosys Limited,Information Technology,INFY
HDFC Bank Limited,Financial Services,HDFCBANK
`

func loadSample(t *testing.T) *Directory {
	t.Helper()
	path := filepath.Join(t.TempDir(), "companies.csv")
	if err := os.WriteFile(path, []byte(sampleListing), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return d
}

func TestResolveBySymbol(t *testing.T) {
	d := loadSample(t)
	c, ok := d.Resolve("tcs")
	if !ok || c.Name != "Tata Consultancy Services Limited" {
		t.Errorf("Resolve(tcs) = %+v ok=%v", c, ok)
	}
}

func TestResolveByNameSubstring(t *testing.T) {
	d := loadSample(t)
	c, ok := d.Resolve("hdfc bank")
	if !ok || c.Symbol != "HDFCBANK" {
		t.Errorf("Resolve(hdfc bank) = %+v ok=%v", c, ok)
	}
	if _, ok := d.Resolve("no such company"); ok {
		t.Error("unknown query must not resolve")
	}
	if _, ok := d.Resolve("   "); ok {
		t.Error("blank query must not resolve")
	}
}

func TestNameFallsBackToSymbol(t *testing.T) {
	d := loadSample(t)
	if got := d.Name("INFY"); got != "Infosys Limited" {
		t.Errorf("Name(INFY) = %q", got)
	}
	if got := d.Name("UNLISTED"); got != "UNLISTED" {
		t.Errorf("Name(UNLISTED) = %q, want the symbol back", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Error("expected error for missing listing file")
	}
}

func TestSymbolsPreserveOrder(t *testing.T) {
	d := loadSample(t)
	syms := d.Symbols()
	want := []string{"TCS", "INFY", "HDFCBANK"}
	if len(syms) != len(want) {
		t.Fatalf("got %v", syms)
	}
	for i := range want {
		if syms[i] != want[i] {
			t.Errorf("symbol %d = %q, want %q", i, syms[i], want[i])
		}
	}
}
