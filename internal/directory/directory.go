// Package directory resolves company names to exchange symbols from the
// NSE listing file.
package directory

import (
	"fmt"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
)

// Company is one listing row. Column headers follow the NSE equity list.
type Company struct {
	Name     string `csv:"Company Name"`
	Industry string `csv:"Industry"`
	Symbol   string `csv:"Symbol"`
}

// Directory is the loaded listing, indexed for lookup both ways.
type Directory struct {
	companies []Company
	bySymbol  map[string]Company
}

// Load reads the listing CSV. A missing or unparsable file is a
// configuration error.
func Load(path string) (*Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open company listing: %w", err)
	}
	defer f.Close()

	var companies []Company
	if err := gocsv.UnmarshalFile(f, &companies); err != nil {
		return nil, fmt.Errorf("failed to parse company listing: %w", err)
	}

	d := &Directory{companies: companies, bySymbol: make(map[string]Company, len(companies))}
	for _, c := range companies {
		d.bySymbol[strings.ToUpper(c.Symbol)] = c
	}
	return d, nil
}

// Resolve maps user input to a listed company. It accepts an exact symbol
// first, then falls back to a case-insensitive substring match on the
// company name.
func (d *Directory) Resolve(query string) (Company, bool) {
	if c, ok := d.bySymbol[strings.ToUpper(strings.TrimSpace(query))]; ok {
		return c, true
	}
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return Company{}, false
	}
	for _, c := range d.companies {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			return c, true
		}
	}
	return Company{}, false
}

// Name returns the display name for a symbol, or the symbol itself when the
// listing has no entry.
func (d *Directory) Name(symbol string) string {
	if c, ok := d.bySymbol[strings.ToUpper(symbol)]; ok && c.Name != "" {
		return c.Name
	}
	return symbol
}

// Symbols returns every listed symbol in file order.
func (d *Directory) Symbols() []string {
	out := make([]string, 0, len(d.companies))
	for _, c := range d.companies {
		out = append(out, c.Symbol)
	}
	return out
}
