package ledger

import (
	"context"

	sheetstore "github.com/ideamans/go-sheetstore"
)

// SettingsRange names the single row holding the company settings
const SettingsRange = "RANGECOMPANYSETTINGS"

// Settings is the company profile shown on documents and the dashboard
type Settings struct {
	CompanyName string `json:"companyName" yaml:"company_name"`
	Address     string `json:"address" yaml:"address"`
	Contact     string `json:"contact" yaml:"contact"`
	LogoURL     string `json:"logoUrl" yaml:"logo_url"`
}

// GetSettings reads the settings row. An empty range yields empty settings.
func GetSettings(ctx context.Context, client *sheetstore.Client) (*Settings, error) {
	rows, err := client.ReadRaw(ctx, SettingsRange)
	if err != nil {
		return nil, err
	}
	s := &Settings{}
	if len(rows) == 0 {
		return s, nil
	}

	row := rows[0]
	cell := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	s.CompanyName = cell(0)
	s.Address = cell(1)
	s.Contact = cell(2)
	s.LogoURL = cell(3)
	return s, nil
}

// UpdateSettings overwrites the settings row
func UpdateSettings(ctx context.Context, client *sheetstore.Client, s Settings) error {
	return client.Update(ctx, SettingsRange, []interface{}{s.CompanyName, s.Address, s.Contact, s.LogoURL})
}
