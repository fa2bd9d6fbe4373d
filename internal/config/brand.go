package config

import "fmt"

// Brand is the white-label identity the portal and POS render under.
// One brand is selected by BRAND_ID at startup and never changes while
// the process runs.
type Brand struct {
	ID          string
	DisplayName string
	SupportMail string
}

const DefaultBrandID = "panpanocha"

var brands = map[string]Brand{
	"panpanocha": {
		ID:          "panpanocha",
		DisplayName: "PanPanocha",
		SupportMail: "soporte@panpanocha.com",
	},
	"whitelabel": {
		ID:          "whitelabel",
		DisplayName: "POS Suite",
		SupportMail: "support@example.com",
	},
}

func BrandByID(id string) (Brand, error) {
	if id == "" {
		id = DefaultBrandID
	}
	brand, ok := brands[id]
	if !ok {
		return Brand{}, fmt.Errorf("unknown brand id: %s", id)
	}
	return brand, nil
}
