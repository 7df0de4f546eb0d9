package catalog

// Bundle is a purchasable data allowance offer.
type Bundle struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	DataAmount string  `json:"data_amount"`
	Validity   string  `json:"validity"`
	Price      float64 `json:"price"`
}

// Provider is a telecom brand offering bundles.
type Provider struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Logo    string   `json:"logo"`
	Color   string   `json:"color"`
	Bundles []Bundle `json:"bundles"`
}

// The catalog is static configuration, not persisted state. Prices are in GHS.
var providers = []Provider{
	{
		ID:    "mtn",
		Name:  "MTN",
		Logo:  "/logos/mtn.png",
		Color: "#FFCB05",
		Bundles: []Bundle{
			{ID: "mtn-1gb", Name: "MTN 1GB", DataAmount: "1GB", Validity: "30 days", Price: 6.00},
			{ID: "mtn-2gb", Name: "MTN 2GB", DataAmount: "2GB", Validity: "30 days", Price: 11.00},
			{ID: "mtn-5gb", Name: "MTN 5GB", DataAmount: "5GB", Validity: "30 days", Price: 26.00},
			{ID: "mtn-10gb", Name: "MTN 10GB", DataAmount: "10GB", Validity: "30 days", Price: 48.00},
			{ID: "mtn-20gb", Name: "MTN 20GB", DataAmount: "20GB", Validity: "30 days", Price: 92.00},
		},
	},
	{
		ID:    "telecel",
		Name:  "Telecel",
		Logo:  "/logos/telecel.png",
		Color: "#E60000",
		Bundles: []Bundle{
			{ID: "telecel-1gb", Name: "Telecel 1GB", DataAmount: "1GB", Validity: "30 days", Price: 6.50},
			{ID: "telecel-2gb", Name: "Telecel 2GB", DataAmount: "2GB", Validity: "30 days", Price: 12.00},
			{ID: "telecel-5gb", Name: "Telecel 5GB", DataAmount: "5GB", Validity: "30 days", Price: 27.50},
			{ID: "telecel-10gb", Name: "Telecel 10GB", DataAmount: "10GB", Validity: "30 days", Price: 50.00},
		},
	},
	{
		ID:    "airteltigo",
		Name:  "AirtelTigo",
		Logo:  "/logos/airteltigo.png",
		Color: "#ED1C24",
		Bundles: []Bundle{
			{ID: "at-1gb", Name: "AirtelTigo 1GB", DataAmount: "1GB", Validity: "30 days", Price: 5.50},
			{ID: "at-2gb", Name: "AirtelTigo 2GB", DataAmount: "2GB", Validity: "30 days", Price: 10.00},
			{ID: "at-5gb", Name: "AirtelTigo 5GB", DataAmount: "5GB", Validity: "30 days", Price: 24.00},
			{ID: "at-10gb", Name: "AirtelTigo 10GB", DataAmount: "10GB", Validity: "30 days", Price: 45.00},
			{ID: "at-20gb", Name: "AirtelTigo 20GB", DataAmount: "20GB", Validity: "30 days", Price: 85.00},
		},
	},
}

// Providers returns all providers with their bundles.
func Providers() []Provider {
	return providers
}

// FindProvider looks up a provider by id.
func FindProvider(id string) (Provider, bool) {
	for _, p := range providers {
		if p.ID == id {
			return p, true
		}
	}
	return Provider{}, false
}

// FindBundle looks up a bundle within a provider.
func FindBundle(providerID, bundleID string) (Provider, Bundle, bool) {
	p, ok := FindProvider(providerID)
	if !ok {
		return Provider{}, Bundle{}, false
	}
	for _, b := range p.Bundles {
		if b.ID == bundleID {
			return p, b, true
		}
	}
	return Provider{}, Bundle{}, false
}
