package items

// Item is a catalogue entry.
type Item struct {
	ID       string  `json:"id"       doc:"Unique identifier" example:"item-001"`
	Name     string  `json:"name"     doc:"Display name"      example:"Alpha Widget"`
	Category string  `json:"category" doc:"Item category"     example:"electronics"`
	Price    float64 `json:"price"    doc:"Price in USD"      example:"29.99"`
	InStock  bool    `json:"inStock"  doc:"Availability"      example:"true"`
}

var catalogue = []Item{
	{ID: "item-001", Name: "Alpha Widget", Category: "electronics", Price: 29.99, InStock: true},
	{ID: "item-002", Name: "Beta Gadget", Category: "electronics", Price: 49.50, InStock: true},
	{ID: "item-003", Name: "Gamma Wrench", Category: "tools", Price: 15.00, InStock: false},
	{ID: "item-004", Name: "Delta Cable", Category: "accessories", Price: 7.25, InStock: true},
	{ID: "item-005", Name: "Epsilon Servo", Category: "robotics", Price: 89.00, InStock: true},
	{ID: "item-006", Name: "Zeta Battery", Category: "power", Price: 19.99, InStock: true},
	{ID: "item-007", Name: "Eta Relay", Category: "components", Price: 3.40, InStock: false},
	{ID: "item-008", Name: "Theta Board", Category: "electronics", Price: 64.00, InStock: true},
	{ID: "item-009", Name: "Iota Pliers", Category: "tools", Price: 12.75, InStock: true},
	{ID: "item-010", Name: "Kappa Charger", Category: "power", Price: 24.00, InStock: true},
	{ID: "item-011", Name: "Lambda Motor", Category: "robotics", Price: 120.00, InStock: false},
	{ID: "item-012", Name: "Mu Adapter", Category: "accessories", Price: 5.99, InStock: true},
}
