package domain

type Device struct {
	Record
	Hostname    string  `db:"hostname" json:"hostname"`
	AssetNumber string  `db:"asset_number" json:"asset_number"`
	IPv4Address *string `db:"ipv4_address" json:"ipv4_address,omitempty"`
	IPv6Address *string `db:"ipv6_address" json:"ipv6_address,omitempty"`
	MACAddress  *string `db:"mac_address" json:"mac_address,omitempty"`
	Description *string `db:"description" json:"description,omitempty"`
	BrandID     int64   `db:"brand_id" json:"brand_id"`
	CategoryID  int64   `db:"category_id" json:"category_id"`
}

func (Device) Table() string { return "devices" }

func (Device) Columns() []string {
	return []string{"hostname", "asset_number", "ipv4_address", "ipv6_address", "mac_address", "description", "brand_id", "category_id"}
}

type Brand struct {
	Record
	Name string `db:"name" json:"name"`
}

func (Brand) Table() string { return "brands" }

func (Brand) Columns() []string { return []string{"name"} }

type DeviceCategory struct {
	Record
	Name string `db:"name" json:"name"`
}

func (DeviceCategory) Table() string { return "device_categories" }

func (DeviceCategory) Columns() []string { return []string{"name"} }
