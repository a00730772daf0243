package domain

// OwnerKind tags which entity kind an asset number belongs to.
type OwnerKind string

const (
	OwnerDevice OwnerKind = "device"
)

// AssetNumber maps one globally unique number to its owner record. The
// namespace spans every owner kind: two devices, or a device and any future
// owner kind, can never share a number.
type AssetNumber struct {
	Record
	Number    string    `db:"number" json:"number"`
	OwnerKind OwnerKind `db:"owner_kind" json:"owner_kind"`
	OwnerID   int64     `db:"owner_id" json:"owner_id"`
}

func (AssetNumber) Table() string { return "asset_numbers" }

func (AssetNumber) Columns() []string { return []string{"number", "owner_kind", "owner_id"} }
