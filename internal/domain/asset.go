package domain

// Asset is a rentable listing. Assets are never deleted; an owner can
// only soft-disable one by flipping Available off. An asset whose Owner
// is empty does not exist.
type Asset struct {
	ID           int64  `json:"id"`
	Owner        string `json:"owner"`
	PricePerHour int64  `json:"price_per_hour"` // smallest currency unit, always > 0
	Available    bool   `json:"available"`
	CreatedAt    int64  `json:"created_at"`
}

func (a *Asset) Exists() bool {
	return a != nil && a.Owner != ""
}
