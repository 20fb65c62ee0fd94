package garden

// State is a catalog element together with its persisted, per-install
// placement and visibility.
type State struct {
	Element
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Scale      float64 `json:"scale"`
	Visible    bool    `json:"visible"`
	UnlockedAt *int64  `json:"unlocked_at,omitempty"`
}
