package meter

// Meter is a physical gas-metering device linked to a user account. The
// client only ever reads meters belonging to the authenticated caller; it
// never creates or deletes them.
type Meter struct {
	ID             string `json:"id"`
	DeviceID       string `json:"deviceId"`
	Status         string `json:"status"`
	UserID         string `json:"userId"`
	ValveStatus    bool   `json:"valveStatus"`
	MeterNumber    string `json:"meterNumber"`
	EstateID       string `json:"estateId"`
	HouseNumber    string `json:"houseNumber"`
	EstateName     string `json:"estateName,omitempty"`
	AvailableGasKg string `json:"availableGasKg,omitempty"`
	CreatedAt      string `json:"createdAt,omitempty"`
	UpdatedAt      string `json:"updatedAt,omitempty"`
}

// IDs returns the ids of the given meters in server order.
func IDs(meters []Meter) []string {
	ids := make([]string, 0, len(meters))
	for _, m := range meters {
		ids = append(ids, m.ID)
	}
	return ids
}
