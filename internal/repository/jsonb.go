package repository

import "encoding/json"

// toJSONB marshals a list-valued field for a JSONB column, normalizing nil to
// an empty array so reads never produce null.
func toJSONB(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return []byte("[]")
	}
	return b
}

func fromJSONB(data []byte, dst any) {
	if len(data) == 0 {
		return
	}
	_ = json.Unmarshal(data, dst)
}
