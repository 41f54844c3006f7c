package models

import "encoding/json"

// Some endpoints return raw documents keyed by "_id" instead of "id".
// decodeWithDocID decodes data into dst and, when *id is still empty,
// fills it from "_id".
func decodeWithDocID(data []byte, dst any, id *string) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return err
	}
	if *id != "" {
		return nil
	}
	var raw struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*id = raw.ID
	return nil
}
