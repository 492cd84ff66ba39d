package ledgerv1

import (
	"encoding/json"
	"fmt"
)

// JSONCodec is the Connect codec for the ledger API. Messages are plain Go structs,
// so it replaces Connect's protobuf-backed JSON codec under the same name.
type JSONCodec struct{}

// Name is the codec name; clients send application/json.
func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("failed to decode %T: %w", msg, err)
	}
	return nil
}
