package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

// ErrNotObject is returned for documents whose root is not a JSON object
var ErrNotObject = errors.New("state root must be an object")

// EncodeState serializes a state document
func EncodeState(s models.GridState) ([]byte, error) {
	return json.Marshal(s)
}

// DecodeState parses a partial state document. Absent keys stay absent.
func DecodeState(data []byte) (models.GridState, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return models.GridState{}, ErrNotObject
		}
		return models.GridState{}, fmt.Errorf("invalid state document: %w", err)
	}
	if root == nil {
		return models.GridState{}, ErrNotObject
	}

	var s models.GridState
	if err := json.Unmarshal(data, &s); err != nil {
		return models.GridState{}, fmt.Errorf("invalid state document: %w", err)
	}
	return s, nil
}

// ExportState writes an indented state document
func ExportState(w io.Writer, s models.GridState) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// ImportState reads a state document written by ExportState or by hand
func ImportState(r io.Reader) (models.GridState, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return models.GridState{}, err
	}
	return DecodeState(data)
}
