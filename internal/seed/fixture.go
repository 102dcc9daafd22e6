package seed

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/hungpv1995/blog-seeder/internal/models"
)

// rawRecord keeps fields as raw JSON so absence and type can be told apart.
type rawRecord struct {
	Title   json.RawMessage `json:"title"`
	Content json.RawMessage `json:"content"`
	UserID  json.RawMessage `json:"user_id"`
}

// LoadFixture reads a posts.json file.
func LoadFixture(path string) ([]models.PostRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	records, err := ParseFixture(data)
	var perr *ParseError
	if errors.As(err, &perr) {
		perr.Path = path
	}
	return records, err
}

// ParseFixture decodes a JSON array of post records. Every record must carry
// a string title, a string content and an integer user_id.
func ParseFixture(data []byte) ([]models.PostRecord, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, &ParseError{Err: err}
	}
	if elems == nil {
		return nil, &ParseError{Err: errors.New("fixture is not a JSON array")}
	}

	records := make([]models.PostRecord, 0, len(elems))
	for i, elem := range elems {
		var raw rawRecord
		if err := json.Unmarshal(elem, &raw); err != nil {
			return nil, &ValidationError{Index: i, Field: "record", Err: err}
		}

		var rec models.PostRecord
		if err := decodeField(i, "title", raw.Title, &rec.Title); err != nil {
			return nil, err
		}
		if err := decodeField(i, "content", raw.Content, &rec.Content); err != nil {
			return nil, err
		}
		if err := decodeField(i, "user_id", raw.UserID, &rec.UserID); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeField(index int, name string, raw json.RawMessage, dst interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return &ValidationError{Index: index, Field: name}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &ValidationError{Index: index, Field: name, Err: errors.New(typeMismatch(err))}
	}
	return nil
}

func typeMismatch(err error) string {
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) {
		return fmt.Sprintf("expected %s, got %s", te.Type, te.Value)
	}
	return err.Error()
}
