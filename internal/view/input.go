package view

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/showcase/backend/internal/model"
)

// ErrMalformed is returned when a request body is not the expected JSON object.
var ErrMalformed = errors.New("malformed input")

// ReadOnlyFieldError reports server-derived fields a caller tried to set.
type ReadOnlyFieldError struct {
	Fields []string
}

func (e *ReadOnlyFieldError) Error() string {
	return "read-only fields supplied: " + strings.Join(e.Fields, ", ")
}

// ContactInput is the writable part of a contact message. Anything else in
// the request body (id, created_at, is_read) is ignored.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// DecodeContactInput reads a ContactInput from a JSON body.
func DecodeContactInput(r io.Reader) (ContactInput, error) {
	var in ContactInput
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return ContactInput{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return in, nil
}

// productReadOnly lists product fields that are always derived by the server
// and must not appear on a write.
var productReadOnly = []string{"category_name", "created_at", "updated_at"}

// ProductInput is the writable part of a product.
type ProductInput struct {
	Category     int64        `json:"category"`
	Description  string       `json:"description"`
	ProductImage string       `json:"product_image"`
	Price        *model.Price `json:"price"`
	Featured     bool         `json:"featured"`
}

// DecodeProductInput parses one product from JSON. It returns a
// *ReadOnlyFieldError when the document carries category_name, created_at or
// updated_at, and model.ErrInvalidPrice for prices that are negative or have
// more than two fractional digits.
func DecodeProductInput(data []byte) (ProductInput, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return ProductInput{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	var readOnly []string
	for _, f := range productReadOnly {
		if _, ok := raw[f]; ok {
			readOnly = append(readOnly, f)
		}
	}
	if len(readOnly) > 0 {
		sort.Strings(readOnly)
		return ProductInput{}, &ReadOnlyFieldError{Fields: readOnly}
	}

	var in ProductInput
	if err := json.Unmarshal(data, &in); err != nil {
		if errors.Is(err, model.ErrInvalidPrice) {
			return ProductInput{}, err
		}
		return ProductInput{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	switch {
	case in.Category <= 0:
		return ProductInput{}, fmt.Errorf("%w: category is required", ErrMalformed)
	case strings.TrimSpace(in.Description) == "":
		return ProductInput{}, fmt.Errorf("%w: description is required", ErrMalformed)
	case in.Price == nil:
		return ProductInput{}, fmt.Errorf("%w: price is required", ErrMalformed)
	}
	return in, nil
}

// Model converts the input into a product ready to be created.
func (in ProductInput) Model() *model.Product {
	p := &model.Product{
		CategoryID:   in.Category,
		Description:  strings.TrimSpace(in.Description),
		ProductImage: in.ProductImage,
		Featured:     in.Featured,
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	return p
}
