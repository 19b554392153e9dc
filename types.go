package veganify

import (
	"bytes"
	"fmt"
)

// Flag is a tri-state classification: true, false, or "n/a" when the data
// source has no answer. The zero value means the field was absent.
type Flag string

const (
	FlagUnset Flag = ""
	FlagTrue  Flag = "true"
	FlagFalse Flag = "false"
	FlagNA    Flag = "n/a"
)

// Bool reports the flag value and whether it is a definite true/false.
func (f Flag) Bool() (value, ok bool) {
	switch f {
	case FlagTrue:
		return true, true
	case FlagFalse:
		return false, true
	default:
		return false, false
	}
}

func (f Flag) MarshalJSON() ([]byte, error) {
	switch f {
	case FlagTrue:
		return []byte("true"), nil
	case FlagFalse:
		return []byte("false"), nil
	case FlagNA:
		return []byte(`"n/a"`), nil
	case FlagUnset:
		return []byte("null"), nil
	default:
		return nil, fmt.Errorf("veganify: invalid flag %q", string(f))
	}
}

func (f *Flag) UnmarshalJSON(b []byte) error {
	switch string(bytes.TrimSpace(b)) {
	case "true":
		*f = FlagTrue
	case "false":
		*f = FlagFalse
	case `"n/a"`:
		*f = FlagNA
	default:
		return fmt.Errorf("veganify: invalid flag %s", b)
	}
	return nil
}

// ProductResponse is the body of POST /v0/product/{barcode}.
type ProductResponse struct {
	Status  int            `json:"status"`
	Product ProductDetails `json:"product"`
	Sources SourceDetails  `json:"sources"`
}

type ProductDetails struct {
	ProductName    string  `json:"productname"`
	GenericName    *string `json:"genericname,omitempty"`
	Vegan          Flag    `json:"vegan,omitempty"`
	Vegetarian     Flag    `json:"vegetarian,omitempty"`
	AnimalTestFree Flag    `json:"animaltestfree,omitempty"`
	PalmOil        Flag    `json:"palmoil,omitempty"`
	NutriScore     *string `json:"nutriscore,omitempty"`
	Grade          *string `json:"grade,omitempty"`
}

type SourceDetails struct {
	Processed bool   `json:"processed"`
	API       string `json:"api"`
	BaseURI   string `json:"baseuri"`
}

// IngredientsCheckResponse is the body of GET /v1/ingredients/{list}.
type IngredientsCheckResponse struct {
	Code    string            `json:"code"`
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Data    IngredientsDataV1 `json:"data"`
}

type IngredientsDataV1 struct {
	Vegan         bool     `json:"vegan"`
	SurelyVegan   []string `json:"surely_vegan"`
	NotVegan      []string `json:"not_vegan"`
	MaybeNotVegan []string `json:"maybe_not_vegan"`
	Unknown       []string `json:"unknown"`
}

// IngredientsCheckResponseV0 is the body of GET /v0/ingredients/{list}.
// Older deployments report only Flagged; newer ones fill the buckets.
type IngredientsCheckResponseV0 struct {
	Code    string            `json:"code"`
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Data    IngredientsDataV0 `json:"data"`
}

type IngredientsDataV0 struct {
	Vegan       bool     `json:"vegan"`
	Flagged     []string `json:"flagged,omitempty"`
	SurelyVegan []string `json:"surely_vegan,omitempty"`
	NotVegan    []string `json:"not_vegan,omitempty"`
	MaybeVegan  []string `json:"maybe_vegan,omitempty"`
}

// PetaCrueltyFreeResponse is the body of GET /v0/peta/crueltyfree.
type PetaCrueltyFreeResponse struct {
	LastUpdate      string   `json:"LAST_UPDATE"`
	Entries         string   `json:"ENTRIES"`
	PetaDoesNotTest []string `json:"PETA_DOES_NOT_TEST"`
}
