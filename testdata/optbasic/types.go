package optbasic

import (
	stdsql "database/sql"
	"time"

	"github.com/seitarof/optionalize/pkg/optional"
)

// User is a fully annotated record.
//
//optionalize:generate
type User struct {
	ID          int32                   `json:"id" optionalize:"ignore"`
	Name        string                  `json:"name"`
	Description optional.Option[string] `json:"description"`
	Home        Address
	CreatedAt   time.Time
	Raw         stdsql.NullString
	A, B        int
	Base
	hidden string
}

type Address struct {
	City string
}

type Base struct {
	Version int
}

type Status int

type Shape interface {
	Area() float64
}

type Alias = Address

// Page is a generic page of items.
//
//optionalize:generate
type Page[T any] struct {
	Items []T
	Next  optional.Option[string]
}

type (
	// Order is declared in a group.
	//
	//optionalize:generate
	Order struct {
		Total float64
	}

	Unmarked struct {
		X int
	}
)
