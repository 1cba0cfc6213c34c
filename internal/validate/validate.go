// Package validate checks product input before it is sent to the products API.
package validate

import (
	"errors"
	"math"
	"reflect"
	"sync"

	perrors "github.com/abgdnv/productctl/internal/errors"
	"github.com/abgdnv/productctl/internal/product"
	"github.com/go-playground/validator/v10"
)

const (
	MsgNameRequired = "Product name is required."
	MsgPriceInvalid = "Price must be a positive number."

	msgInvalid = "Invalid product data."
	fieldName  = "Name"
	fieldPrice = "Price"
	finiteTag  = "finite"
)

// rules mirrors the fields of a product that carry constraints.
type rules struct {
	Name  string   `validate:"required"`
	Price *float64 `validate:"omitempty,finite,gt=0"`
}

var instance = sync.OnceValue(func() *validator.Validate {
	v := validator.New()
	// registration only fails on an empty tag or a nil func
	_ = v.RegisterValidation(finiteTag, isFinite)
	return v
})

// Validate reports the first broken rule of p as a *errors.ValidationError.
// Name is required unless isUpdate is set and is checked before price.
func Validate(p product.Product, isUpdate bool) error {
	r := rules{Name: p.Name, Price: p.Price}

	var err error
	if isUpdate {
		err = instance().StructExcept(r, fieldName)
	} else {
		err = instance().Struct(r)
	}
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return &perrors.ValidationError{Message: msgInvalid}
	}
	failed := make(map[string]bool, len(validationErrors))
	for _, fieldErr := range validationErrors {
		failed[fieldErr.StructField()] = true
	}
	switch {
	case failed[fieldName]:
		return &perrors.ValidationError{Message: MsgNameRequired}
	case failed[fieldPrice]:
		return &perrors.ValidationError{Message: MsgPriceInvalid}
	default:
		return &perrors.ValidationError{Message: msgInvalid}
	}
}

func isFinite(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		f := field.Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return true
	}
}
