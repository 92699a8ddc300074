package handlers

import (
	"errors"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"teleport/internal/modules/pricing"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators adds the "category" and "sortkey" tags to gin's validator.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin validator is not go-playground/validator")
			return
		}
		if registerErr = v.RegisterValidation("category", validCategory); registerErr != nil {
			return
		}
		registerErr = v.RegisterValidation("sortkey", validSortKey)
	})
	return registerErr
}

func validCategory(fl validator.FieldLevel) bool {
	c := pricing.Category(fl.Field().String())
	return c == pricing.FilterAll || pricing.IsCategory(c)
}

func validSortKey(fl validator.FieldLevel) bool {
	return pricing.IsSortKey(pricing.SortKey(fl.Field().String()))
}
