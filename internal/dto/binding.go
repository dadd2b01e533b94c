package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// RegisterCustomValidations wires domain enum checks into gin's validator engine.
// Called once from main before the router starts serving.
func RegisterCustomValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("accounttype", func(fl validator.FieldLevel) bool {
		return domain.AccountType(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("documenttype", func(fl validator.FieldLevel) bool {
		return domain.DocumentType(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("partnerkind", func(fl validator.FieldLevel) bool {
		return domain.PartnerKind(fl.Field().String()).IsValid()
	})
}
