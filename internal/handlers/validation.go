package handlers

import (
	"sync"

	"github.com/SscSPs/church_finance_app/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidatorsOnce sync.Once

// registerCustomValidators adds the txstatus and txtype tags used by the DTOs.
// Gin shares one validator engine per process, hence the Once.
func registerCustomValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("txstatus", func(fl validator.FieldLevel) bool {
			return domain.TransactionStatus(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("txtype", func(fl validator.FieldLevel) bool {
			return domain.TransactionType(fl.Field().String()).IsValid()
		})
	})
}
