package services

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Flag is a boolean that accepts true/false, 0/1 and their string forms in JSON
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = Flag(CoerceBool(raw))
	return nil
}

// OrderInput is the full set of customer and job fields accepted on create and replace
type OrderInput struct {
	CustomerFirstName   string           `json:"customer_first_name" validate:"required"`
	CustomerLastName    string           `json:"customer_last_name" validate:"required"`
	CustomerPhone       string           `json:"customer_phone" validate:"required"`
	CustomerEmail       string           `json:"customer_email" validate:"required,email"`
	CustomerAddress     string           `json:"customer_address" validate:"required"`
	OrderDescription    string           `json:"order_description"`
	SpecialInstructions string           `json:"special_instructions"`
	Status              string           `json:"status"`
	PickupDate          string           `json:"pickup_date" validate:"required,isodate"`
	PickupTime          string           `json:"pickup_time"`
	Notes               string           `json:"notes"`
	FilePath            string           `json:"file_path"`
	FileName            string           `json:"file_name"`
	FileSize            int64            `json:"file_size" validate:"gte=0"`
	Copies              int              `json:"copies" validate:"gte=0"`
	PaperSize           string           `json:"paper_size"`
	PaperType           string           `json:"paper_type"`
	ColorMode           string           `json:"color_mode"`
	DoubleSided         Flag             `json:"double_sided"`
	BindingType         string           `json:"binding_type"`
	FinishingOptions    string           `json:"finishing_options"`
	RushOrder           Flag             `json:"rush_order"`
	EstimatedPrice      *decimal.Decimal `json:"estimated_price"`
	FinalPrice          *decimal.Decimal `json:"final_price"`
	PrintReady          Flag             `json:"print_ready"`
}

var orderFieldMessages = map[string]string{
	"customer_first_name": "First name is required",
	"customer_last_name":  "Last name is required",
	"customer_phone":      "Phone is required",
	"customer_email":      "Valid email is required",
	"customer_address":    "Address is required",
	"pickup_date":         "Pickup date is required (YYYY-MM-DD)",
	"file_size":           "File size cannot be negative",
	"copies":              "Copies cannot be negative",
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			_, err := ParseDate(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

// normalize trims whitespace and strips markup before validation
func (in *OrderInput) normalize() {
	in.CustomerFirstName = strings.TrimSpace(in.CustomerFirstName)
	in.CustomerLastName = strings.TrimSpace(in.CustomerLastName)
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	in.CustomerEmail = strings.TrimSpace(in.CustomerEmail)
	in.CustomerAddress = strings.TrimSpace(in.CustomerAddress)
	in.PickupDate = strings.TrimSpace(in.PickupDate)
	in.PickupTime = strings.TrimSpace(in.PickupTime)
	in.Status = strings.TrimSpace(in.Status)
	in.OrderDescription = SanitizeText(in.OrderDescription)
	in.SpecialInstructions = SanitizeText(in.SpecialInstructions)
	in.Notes = SanitizeText(in.Notes)
	if in.Copies == 0 {
		in.Copies = 1
	}
}

// Validate normalizes the input and reports every invalid field at once
func (in *OrderInput) Validate() error {
	in.normalize()

	verr := &ValidationError{}
	if err := validatorInstance().Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			msg, ok := orderFieldMessages[fe.Field()]
			if !ok {
				msg = "Invalid value"
			}
			verr.Add(fe.Field(), msg)
		}
	}

	if in.Status != "" {
		if _, err := ParseStatus(in.Status); err != nil {
			verr.Add("status", "Invalid status")
		}
	}
	if in.EstimatedPrice != nil && in.EstimatedPrice.IsNegative() {
		verr.Add("estimated_price", "Estimated price cannot be negative")
	}
	if in.FinalPrice != nil && in.FinalPrice.IsNegative() {
		verr.Add("final_price", "Final price cannot be negative")
	}

	return verr.OrNil()
}
