package validator

import (
	"errors"
	"fmt"
	"strings"

	"vendora/pkg/logger"
	"vendora/pkg/model"

	"github.com/go-playground/validator/v10"
)

// transitions maps each status to its single forward successor. CANCELLED
// is handled separately since it is reachable from any non-terminal status.
var transitions = map[model.BookingStatus]model.BookingStatus{
	model.BookingPending:         model.BookingVendorReviewing,
	model.BookingVendorReviewing: model.BookingQuoteSent,
	model.BookingQuoteSent:       model.BookingQuoteAccepted,
	model.BookingQuoteAccepted:   model.BookingConfirmed,
	model.BookingConfirmed:       model.BookingInProgress,
	model.BookingInProgress:      model.BookingCompleted,
}

// allowedActors lists which side may drive each target status. Targets
// absent from the map may be driven by either side.
var allowedActors = map[model.BookingStatus]model.ActorType{
	model.BookingVendorReviewing: model.ActorVendor,
	model.BookingQuoteSent:       model.ActorVendor,
	model.BookingQuoteAccepted:   model.ActorOrganizer,
	model.BookingConfirmed:       model.ActorOrganizer,
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	return &BookingValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *BookingValidator) ValidateQuoteRequest(req *model.QuoteRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return nil
}

// ValidateAdvance checks the structural fields and the price rule of one
// transition request. Transition legality against the current status is
// checked separately via CheckTransition once the booking is loaded.
func (v *BookingValidator) ValidateAdvance(req *model.AdvanceRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if req.Status == model.BookingQuoteSent && req.FinalPrice == nil {
		return ValidationErrors{
			ValidationError{
				Field:   "FinalPrice",
				Message: "final_price is required when sending a quote",
			},
		}
	}
	if req.Status != model.BookingQuoteSent && req.FinalPrice != nil {
		return ValidationErrors{
			ValidationError{
				Field:   "FinalPrice",
				Message: "final_price may only be set when sending a quote",
			},
		}
	}

	return nil
}

// CheckTransition reports whether the requested status is a legal move
// from the current one: the single forward successor, or CANCELLED from
// any non-terminal status.
func (v *BookingValidator) CheckTransition(current, target model.BookingStatus) bool {
	if current.IsTerminal() {
		return false
	}
	if target == model.BookingCancelled {
		return true
	}
	return transitions[current] == target
}

// CheckActor reports whether the actor may drive the target status.
func (v *BookingValidator) CheckActor(target model.BookingStatus, actor model.ActorType) bool {
	required, restricted := allowedActors[target]
	if !restricted {
		return true
	}
	return required == actor
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
