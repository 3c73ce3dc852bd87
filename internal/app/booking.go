package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	dateLayout = "2006-01-02"
	maxGuests  = 4

	msgBookingOK      = "Booking successful!"
	msgBookingInvalid = "Please fix the highlighted fields"
)

type Guest struct {
	Name   string `json:"name" validate:"required"`
	Age    int    `json:"age" validate:"min=1"`
	Gender string `json:"gender" validate:"oneof=Male Female"`
}

type BookingRequest struct {
	HotelID  string  `json:"hotelId,omitempty"`
	RoomName string  `json:"roomName,omitempty"`
	CheckIn  string  `json:"checkIn" validate:"required,datetime=2006-01-02"`
	CheckOut string  `json:"checkOut" validate:"required,datetime=2006-01-02"`
	Guests   []Guest `json:"guests" validate:"min=1,max=4"`
}

type BookingResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// BookingService checks booking forms. Nothing is reserved or stored.
type BookingService struct {
	now func() time.Time
}

func NewBookingService() *BookingService { return &BookingService{now: time.Now} }

var fieldMessages = map[string]string{
	"checkIn":  "Check-in date is required",
	"checkOut": "Check-out date is required",
	"guests":   fmt.Sprintf("Between 1 and %d guests are allowed", maxGuests),
	"name":     "Name is required",
	"age":      "Valid age is required",
	"gender":   "Gender must be Male or Female",
}

// Validate returns a FormError keyed by form field (checkIn, name0, age1, ...)
// when req is not acceptable.
func (s *BookingService) Validate(req BookingRequest) (BookingResult, error) {
	fields := map[string]string{}
	collect(validate.Struct(req), "", fields)

	for i := range req.Guests {
		g := req.Guests[i]
		if g.Gender == "" {
			g.Gender = "Male"
		}
		collect(validate.Struct(g), fmt.Sprint(i), fields)
	}

	_, inBad := fields["checkIn"]
	_, outBad := fields["checkOut"]
	if !inBad {
		in, _ := time.Parse(dateLayout, req.CheckIn)
		today, _ := time.Parse(dateLayout, s.now().Format(dateLayout))
		if in.Before(today) {
			fields["checkIn"] = "Check-in date cannot be in the past"
		}
		if !outBad {
			out, _ := time.Parse(dateLayout, req.CheckOut)
			if out.Before(in) {
				fields["checkOut"] = "Check-out date cannot be before check-in"
			}
		}
	}

	if len(fields) > 0 {
		return BookingResult{}, &FormError{Message: msgBookingInvalid, Fields: fields}
	}
	return BookingResult{Status: "ok", Message: msgBookingOK}, nil
}

func collect(err error, suffix string, into map[string]string) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return
	}
	for _, fe := range verrs {
		into[fe.Field()+suffix] = fieldMessages[fe.Field()]
	}
}
