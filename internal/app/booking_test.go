package app_test

import (
	"errors"
	"sort"
	"testing"
	"time"

	"hotel_browser/internal/app"
	"hotel_browser/internal/domain"
)

func day(offset int) string { return time.Now().AddDate(0, 0, offset).Format("2006-01-02") }

func fieldKeys(err error) []string {
	var fe *app.FormError
	if !errors.As(err, &fe) {
		return nil
	}
	keys := make([]string, 0, len(fe.Fields))
	for k := range fe.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func TestBooking_Validate(t *testing.T) {
	guest := app.Guest{Name: "Asha", Age: 30, Gender: "Female"}
	cases := []struct {
		name string
		req  app.BookingRequest
		want []string
	}{
		{"ok", app.BookingRequest{CheckIn: day(1), CheckOut: day(3), Guests: []app.Guest{guest}}, nil},
		{"same day", app.BookingRequest{CheckIn: day(0), CheckOut: day(0), Guests: []app.Guest{guest}}, nil},
		{"gender defaults to male", app.BookingRequest{CheckIn: day(1), CheckOut: day(2), Guests: []app.Guest{{Name: "Ravi", Age: 40}}}, nil},
		{"empty", app.BookingRequest{}, []string{"checkIn", "checkOut", "guests"}},
		{"guest fields indexed", app.BookingRequest{CheckIn: day(1), CheckOut: day(2), Guests: []app.Guest{guest, {Gender: "Male"}}}, []string{"age1", "name1"}},
		{"bad gender", app.BookingRequest{CheckIn: day(1), CheckOut: day(2), Guests: []app.Guest{{Name: "X", Age: 5, Gender: "Other"}}}, []string{"gender0"}},
		{"past check-in", app.BookingRequest{CheckIn: day(-1), CheckOut: day(2), Guests: []app.Guest{guest}}, []string{"checkIn"}},
		{"check-out before check-in", app.BookingRequest{CheckIn: day(3), CheckOut: day(2), Guests: []app.Guest{guest}}, []string{"checkOut"}},
		{"bad date", app.BookingRequest{CheckIn: "15/08/2030", CheckOut: day(2), Guests: []app.Guest{guest}}, []string{"checkIn"}},
		{"too many guests", app.BookingRequest{CheckIn: day(1), CheckOut: day(2), Guests: []app.Guest{guest, guest, guest, guest, guest}}, []string{"guests"}},
	}

	svc := app.NewBookingService()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := svc.Validate(tc.req)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if res.Status != "ok" || res.Message != "Booking successful!" {
					t.Fatalf("result = %+v", res)
				}
				return
			}
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("want ErrInvalidInput, got %v", err)
			}
			got := fieldKeys(err)
			if len(got) != len(tc.want) {
				t.Fatalf("fields = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("fields = %v, want %v", got, tc.want)
				}
			}
		})
	}
}
