package browse

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"hotel_browser/internal/domain"
)

const PriceUnavailable = "price unavailable"

// PriceLabel renders the room price span, e.g. "1,000 - 3,000".
func PriceLabel(d domain.DerivedHotel) string {
	if !d.HasPrice() {
		return PriceUnavailable
	}
	p := message.NewPrinter(language.English)
	return p.Sprintf("%v - %v",
		number.Decimal(*d.MinPrice, number.MaxFractionDigits(2)),
		number.Decimal(*d.MaxPrice, number.MaxFractionDigits(2)))
}

func RatingLabel(h domain.Hotel) string {
	return fmt.Sprintf("%.1f", h.RatingValue())
}
