// Package seatmap generates the seat records for a flight from the owning
// aircraft's cabin layout and the route's base fares. Generation is a pure
// function of its inputs: identical layout and pricing always produce the
// same ordered seat list.
package seatmap

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/skylink-air/skylink-backend/internal/database"
)

// ErrBadLayout is returned when a cabin has seats but no seats-per-row
// value, which would otherwise divide by zero.
var ErrBadLayout = errors.New("invalid cabin layout")

// Layout is the cabin configuration of an aircraft. Row numbering must be
// contiguous and increasing in the order economy, business, first.
type Layout struct {
	EconomySeats    int
	BusinessSeats   int
	FirstClassSeats int

	EconomyStartRow  int
	BusinessStartRow int
	FirstStartRow    int

	SeatsPerRowEconomy  int
	SeatsPerRowBusiness int
	SeatsPerRowFirst    int
}

// Pricing is the per-cabin base fare copied onto each generated seat.
type Pricing struct {
	Economy  decimal.Decimal
	Business decimal.Decimal
	First    decimal.Decimal
}

// LayoutFor extracts the generation inputs from an aircraft row. Missing
// start rows for empty cabins are left at zero; Generate skips those cabins.
func LayoutFor(a *database.Aircraft) Layout {
	l := Layout{
		EconomySeats:        a.EconomySeats,
		BusinessSeats:       a.BusinessSeats,
		FirstClassSeats:     a.FirstClassSeats,
		EconomyStartRow:     a.EconomyStartRow,
		SeatsPerRowEconomy:  a.SeatsPerRowEconomy,
		SeatsPerRowBusiness: a.SeatsPerRowBusiness,
		SeatsPerRowFirst:    a.SeatsPerRowFirst,
	}
	if a.BusinessStartRow != nil {
		l.BusinessStartRow = *a.BusinessStartRow
	}
	if a.FirstStartRow != nil {
		l.FirstStartRow = *a.FirstStartRow
	}
	return l
}

// PricingFor extracts the per-cabin base fares from a route row.
func PricingFor(r *database.Route) Pricing {
	return Pricing{
		Economy:  r.BasePriceEconomy,
		Business: r.BasePriceBusiness,
		First:    r.BasePriceFirst,
	}
}

var seatLetters = []string{"A", "B", "C", "D", "E", "F"}

// Generate produces the ordered seat list for one flight: economy rows
// ascending, then business, then first; letters in cabin order within a row.
// Every seat starts available with the cabin's base fare.
func Generate(layout Layout, pricing Pricing, flightID int64) ([]database.Seat, error) {
	var seats []database.Seat

	cabins := []struct {
		class   string
		count   int
		start   int
		perRow  int
		letters []string
		price   decimal.Decimal
	}{
		{database.SeatClassEconomy, layout.EconomySeats, layout.EconomyStartRow, layout.SeatsPerRowEconomy, seatLetters, pricing.Economy},
		{database.SeatClassBusiness, layout.BusinessSeats, layout.BusinessStartRow, layout.SeatsPerRowBusiness, seatLetters[:4], pricing.Business},
		{database.SeatClassFirst, layout.FirstClassSeats, layout.FirstStartRow, layout.SeatsPerRowFirst, seatLetters[:2], pricing.First},
	}

	for _, cabin := range cabins {
		if cabin.count == 0 {
			continue
		}
		if cabin.perRow <= 0 || cabin.perRow > len(cabin.letters) {
			return nil, fmt.Errorf("%w: %s cabin has %d seats per row", ErrBadLayout, cabin.class, cabin.perRow)
		}

		letters := cabin.letters[:cabin.perRow]
		for i := 0; i < cabin.count; i++ {
			letter := letters[i%cabin.perRow]
			row := cabin.start + i/cabin.perRow

			window := letter == letters[0] || letter == letters[len(letters)-1]
			aisle := false
			if cabin.perRow >= 4 {
				aisle = letter == letters[cabin.perRow/2-1] || letter == letters[cabin.perRow/2]
			}
			// First class is two-abreast at most: always window, never aisle.
			if cabin.class == database.SeatClassFirst {
				window, aisle = true, false
			}

			seats = append(seats, database.Seat{
				FlightID:    flightID,
				SeatNumber:  fmt.Sprintf("%d%s", row, letter),
				SeatClass:   cabin.class,
				IsAvailable: true,
				IsWindow:    window,
				IsAisle:     aisle,
				Price:       cabin.price,
			})
		}
	}

	return seats, nil
}

// DeriveLayout computes the layout columns stored on a new aircraft from its
// per-cabin seat counts. Cabins are packed into contiguous ascending rows in
// the order economy, business, first with the standard abreast counts
// (economy 6, business 4, first 2).
func DeriveLayout(economy, business, first int) Layout {
	layout := Layout{
		EconomySeats:        economy,
		BusinessSeats:       business,
		FirstClassSeats:     first,
		EconomyStartRow:     1,
		SeatsPerRowEconomy:  6,
		SeatsPerRowBusiness: 4,
		SeatsPerRowFirst:    2,
	}

	economyRows := (economy + 5) / 6
	nextRow := layout.EconomyStartRow + economyRows
	if business > 0 {
		layout.BusinessStartRow = nextRow
		nextRow += (business + 3) / 4
	}
	if first > 0 {
		layout.FirstStartRow = nextRow
	}
	return layout
}
