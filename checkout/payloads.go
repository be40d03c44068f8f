package checkout

import (
	"net/url"
	"strconv"
)

// Vendor endpoints, one per workflow step.
const (
	CreateOrderPath    = "/orders/create-order"
	SelectDeliveryPath = "/orders/select-delivery"
	SelectBarrelsPath  = "/orders/select-barrels"
	ScheduleVisitPath  = "/orders/schedule-distillery-visit"
	ConfirmPath        = "/orders/confirm"
	OrderCompletePath  = "/orders/order-complete"
)

// Visit preferences sent with the schedule step.
const (
	TripDate     = "2021-06-15"
	VisitTime    = "10:00 AM"
	VisitGuests  = "2"
	VisitTasting = "1"
)

// The form field names below mirror the vendor framework's model naming and
// are sent verbatim.

func createOrderForm() url.Values {
	return url.Values{
		"_method":                 {"POST"},
		"data[Order][order_type]": {"single_barrel"},
		"data[Order][agree]":      {"1"},
	}
}

func selectDeliveryForm() url.Values {
	return url.Values{
		"_method":                      {"POST"},
		"data[Order][delivery_method]": {"distillery_pickup"},
		"data[Order][ship_to_store]":   {"0"},
	}
}

func selectBarrelsForm(o Order) url.Values {
	return url.Values{
		"_method":                              {"POST"},
		"data[OrderBrand][0][brand_id]":        {o.BrandID},
		"data[OrderBrand][0][brand_family_id]": {o.FamilyID},
		"data[OrderBrand][0][num_barrels]":     {strconv.Itoa(o.Barrels)},
	}
}

func scheduleVisitForm() url.Values {
	return url.Values{
		"_method":                   {"POST"},
		"data[Visit][trip_date]":    {TripDate},
		"data[Visit][visit_time]":   {VisitTime},
		"data[Visit][num_guests]":   {VisitGuests},
		"data[Visit][tasting]":      {VisitTasting},
		"data[Visit][lunch]":        {"0"},
		"data[Visit][special_note]": {""},
	}
}

func confirmForm() url.Values {
	return url.Values{
		"_method":                   {"POST"},
		"data[Order][confirmed]":    {"1"},
		"data[Order][accept_terms]": {"1"},
	}
}

func orderCompleteForm() url.Values {
	return url.Values{
		"_method":               {"POST"},
		"data[Order][complete]": {"1"},
	}
}
