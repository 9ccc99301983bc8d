package database

import (
	"time"

	"github.com/shopspring/decimal"
)

// User roles stored in users.role.
const (
	RolePassenger = "passenger"
	RoleStaff     = "staff"
	RoleAdmin     = "admin"
)

// User represents an account in the users table.
type User struct {
	ID             int64   `json:"id"`
	Email          string  `json:"email"`
	FullName       string  `json:"fullName"`
	HashedPassword string  `json:"-"`
	Phone          *string `json:"phone,omitempty"`
	Role           string  `json:"role"`
	IsActive       bool    `json:"isActive"`
	IsVerified     bool    `json:"isVerified"`

	VerificationToken         *string    `json:"-"`
	VerificationTokenExpires  *time.Time `json:"-"`
	PasswordResetToken        *string    `json:"-"`
	PasswordResetTokenExpires *time.Time `json:"-"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

// ActivityLog is an append-only record of a user action.
type ActivityLog struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Action    string    `json:"action"`
	Details   *string   `json:"details,omitempty"`
	IPAddress *string   `json:"ipAddress,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Aircraft statuses.
const (
	AircraftStatusActive      = "active"
	AircraftStatusMaintenance = "maintenance"
	AircraftStatusRetired     = "retired"
)

// Aircraft represents one airframe in the fleet. The cabin layout columns
// (start rows, seats per row) are derived once at creation time and drive
// seat-map generation for every flight flown by the aircraft.
type Aircraft struct {
	ID                int64  `json:"id"`
	AircraftNumber    string `json:"aircraftNumber"`
	Model             string `json:"model"`
	Manufacturer      string `json:"manufacturer"`
	TotalSeats        int    `json:"totalSeats"`
	EconomySeats      int    `json:"economySeats"`
	BusinessSeats     int    `json:"businessSeats"`
	FirstClassSeats   int    `json:"firstClassSeats"`
	ManufacturingYear *int   `json:"manufacturingYear,omitempty"`
	Status            string `json:"status"`

	EconomyStartRow     int  `json:"economyStartRow"`
	BusinessStartRow    *int `json:"businessStartRow,omitempty"`
	FirstStartRow       *int `json:"firstStartRow,omitempty"`
	SeatsPerRowEconomy  int  `json:"seatsPerRowEconomy"`
	SeatsPerRowBusiness int  `json:"seatsPerRowBusiness"`
	SeatsPerRowFirst    int  `json:"seatsPerRowFirst"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Airport represents an airport in the network.
type Airport struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	Timezone  *string   `json:"timezone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Route connects two airports and carries the base fare per cabin. Seat
// prices are copied from these at generation time, not live-linked.
type Route struct {
	ID                   int64           `json:"id"`
	OriginAirportID      int64           `json:"originAirportId"`
	DestinationAirportID int64           `json:"destinationAirportId"`
	DistanceKM           *int            `json:"distanceKm,omitempty"`
	EstimatedDuration    *int            `json:"estimatedDuration,omitempty"`
	BasePriceEconomy     decimal.Decimal `json:"basePriceEconomy"`
	BasePriceBusiness    decimal.Decimal `json:"basePriceBusiness"`
	BasePriceFirst       decimal.Decimal `json:"basePriceFirst"`
	IsActive             bool            `json:"isActive"`
	CreatedAt            time.Time       `json:"createdAt"`
}

// Flight statuses.
const (
	FlightStatusScheduled = "scheduled"
	FlightStatusBoarding  = "boarding"
	FlightStatusDeparted  = "departed"
	FlightStatusArrived   = "arrived"
	FlightStatusDelayed   = "delayed"
	FlightStatusCancelled = "cancelled"
)

// Flight represents a concrete flight instance. ParentTemplateID is a weak
// reference: deactivating a template never touches the flights it already
// generated.
type Flight struct {
	ID                 int64      `json:"id"`
	FlightNumber       string     `json:"flightNumber"`
	RouteID            int64      `json:"routeId"`
	AircraftID         int64      `json:"aircraftId"`
	DepartureDatetime  time.Time  `json:"departureDatetime"`
	ArrivalDatetime    time.Time  `json:"arrivalDatetime"`
	Status             string     `json:"status"`
	AvailableEconomy   int        `json:"availableEconomy"`
	AvailableBusiness  int        `json:"availableBusiness"`
	AvailableFirst     int        `json:"availableFirst"`
	Gate               *string    `json:"gate,omitempty"`
	DelayReason        *string    `json:"delayReason,omitempty"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	ParentTemplateID   *int64     `json:"parentTemplateId,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"`
}

// Seat classes.
const (
	SeatClassEconomy  = "economy"
	SeatClassBusiness = "business"
	SeatClassFirst    = "first"
)

// Seat belongs to exactly one flight and is deleted with it. Price is the
// route's base fare for the cabin at generation time.
type Seat struct {
	ID          int64           `json:"id"`
	FlightID    int64           `json:"flightId"`
	SeatNumber  string          `json:"seatNumber"`
	SeatClass   string          `json:"seatClass"`
	IsAvailable bool            `json:"isAvailable"`
	IsWindow    bool            `json:"isWindow"`
	IsAisle     bool            `json:"isAisle"`
	Price       decimal.Decimal `json:"price"`
}

// FlightStatusLog records one status transition, append only.
type FlightStatusLog struct {
	ID        int64     `json:"id"`
	FlightID  int64     `json:"flightId"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
	Reason    *string   `json:"reason,omitempty"`
	ChangedBy int64     `json:"changedBy"`
	ChangedAt time.Time `json:"changedAt"`
}

// FlightAuditLog records who changed what on a flight and why, append only.
type FlightAuditLog struct {
	ID          int64          `json:"id"`
	FlightID    int64          `json:"flightId"`
	Action      string         `json:"action"`
	PerformedBy int64          `json:"performedBy"`
	OldValues   map[string]any `json:"oldValues,omitempty"`
	NewValues   map[string]any `json:"newValues,omitempty"`
	Reason      *string        `json:"reason,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}

// FlightOperationalCost holds the recorded costs for one flight. One row per
// flight, created or replaced via upsert.
type FlightOperationalCost struct {
	ID              int64           `json:"id"`
	FlightID        int64           `json:"flightId"`
	FuelCost        decimal.Decimal `json:"fuelCost"`
	CrewCost        decimal.Decimal `json:"crewCost"`
	AirportCharges  decimal.Decimal `json:"airportCharges"`
	CateringCost    decimal.Decimal `json:"cateringCost"`
	MaintenanceCost decimal.Decimal `json:"maintenanceCost"`
	OtherCosts      decimal.Decimal `json:"otherCosts"`
	Notes           *string         `json:"notes,omitempty"`
	RecordedBy      int64           `json:"recordedBy"`
	RecordedAt      time.Time       `json:"recordedAt"`
}

// Recurrence types for flight templates.
const (
	RecurrenceDaily   = "daily"
	RecurrenceWeekly  = "weekly"
	RecurrenceMonthly = "monthly"
)

// FlightTemplate is a recurrence rule that expands into concrete flights.
// DaysOfWeek is a CSV of ISO weekday numbers (1=Monday..7=Sunday) and is
// consulted only for weekly recurrence.
type FlightTemplate struct {
	ID                 int64      `json:"id"`
	TemplateName       string     `json:"templateName"`
	FlightNumberPrefix string     `json:"flightNumberPrefix"`
	RouteID            int64      `json:"routeId"`
	AircraftID         int64      `json:"aircraftId"`
	RecurrenceType     string     `json:"recurrenceType"`
	DaysOfWeek         *string    `json:"daysOfWeek,omitempty"`
	DepartureTime      string     `json:"departureTime"` // "HH:MM"
	DurationMinutes    int        `json:"durationMinutes"`
	StartDate          time.Time  `json:"startDate"`
	EndDate            *time.Time `json:"endDate,omitempty"`
	Gate               *string    `json:"gate,omitempty"`
	IsActive           bool       `json:"isActive"`
	CreatedBy          int64      `json:"createdBy"`
	CreatedAt          time.Time  `json:"createdAt"`
}
