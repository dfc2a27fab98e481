package http

import (
	"errors"
	"time"

	"kirana/internal/core/application/usecases/commands"
	"kirana/internal/core/application/usecases/queries"
	"kirana/internal/core/domain/model/apartment"
	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/core/domain/model/order"
	"kirana/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Location is a WGS84 point.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (l *Location) toDomain() (*kernel.Location, error) {
	if l == nil {
		return nil, nil
	}
	loc, err := kernel.NewLocation(l.Lat, l.Lng)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func locationView(l *kernel.Location) *Location {
	if l == nil {
		return nil
	}
	return &Location{Lat: l.Lat(), Lng: l.Lng()}
}

type ItemRequest struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type ShopRequest struct {
	Name     string    `json:"name"`
	Address  string    `json:"address"`
	Location *Location `json:"location"`
}

// NewOrderRequest is the order handed over by the placement flow.
type NewOrderRequest struct {
	OrderID         string          `json:"orderId"`
	CustomerID      string          `json:"customerId"`
	StoreID         string          `json:"storeId"`
	PaymentMethod   string          `json:"paymentMethod"`
	Items           []ItemRequest   `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Shop            *ShopRequest    `json:"shop"`
	CustomerAddress string          `json:"customerAddress"`
}

func (r NewOrderRequest) toCommand() (commands.CreateOrderCommand, error) {
	var errList []error
	orderID, err := parseUUID("orderId", r.OrderID)
	errList = append(errList, err)
	customerID, err := parseUUID("customerId", r.CustomerID)
	errList = append(errList, err)
	storeID, err := parseUUID("storeId", r.StoreID)
	errList = append(errList, err)
	method, err := order.ParsePaymentMethod(r.PaymentMethod)
	errList = append(errList, err)

	items := make([]order.Item, 0, len(r.Items))
	for _, it := range r.Items {
		item, err := order.NewItem(it.ProductID, it.Name, it.Quantity, it.UnitPrice)
		if err != nil {
			errList = append(errList, err)
			continue
		}
		items = append(items, item)
	}

	var shop order.ShopSnapshot
	if r.Shop != nil {
		loc, err := r.Shop.Location.toDomain()
		errList = append(errList, err)
		if err == nil {
			shop, err = order.NewShopSnapshot(r.Shop.Name, r.Shop.Address, loc)
			errList = append(errList, err)
		}
	}
	if err := errors.Join(errList...); err != nil {
		return commands.CreateOrderCommand{}, err
	}

	return commands.NewCreateOrderCommand(orderID, customerID, storeID, method, items,
		r.TotalAmount, shop, r.CustomerAddress)
}

type StatusRequest struct {
	Status string `json:"status"`
}

type DeliveryStatusRequest struct {
	AgentID      string `json:"agentId"`
	Status       string `json:"status"`
	CodConfirmed bool   `json:"codConfirmed"`
}

type AssignRequest struct {
	Strategy string `json:"strategy"`
}

type ReassignRequest struct {
	AgentID string `json:"agentId"`
}

type AssignmentResponse struct {
	AgentID string `json:"agentId"`
	BatchID string `json:"batchId,omitempty"`
}

func assignmentView(a commands.Assignment) AssignmentResponse {
	resp := AssignmentResponse{AgentID: a.AgentID.String()}
	if a.BatchID.Validate() == nil {
		resp.BatchID = a.BatchID.String()
	}
	return resp
}

type OrderStateResponse struct {
	OrderID        string `json:"orderId"`
	Status         string `json:"status"`
	DeliveryStatus string `json:"deliveryStatus"`
	AgentID        string `json:"agentId,omitempty"`
	BatchID        string `json:"batchId,omitempty"`
}

func orderStateView(s commands.OrderState) OrderStateResponse {
	resp := OrderStateResponse{
		OrderID:        s.OrderID.String(),
		Status:         s.Status.String(),
		DeliveryStatus: s.DeliveryStatus.String(),
	}
	if s.AgentID != nil {
		resp.AgentID = s.AgentID.String()
	}
	if s.BatchID != nil {
		resp.BatchID = s.BatchID.String()
	}
	return resp
}

type NewAgentRequest struct {
	Name string `json:"name"`
}

type CreatedResponse struct {
	ID string `json:"id"`
}

type AvailabilityRequest struct {
	Status string `json:"status"`
}

type WindowRequest struct {
	Label      string   `json:"label"`
	Start      string   `json:"start"`
	End        string   `json:"end"`
	DaysOfWeek []string `json:"daysOfWeek"`
	IsActive   *bool    `json:"isActive"`
}

// NewApartmentRequest registers an apartment complex with its ordering
// windows, in the order they should be matched.
type NewApartmentRequest struct {
	Name               string          `json:"name"`
	Address            string          `json:"address"`
	Location           *Location       `json:"location"`
	DeliveryRadiusKm   float64         `json:"deliveryRadiusKm"`
	TotalFamilies      int             `json:"totalFamilies"`
	RegisteredFamilies int             `json:"registeredFamilies"`
	IsActive           *bool           `json:"isActive"`
	Windows            []WindowRequest `json:"windows"`
}

func (r NewApartmentRequest) toCommand(id kernel.UUID) (commands.RegisterApartmentCommand, error) {
	var errList []error
	windows := make([]apartment.Window, 0, len(r.Windows))
	for _, w := range r.Windows {
		window, err := w.toDomain()
		if err != nil {
			errList = append(errList, err)
			continue
		}
		windows = append(windows, window)
	}
	loc, err := r.Location.toDomain()
	errList = append(errList, err)
	if err := errors.Join(errList...); err != nil {
		return commands.RegisterApartmentCommand{}, err
	}

	apt, err := apartment.NewApartment(id, r.Name, r.Address, loc, r.DeliveryRadiusKm,
		r.TotalFamilies, r.RegisteredFamilies, boolOr(r.IsActive, true), windows)
	if err != nil {
		return commands.RegisterApartmentCommand{}, err
	}
	return commands.NewRegisterApartmentCommand(apt)
}

func (r WindowRequest) toDomain() (apartment.Window, error) {
	var errList []error
	start, err := kernel.ParseTimeOfDay(r.Start)
	errList = append(errList, err)
	end, err := kernel.ParseTimeOfDay(r.End)
	errList = append(errList, err)
	days := make([]time.Weekday, 0, len(r.DaysOfWeek))
	for _, d := range r.DaysOfWeek {
		day, err := apartment.ParseWeekday(d)
		if err != nil {
			errList = append(errList, err)
			continue
		}
		days = append(days, day)
	}
	if err := errors.Join(errList...); err != nil {
		return apartment.Window{}, err
	}
	return apartment.NewWindow(kernel.NewUUID(), r.Label, start, end, days, boolOr(r.IsActive, true))
}

type JoinRequest struct {
	OrderID string `json:"orderId"`
}

type JoinResponse struct {
	Key           string          `json:"key"`
	TotalFamilies int             `json:"totalFamilies"`
	TotalItems    int             `json:"totalItems"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
}

type AgentOrderResponse struct {
	OrderID         string          `json:"orderId"`
	BatchID         string          `json:"batchId,omitempty"`
	Status          string          `json:"status"`
	DeliveryStatus  string          `json:"deliveryStatus"`
	PaymentMethod   string          `json:"paymentMethod"`
	CodConfirmed    bool            `json:"codConfirmed"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	ShopName        string          `json:"shopName"`
	ShopAddress     string          `json:"shopAddress"`
	ShopLocation    *Location       `json:"shopLocation,omitempty"`
	CustomerAddress string          `json:"customerAddress"`
	CreatedAt       time.Time       `json:"createdAt"`
}

func agentOrderView(o queries.GetAgentOrdersQueryResponse) AgentOrderResponse {
	resp := AgentOrderResponse{
		OrderID:         o.OrderID.String(),
		Status:          o.Status,
		DeliveryStatus:  o.DeliveryStatus,
		PaymentMethod:   o.PaymentMethod,
		CodConfirmed:    o.CodConfirmed,
		TotalAmount:     o.TotalAmount,
		ShopName:        o.ShopName,
		ShopAddress:     o.ShopAddress,
		ShopLocation:    locationView(o.ShopLocation),
		CustomerAddress: o.CustomerAddress,
		CreatedAt:       o.CreatedAt,
	}
	if o.BatchID != nil {
		resp.BatchID = o.BatchID.String()
	}
	return resp
}

type AgentResponse struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Status            string     `json:"status"`
	ActiveDeliveries  int        `json:"activeDeliveries"`
	Location          *Location  `json:"location,omitempty"`
	LocationUpdatedAt *time.Time `json:"locationUpdatedAt,omitempty"`
}

type WindowView struct {
	Label string `json:"label"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type BulkOrderResponse struct {
	Key                   string          `json:"key"`
	ApartmentID           string          `json:"apartmentId"`
	Date                  string          `json:"date"`
	Status                string          `json:"status"`
	TotalFamilies         int             `json:"totalFamilies"`
	TotalItems            int             `json:"totalItems"`
	TotalAmount           decimal.Decimal `json:"totalAmount"`
	DeliveryFeeDiscount   decimal.Decimal `json:"deliveryFeeDiscount"`
	AgentID               string          `json:"agentId,omitempty"`
	DeliverySlot          string          `json:"deliverySlot,omitempty"`
	EstimatedDeliveryDate *time.Time      `json:"estimatedDeliveryDate,omitempty"`
	ActualDeliveryDate    *time.Time      `json:"actualDeliveryDate,omitempty"`
	Window                *WindowView     `json:"window,omitempty"`
	SecondsRemaining      int64           `json:"secondsRemaining"`
}

func bulkOrderView(b queries.GetBulkOrderQueryResponse) BulkOrderResponse {
	resp := BulkOrderResponse{
		Key:                   b.Key,
		ApartmentID:           b.ApartmentID.String(),
		Date:                  b.Date,
		Status:                b.Status,
		TotalFamilies:         b.TotalFamilies,
		TotalItems:            b.TotalItems,
		TotalAmount:           b.TotalAmount,
		DeliveryFeeDiscount:   b.DeliveryFeeDiscount,
		DeliverySlot:          b.DeliverySlot,
		EstimatedDeliveryDate: b.EstimatedDeliveryDate,
		ActualDeliveryDate:    b.ActualDeliveryDate,
		SecondsRemaining:      int64(b.TimeRemaining / time.Second),
	}
	if b.AgentID != nil {
		resp.AgentID = b.AgentID.String()
	}
	if b.Window != nil {
		resp.Window = &WindowView{Label: b.Window.Label, Start: b.Window.Start, End: b.Window.End}
	}
	return resp
}

func parseUUID(name, s string) (kernel.UUID, error) {
	if s == "" {
		return kernel.UUID{}, errs.NewValueIsRequiredError(name)
	}
	id, err := kernel.UUIDFromString(s)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

func boolOr(b *bool, fallback bool) bool {
	if b == nil {
		return fallback
	}
	return *b
}
