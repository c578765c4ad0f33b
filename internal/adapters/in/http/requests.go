package http

// Request and response bodies for the dispatch API.

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type createPartnerRequest struct {
	Name    string `json:"name"`
	Vehicle string `json:"vehicle"`
}

type createOrderRequest struct {
	ID   string  `json:"id"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Tier string  `json:"tier"`
}

type assignDeliveryRequest struct {
	OrderID   string `json:"order_id"`
	PartnerID string `json:"partner_id"`
}

type rejectDeliveryRequest struct {
	Reason string `json:"reason"`
}

type completeDeliveryRequest struct {
	Otp string `json:"otp"`
}

type requestCancellationRequest struct {
	Reason string `json:"reason"`
}

type resolveCancellationRequest struct {
	Approve bool    `json:"approve"`
	Payout  float64 `json:"payout"`
	Notes   string  `json:"notes"`
}

type updateLocationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type setAvailabilityRequest struct {
	Available bool `json:"available"`
}

type idResponse struct {
	ID string `json:"id"`
}

type partnerResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Vehicle        string   `json:"vehicle"`
	Rating         float64  `json:"rating"`
	DeliveredCount int      `json:"delivered_count"`
	Lat            *float64 `json:"lat,omitempty"`
	Lng            *float64 `json:"lng,omitempty"`
}

type deliveryResponse struct {
	ID               string  `json:"id"`
	OrderID          string  `json:"order_id"`
	PartnerID        string  `json:"partner_id"`
	HubID            string  `json:"hub_id"`
	Status           string  `json:"status"`
	EstimatedMinutes int     `json:"estimated_minutes"`
	EstimatedArrival *string `json:"estimated_arrival,omitempty"`
	CreatedAt        string  `json:"created_at"`
}
