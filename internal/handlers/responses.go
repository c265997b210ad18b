package handlers

import (
	"github.com/abrezinsky/beastreader/internal/models"
	"github.com/abrezinsky/beastreader/internal/tracks"
)

// TracksResponse is the track catalog with today's cutoff state
type TracksResponse struct {
	Now        string                  `json:"now"`
	Timezone   string                  `json:"timezone"`
	Categories []tracks.CategoryStatus `json:"categories"`
}

// TicketResponse is an issued ticket with its receipt links
type TicketResponse struct {
	*models.Ticket
	ReceiptURL string `json:"receipt_url"`
	QRURL      string `json:"qr_url"`
}

// TicketListResponse is the operator view of the archive
type TicketListResponse struct {
	Tickets []models.Ticket `json:"tickets"`
	Count   int             `json:"count"`
}

// InterpreterStatusResponse reports whether imports by photo or prompt are available
type InterpreterStatusResponse struct {
	Available bool `json:"available"`
}
