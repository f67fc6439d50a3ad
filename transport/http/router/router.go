package router

import (
	"estatehub/internal/handlers/announcement"
	"estatehub/internal/handlers/blockeddate"
	"estatehub/internal/handlers/booking"
	"estatehub/internal/handlers/facility"
	"estatehub/internal/handlers/fee"
	"estatehub/internal/handlers/report"
	"estatehub/internal/handlers/visitor"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Facility     facility.Handler
	BlockedDate  blockeddate.Handler
	Booking      booking.Handler
	Fee          fee.Handler
	Report       report.Handler
	Visitor      visitor.Handler
	Announcement announcement.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

// SetupRoutes mounts every domain under the /api group. The booking routes share
// one subrouter, facilities and blocked dates are registered before the /{id} catch-all.
func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/Bookings", func(routerGroup chi.Router) {
		r.DomainHandlers.Facility.Router(routerGroup)
		r.DomainHandlers.BlockedDate.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
	})

	router.Route("/Fees", r.DomainHandlers.Fee.Router)
	router.Route("/Reports", r.DomainHandlers.Report.Router)
	router.Route("/Visitors", r.DomainHandlers.Visitor.Router)
	router.Route("/Announcements", r.DomainHandlers.Announcement.Router)
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
