package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"stayhub/internal/domain/booking"
	reqdto "stayhub/internal/handler/dto/request"
	resdto "stayhub/internal/handler/dto/response"
	"stayhub/internal/handler/middleware"
	"stayhub/internal/pkg/errs"
	"stayhub/internal/pkg/jwt"
	"stayhub/internal/usecase/commands"
	"stayhub/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	guestID, ok := middleware.GetPartyID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	roomTypeID, err := uuid.Parse(req.RoomTypeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid room type ID format",
		})
		return
	}

	b, err := h.bookingCommands.Create(c.Request.Context(), commands.CreateBookingParams{
		GuestID:    guestID,
		RoomTypeID: roomTypeID,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		Adults:     req.Adults,
		Children:   req.Children,
		Units:      req.Units,
		CouponCode: req.GetCouponCode(),
	})
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrRoomTypeNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Room type not found",
			})
		case errors.Is(err, errs.ErrCouponNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Coupon not found",
			})
		case errors.Is(err, errs.ErrOutOfInventory):
			c.JSON(http.StatusConflict, gin.H{
				"error": "No rooms available for the requested dates",
			})
		case errors.Is(err, errs.ErrCouponInvalid):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid or expired coupon",
			})
		case errors.Is(err, errs.ErrBusy):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Booking is being processed, please retry",
			})
		case errors.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Domain validation failed",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromBooking(b))
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	// Guests may only see their own bookings; partners and admins see all.
	if role, _ := middleware.GetRole(c); role == jwt.RoleGuest {
		if partyID, ok := middleware.GetPartyID(c); !ok || view.GuestID != partyID {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
			return
		}
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

func (h *BookingHandler) GetMyBookings(c *gin.Context) {
	guestID, ok := middleware.GetPartyID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	items, err := h.bookingQueries.ListByGuest(c.Request.Context(), guestID, parseLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.BookingListResponse, len(items))
	for i, it := range items {
		response[i] = resdto.FromBookingListItem(it)
	}

	c.JSON(http.StatusOK, response)
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	actorID, ok := middleware.GetPartyID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	var req reqdto.CancelBookingRequest
	if c.Request.ContentLength > 0 {
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request format",
			})
			return
		}
	}

	role, _ := middleware.GetRole(c)
	isAdmin := role == jwt.RoleAdmin

	b, err := h.bookingCommands.Cancel(c.Request.Context(), id, actorID, isAdmin, req.GetReason())
	if err != nil {
		h.writeTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBooking(b))
}

func (h *BookingHandler) CollectCash(c *gin.Context) {
	h.partnerTransition(c, h.bookingCommands.CollectCash)
}

func (h *BookingHandler) MarkNoShow(c *gin.Context) {
	h.partnerTransition(c, h.bookingCommands.MarkNoShow)
}

func (h *BookingHandler) CheckIn(c *gin.Context) {
	h.partnerTransition(c, h.bookingCommands.CheckIn)
}

func (h *BookingHandler) CheckOut(c *gin.Context) {
	h.partnerTransition(c, h.bookingCommands.CheckOut)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	h.partnerTransition(c, h.bookingCommands.Complete)
}

func (h *BookingHandler) partnerTransition(
	c *gin.Context,
	op func(ctx context.Context, bookingID, partnerID uuid.UUID) (*booking.Booking, error),
) {
	partnerID, ok := middleware.GetPartyID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	b, err := op(c.Request.Context(), id, partnerID)
	if err != nil {
		h.writeTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBooking(b))
}

func (h *BookingHandler) writeTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Booking not found",
		})
	case errors.Is(err, errs.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Not allowed to modify this booking",
		})
	case errors.Is(err, booking.ErrCancellationClosed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Cancellation window has closed",
		})
	case errors.Is(err, errs.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Operation not allowed in current booking state",
		})
	case errors.Is(err, errs.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Booking is being processed, please retry",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

func parseLimit(c *gin.Context) int32 {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 32)
	if err != nil || limit < 1 {
		return 50
	}
	return int32(limit)
}
