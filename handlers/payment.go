package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"mcpe-gateway-api/middleware"
	"mcpe-gateway-api/models"
	"mcpe-gateway-api/services/payment"
	"mcpe-gateway-api/services/payment/mcpe"
	"mcpe-gateway-api/utils"
)

const maxBodyBytes = 1 << 20

type PaymentHandler struct {
	paymentService *payment.Service
}

func NewPaymentHandler(ps *payment.Service) (*PaymentHandler, error) {
	if ps == nil {
		return nil, fmt.Errorf("payment service is required")
	}
	return &PaymentHandler{paymentService: ps}, nil
}

func (h *PaymentHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	var req models.ChargeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.paymentService.Authorize(r.Context(), &req)
	h.respond(w, r, resp, err)
}

func (h *PaymentHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req models.ChargeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.paymentService.Purchase(r.Context(), &req)
	h.respond(w, r, resp, err)
}

func (h *PaymentHandler) Repeat(w http.ResponseWriter, r *http.Request) {
	var req models.RepeatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.paymentService.Repeat(r.Context(), &req)
	h.respond(w, r, resp, err)
}

func (h *PaymentHandler) Refund(w http.ResponseWriter, r *http.Request) {
	var req models.RefundRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.paymentService.Refund(r.Context(), &req)
	h.respond(w, r, resp, err)
}

func (h *PaymentHandler) Payout(w http.ResponseWriter, r *http.Request) {
	var req models.PayoutRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.paymentService.Payout(r.Context(), &req)
	h.respond(w, r, resp, err)
}

func (h *PaymentHandler) Capture(w http.ResponseWriter, r *http.Request) {
	var req models.CaptureRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.paymentService.Capture(r.Context(), &req)
	h.respond(w, r, resp, err)
}

func (h *PaymentHandler) respond(w http.ResponseWriter, r *http.Request, resp *models.TransactionResponse, err error) {
	if err != nil {
		status, message := errorStatus(err)
		event := zerolog.Ctx(r.Context()).Warn()
		if status >= 500 {
			event = zerolog.Ctx(r.Context()).Error()
		}
		client := middleware.GetClientFromContext(r.Context())
		if client != nil {
			event = event.Str("client_id", client.ClientID)
		}
		event.Err(err).Int("status", status).Msg("payment request failed")

		utils.SendErrorResponse(w, status, message)
		return
	}

	if !resp.Success {
		utils.SendSuccessResponse(w, models.APIResponse{
			Status:  "declined",
			Message: resp.Message,
			Data:    resp,
		})
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "Transaction approved",
		Data:    resp,
	})
}

// errorStatus maps service errors to an HTTP status and a client-safe message.
func errorStatus(err error) (int, string) {
	switch {
	case payment.IsInputError(err):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, mcpe.ErrCaptureUnsupported):
		return http.StatusNotImplemented, "Capture is not supported by this gateway"
	case errors.Is(err, mcpe.ErrMissingSecret):
		return http.StatusServiceUnavailable, "Payouts are not configured"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return http.StatusServiceUnavailable, "Payment gateway temporarily unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Payment gateway timed out"
	default:
		return http.StatusBadGateway, "Payment gateway error"
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("error decoding request body")
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
